package gtts

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxChunkRunes is the longest text the translate_tts endpoint accepts in
// one request.
const MaxChunkRunes = 100

// punctuation ends a token. Commas and colons are included so long
// sentences break at natural pauses before falling back to spaces.
const punctuation = ".?!;:,¿¡…。，、？！；："

// Tokenize splits text into chunks of at most MaxChunkRunes runes,
// preferring punctuation, then whitespace, then a hard cut.
// Empty and punctuation-only chunks are dropped.
func Tokenize(text string) []string {
	text = normalize(text)
	if text == "" {
		return nil
	}

	var chunks []string
	for _, sentence := range splitPunctuation(text) {
		for _, c := range minimize(sentence, MaxChunkRunes) {
			if speakable(c) {
				chunks = append(chunks, c)
			}
		}
	}
	return chunks
}

// normalize collapses every whitespace run, newlines included, to a single
// space.
func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// splitPunctuation cuts after each punctuation rune, keeping the mark with
// the preceding text.
func splitPunctuation(text string) []string {
	var out []string
	start := 0
	for i, r := range text {
		if strings.ContainsRune(punctuation, r) {
			end := i + utf8.RuneLen(r)
			if tok := strings.TrimSpace(text[start:end]); tok != "" {
				out = append(out, tok)
			}
			start = end
		}
	}
	if tok := strings.TrimSpace(text[start:]); tok != "" {
		out = append(out, tok)
	}
	return out
}

// minimize splits s into pieces of at most max runes, cutting at the last
// space that fits.
func minimize(s string, max int) []string {
	var out []string
	for {
		s = strings.TrimSpace(s)
		runes := []rune(s)
		if len(runes) <= max {
			if s != "" {
				out = append(out, s)
			}
			return out
		}

		cut := max
		for i := max; i > 0; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		out = append(out, strings.TrimSpace(string(runes[:cut])))
		s = string(runes[cut:])
	}
}

// speakable reports whether s holds at least one letter or digit.
func speakable(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
