package podcast

import (
	"strings"
)

const (
	// MaxPrefixRunes is how much of the topic ends up in the filename.
	MaxPrefixRunes = 20

	// DefaultFilename is used by batch runs without an explicit output.
	DefaultFilename = "podcast_episode.mp3"

	filenamePrefix = "podcast_"
	filenameExt    = ".mp3"
)

// sanitizer maps spaces to underscores. Path separators get the same
// treatment so a topic can never name a file outside the output directory.
var sanitizer = strings.NewReplacer(" ", "_", "/", "_", `\`, "_")

// Sanitize replaces spaces with underscores and keeps the first
// MaxPrefixRunes runes. Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(topic string) string {
	s := sanitizer.Replace(topic)
	r := []rune(s)
	if len(r) > MaxPrefixRunes {
		r = r[:MaxPrefixRunes]
	}
	return string(r)
}

// Filename returns the file name derived from topic, e.g.
// "The future of renewable energy" -> "podcast_The_future_of_renewa.mp3".
func Filename(topic string) string {
	return filenamePrefix + Sanitize(topic) + filenameExt
}

// IsEpisodeFilename reports whether name looks like a file produced by
// Filename or DefaultFilename and contains no path separator.
func IsEpisodeFilename(name string) bool {
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return strings.HasPrefix(name, filenamePrefix) && strings.HasSuffix(name, filenameExt) &&
		len(name) > len(filenamePrefix)+len(filenameExt)
}
