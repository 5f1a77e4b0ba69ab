// Package gtts is a client for the Google Translate text-to-speech endpoint,
// the same service the gTTS tool uses. It needs no API key.
//
// The endpoint only accepts short texts, so Write tokenizes the input and
// issues one request per chunk, appending each MP3 response to the output.
// MP3 frames are self-contained, so the concatenation is a valid stream.
package gtts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultTLD selects translate.google.com.
	DefaultTLD = "com"

	// DefaultLanguage is the only language podgen speaks.
	DefaultLanguage = "en"

	// DefaultRequestsPerMinute keeps us under Google's informal limits.
	DefaultRequestsPerMinute = 50

	// DefaultBurst lets a typical script go out without waiting.
	DefaultBurst = 25

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

var (
	// ErrEmptyText is returned when there is nothing speakable in the input.
	ErrEmptyText = errors.New("no speakable text")

	// ErrEmptyResponse is returned when the service answers with no audio.
	ErrEmptyResponse = errors.New("service returned no audio")
)

// StatusError reports a non-2xx answer.
type StatusError struct {
	StatusCode int
	Chunk      int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("translate_tts chunk %d: HTTP %d: %s", e.Chunk, e.StatusCode, e.Body)
}

// Config holds configuration for the client.
type Config struct {
	// TLD of the Google Translate host (e.g. "com", "co.uk"), defaults to "com".
	TLD string

	// BaseURL overrides the full endpoint URL; TLD is ignored when set.
	BaseURL string

	// Language code, defaults to "en".
	Language string

	// Slow requests the reduced speaking rate.
	Slow bool

	// HTTPClient, defaults to a client with a 30s timeout.
	HTTPClient *http.Client

	// Rate limit requests per minute (defaults to 50) and burst (defaults to 25).
	RequestsPerMinute int
	Burst             int
}

// Client talks to translate_tts.
type Client struct {
	endpoint    string
	language    string
	slow        bool
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// New creates a client, applying defaults to zero config fields.
func New(config Config) *Client {
	if config.TLD == "" {
		config.TLD = DefaultTLD
	}
	if config.BaseURL == "" {
		config.BaseURL = fmt.Sprintf("https://translate.google.%s/translate_tts", config.TLD)
	}
	if config.Language == "" {
		config.Language = DefaultLanguage
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if config.Burst <= 0 {
		config.Burst = DefaultBurst
	}

	return &Client{
		endpoint:    config.BaseURL,
		language:    config.Language,
		slow:        config.Slow,
		httpClient:  config.HTTPClient,
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RequestsPerMinute)), config.Burst),
	}
}

// Language returns the configured language code.
func (c *Client) Language() string {
	return c.language
}

// Write synthesizes text and writes the MP3 stream to w. It returns the
// number of bytes written. On error, w may hold a partial stream.
func (c *Client) Write(ctx context.Context, w io.Writer, text string) (int64, error) {
	chunks := Tokenize(text)
	if len(chunks) == 0 {
		return 0, ErrEmptyText
	}

	log.Debug("Synthesizing speech", "chunks", len(chunks), "language", c.language, "slow", c.slow)
	start := time.Now()

	var written int64
	for i, chunk := range chunks {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return written, fmt.Errorf("rate limit wait cancelled: %w", err)
		}

		n, err := c.fetch(ctx, w, chunk, i, len(chunks))
		written += n
		if err != nil {
			return written, err
		}
	}

	log.Debug("Speech synthesized", "bytes", written, "elapsed", time.Since(start))
	return written, nil
}

// Speak is Write into memory.
func (c *Client) Speak(ctx context.Context, text string) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := c.Write(ctx, &buf, text); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Client) fetch(ctx context.Context, w io.Writer, chunk string, idx, total int) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.chunkURL(chunk, idx, total), nil)
	if err != nil {
		return 0, fmt.Errorf("unable to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", "http://translate.google.com/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("translate_tts chunk %d: %w", idx, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, &StatusError{StatusCode: resp.StatusCode, Chunk: idx, Body: string(body)}
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("translate_tts chunk %d: unable to read audio: %w", idx, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("translate_tts chunk %d: %w", idx, ErrEmptyResponse)
	}
	return n, nil
}

func (c *Client) chunkURL(chunk string, idx, total int) string {
	speed := "1"
	if c.slow {
		speed = "0.3"
	}
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("q", chunk)
	q.Set("tl", c.language)
	q.Set("total", strconv.Itoa(total))
	q.Set("idx", strconv.Itoa(idx))
	q.Set("textlen", strconv.Itoa(len([]rune(chunk))))
	q.Set("client", "tw-ob")
	q.Set("prev", "input")
	q.Set("ttsspeed", speed)
	return c.endpoint + "?" + q.Encode()
}
