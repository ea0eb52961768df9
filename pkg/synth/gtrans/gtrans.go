// Package gtrans provides a speech synthesis engine backed by the Google
// Translate text-to-speech endpoint. It implements the synth.Provider
// interface.
//
// The endpoint returns a complete MP3 clip per call but only accepts short
// inputs, so Synthesize splits long text into parts at whitespace boundaries
// and concatenates the returned MP3 payloads (valid for MPEG audio streams).
//
// Typical usage:
//
//	engine, err := gtrans.New(
//	    gtrans.WithTimeout(15*time.Second),
//	)
//	clip, err := engine.Synthesize(ctx, "Hello world!", "en")
package gtrans

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/lorikeet-audio/lorikeet/pkg/languages"
	"github.com/lorikeet-audio/lorikeet/pkg/synth"
)

// Compile-time interface assertion.
var _ synth.Provider = (*Engine)(nil)

const (
	defaultBaseURL = "https://translate.google.com"
	defaultTimeout = 30 * time.Second
	ttsPath        = "/translate_tts"

	// maxPartLen is the longest text part (in runes) sent in one call. The
	// endpoint rejects longer inputs.
	maxPartLen = 200
)

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithBaseURL overrides the Google Translate base URL. Mainly useful for
// pointing the engine at a test server.
func WithBaseURL(u string) Option {
	return func(e *Engine) {
		e.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets the per-request HTTP timeout. Defaults to 30 s. Callers
// that need an overall bound across all parts should use a context deadline.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.httpClient.Timeout = d
	}
}

// WithSlowSpeech makes the engine request slowed-down speech.
func WithSlowSpeech() Option {
	return func(e *Engine) {
		e.slow = true
	}
}

// Engine implements synth.Provider against the Google Translate TTS endpoint.
// It is safe for concurrent use.
type Engine struct {
	baseURL    string
	httpClient *http.Client
	slow       bool
}

// New creates a new Engine. Options may override the base URL and timeout.
func New(opts ...Option) *Engine {
	e := &Engine{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Synthesize implements synth.Provider. The language code is resolved against
// the supported-language table before any network call; unsupported codes
// yield a synth.Error of kind KindInvalidLanguage, with a suggestion when the
// code looks like a typo.
func (e *Engine) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	code, ok := languages.Canonical(lang)
	if !ok {
		detail := fmt.Sprintf("unsupported language code %q", lang)
		if s := languages.Suggest(lang); s != "" {
			detail += fmt.Sprintf(" (did you mean %q?)", s)
		}
		return nil, &synth.Error{Kind: synth.KindInvalidLanguage, Detail: detail}
	}

	parts := splitText(text, maxPartLen)
	clip := make([]byte, 0, 16*1024)
	for i, part := range parts {
		mp3, err := e.fetchPart(ctx, part, code, i, len(parts))
		if err != nil {
			return nil, err
		}
		clip = append(clip, mp3...)
	}
	return clip, nil
}

// fetchPart performs one GET /translate_tts call and returns the MP3 payload.
func (e *Engine) fetchPart(ctx context.Context, part, lang string, idx, total int) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("q", part)
	params.Set("tl", lang)
	params.Set("total", strconv.Itoa(total))
	params.Set("idx", strconv.Itoa(idx))
	params.Set("textlen", strconv.Itoa(len(part)))
	if e.slow {
		params.Set("ttsspeed", "0.24")
	} else {
		params.Set("ttsspeed", "1")
	}

	reqURL := e.baseURL + ttsPath + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &synth.Error{Kind: synth.KindGenerationFailed, Detail: "failed to build synthesis request", Err: err}
	}
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &synth.Error{Kind: synth.KindTimeout, Detail: "speech synthesis timed out", Err: err}
		}
		return nil, &synth.Error{Kind: synth.KindGenerationFailed, Detail: "speech synthesis request failed", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// carry on
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		// The endpoint answers 404/400 for language codes it does not know.
		return nil, &synth.Error{
			Kind:   synth.KindInvalidLanguage,
			Detail: fmt.Sprintf("engine rejected language code %q", lang),
		}
	default:
		return nil, &synth.Error{
			Kind:   synth.KindGenerationFailed,
			Detail: fmt.Sprintf("engine returned status %d", resp.StatusCode),
		}
	}

	mp3, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &synth.Error{Kind: synth.KindGenerationFailed, Detail: "failed to read synthesis response", Err: err}
	}
	if len(mp3) == 0 {
		return nil, &synth.Error{Kind: synth.KindGenerationFailed, Detail: "engine returned an empty clip"}
	}
	return mp3, nil
}

// splitText splits text into parts of at most maxLen runes, preferring to
// break at the last whitespace inside the window so words stay intact. Text
// with a run of maxLen non-space runes is broken mid-word.
func splitText(text string, maxLen int) []string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return []string{text}
	}

	var parts []string
	for len(runes) > 0 {
		if len(runes) <= maxLen {
			parts = append(parts, string(runes))
			break
		}
		cut := maxLen
		for i := maxLen; i > 0; i-- {
			if unicode.IsSpace(runes[i-1]) {
				cut = i
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	return parts
}
