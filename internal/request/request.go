// Package request defines the speech request shape shared by the REST and
// WebSocket paths and its validation rules.
package request

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTextLen is the maximum accepted text length in characters (runes),
// measured before trimming.
const MaxTextLen = 5000

// DefaultLanguage is used when the client omits the language code.
const DefaultLanguage = "en"

// maxLangLen bounds the syntactic plausibility check for language codes.
// Real codes are at most a primary subtag plus region ("zh-CN").
const maxLangLen = 16

// SpeechRequest is one validated text-to-speech request. Text is kept exactly
// as the client sent it (trimming is applied only for the emptiness check);
// Lang is trimmed and defaulted but not resolved against any engine's
// accepted-code set — an unsupported code surfaces later from the engine.
type SpeechRequest struct {
	Text string
	Lang string
}

// FieldError describes a single violated validation rule.
type FieldError struct {
	// Field names the offending request field ("text" or "lang").
	Field string `json:"field"`

	// Message describes the violated rule.
	Message string `json:"message"`
}

// ValidationError aggregates every rule a request violated. A single
// malformed payload can break several rules at once; all of them are
// collected rather than stopping at the first.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "invalid speech request: " + strings.Join(msgs, "; ")
}

// New validates the raw (text, lang) pair and returns a [SpeechRequest] or a
// *[ValidationError] listing every violated rule. The function is pure.
func New(text, lang string) (SpeechRequest, error) {
	var fields []FieldError

	if strings.TrimSpace(text) == "" {
		fields = append(fields, FieldError{
			Field:   "text",
			Message: "text must not be empty or only whitespace",
		})
	}
	if length := utf8.RuneCountInString(text); length > MaxTextLen {
		fields = append(fields, FieldError{
			Field:   "text",
			Message: fmt.Sprintf("text is %d characters, the maximum is %d", length, MaxTextLen),
		})
	}

	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = DefaultLanguage
	} else if !plausibleLang(lang) {
		fields = append(fields, FieldError{
			Field:   "lang",
			Message: fmt.Sprintf("%q is not a plausible language code", lang),
		})
	}

	if len(fields) > 0 {
		return SpeechRequest{}, &ValidationError{Fields: fields}
	}
	return SpeechRequest{Text: text, Lang: lang}, nil
}

// plausibleLang reports whether code looks like a language code: letters,
// digits and separators only, within a sane length. Whether an engine
// actually supports the code is checked at synthesis time.
func plausibleLang(code string) bool {
	if len(code) > maxLangLen {
		return false
	}
	for _, r := range code {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
