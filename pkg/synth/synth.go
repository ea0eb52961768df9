// Package synth defines the Provider interface for speech synthesis engines.
//
// A synthesis engine converts a piece of text in a given language into a
// complete encoded audio clip (MP3). Engines are treated as opaque,
// network-bound and fallible: a call may take an unbounded amount of time and
// fail for reasons outside the caller's control. Callers bound the call with
// a context deadline and classify failures via [KindOf].
//
// Implementations must be safe for concurrent use.
package synth

import (
	"context"
	"errors"
	"fmt"
)

// Provider is the abstraction over any speech synthesis engine.
type Provider interface {
	// Synthesize converts text in the given language into a complete MP3
	// clip. The call is synchronous and may block for as long as the engine
	// takes; implementations must honour ctx cancellation and deadlines.
	//
	// A language code the engine does not accept yields an error of kind
	// [KindInvalidLanguage]. Any other failure (network, engine internal)
	// yields [KindGenerationFailed], or [KindTimeout] when ctx expired.
	// Failed calls are not retried at this layer.
	Synthesize(ctx context.Context, text, lang string) ([]byte, error)
}

// Kind classifies a synthesis failure.
type Kind int

const (
	// KindGenerationFailed covers network failures and engine-internal
	// errors. The default classification for unrecognised errors.
	KindGenerationFailed Kind = iota

	// KindInvalidLanguage means the engine rejected the language code.
	KindInvalidLanguage

	// KindTimeout means the engine call exceeded its deadline.
	KindTimeout
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidLanguage:
		return "invalid-language"
	case KindTimeout:
		return "timeout"
	default:
		return "generation-failed"
	}
}

// Error is a classified synthesis failure. Adapters translate engine-specific
// failures into an *Error so callers can branch on Kind without knowing which
// engine is behind the Provider.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Detail is a human-readable description safe to report to clients.
	Detail string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("synth: %s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("synth: %s: %s", e.Kind, e.Detail)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from err. Context deadline errors map to
// [KindTimeout]; anything that is not an *Error maps to [KindGenerationFailed].
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindGenerationFailed
}

// Detail returns the client-safe description of err. For an *Error it is the
// Detail field; for anything else the plain error text.
func Detail(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Detail
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "speech synthesis timed out"
	}
	return err.Error()
}
