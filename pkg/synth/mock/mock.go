// Package mock provides a test double for the synth.Provider interface.
//
// Use Engine in unit tests to verify what the session protocol and REST
// handler send to the engine and to feed controlled clips or failures without
// a live synthesis backend. All fields are safe to set before calling any
// method; mutating them during a concurrent call is the caller's
// responsibility.
//
// Example:
//
//	e := &mock.Engine{Clip: []byte("mp3")}
//	clip, err := e.Synthesize(ctx, "hello", "en")
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/lorikeet-audio/lorikeet/pkg/synth"
)

// Ensure Engine implements the synth.Provider interface.
var _ synth.Provider = (*Engine)(nil)

// Call records a single invocation of Synthesize.
type Call struct {
	// Text is the text passed to Synthesize.
	Text string
	// Lang is the language code passed to Synthesize.
	Lang string
}

// Engine is a mock implementation of synth.Provider.
// The zero value returns a nil clip and nil error. Set Err to inject a
// failure, Delay to simulate a slow engine.
type Engine struct {
	mu sync.Mutex

	// Clip is returned by Synthesize when Err is nil.
	Clip []byte

	// Err, if non-nil, is returned by Synthesize instead of Clip.
	Err error

	// Delay, when positive, makes Synthesize block for the given duration or
	// until ctx is cancelled, whichever comes first.
	Delay time.Duration

	// Calls records every invocation of Synthesize in order.
	Calls []Call
}

// Synthesize implements synth.Provider.
func (e *Engine) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	e.mu.Lock()
	e.Calls = append(e.Calls, Call{Text: text, Lang: lang})
	clip, err, delay := e.Clip, e.Err, e.Delay
	e.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return clip, nil
}

// SetClip replaces the clip returned by subsequent calls.
func (e *Engine) SetClip(clip []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Clip = clip
}

// SetErr replaces the injected failure. Pass nil to make subsequent calls
// succeed again.
func (e *Engine) SetErr(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Err = err
}

// CallCount returns the number of recorded Synthesize invocations.
func (e *Engine) CallCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Calls)
}

// LastCall returns the most recent recorded call, or a zero Call when none
// were made.
func (e *Engine) LastCall() Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Calls) == 0 {
		return Call{}
	}
	return e.Calls[len(e.Calls)-1]
}
