// Package stream implements the per-connection WebSocket session protocol.
//
// Each connection is served by one Session. A session accepts JSON requests
// and answers every one with a fixed frame sequence: a "generating" status,
// then either a "ready" status followed by ordered binary audio chunks and a
// "complete" status, or a single "error" status. Requests on one connection
// are processed strictly one after the other; the connection stays open
// across any number of cycles and across request failures.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/lorikeet-audio/lorikeet/internal/observe"
	"github.com/lorikeet-audio/lorikeet/internal/request"
	"github.com/lorikeet-audio/lorikeet/pkg/audio"
	"github.com/lorikeet-audio/lorikeet/pkg/synth"
)

// DefaultEngineTimeout bounds a single synthesis call when Options leaves
// EngineTimeout unset.
const DefaultEngineTimeout = 30 * time.Second

// DefaultEchoLimit bounds how many characters of the request text are echoed
// back in the "generating" status message.
const DefaultEchoLimit = 50

// Options tunes a session. The zero value is usable; unset fields fall back
// to package defaults.
type Options struct {
	// ChunkSize is the size in bytes of each binary audio frame.
	ChunkSize int

	// EchoLimit bounds the text echo in the "generating" status.
	EchoLimit int

	// EngineTimeout bounds one synthesis call.
	EngineTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = audio.DefaultChunkSize
	}
	if o.EchoLimit <= 0 {
		o.EchoLimit = DefaultEchoLimit
	}
	if o.EngineTimeout <= 0 {
		o.EngineTimeout = DefaultEngineTimeout
	}
	return o
}

// phase is the session's position in one generation cycle.
type phase int

const (
	phaseIdle phase = iota
	phaseGenerating
	phaseStreaming
)

// clientMessage is the JSON request shape a client sends over the socket.
type clientMessage struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

// statusMessage is the JSON control frame sent between binary chunks. Status
// is one of "generating", "ready", "complete" or "error"; Size is set only on
// "ready" and Error only on "error".
type statusMessage struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Size    int    `json:"size,omitempty"`
}

// Session serves one WebSocket connection. It is owned by a single goroutine
// and must not be shared.
type Session struct {
	conn    *websocket.Conn
	engine  synth.Provider
	opts    Options
	metrics *observe.Metrics
	logger  *slog.Logger
	phase   phase
}

// NewSession wraps an accepted connection. A nil logger falls back to
// [slog.Default], a nil metrics to [observe.DefaultMetrics].
func NewSession(conn *websocket.Conn, engine synth.Provider, opts Options, metrics *observe.Metrics, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}
	return &Session{
		conn:    conn,
		engine:  engine,
		opts:    opts.withDefaults(),
		metrics: metrics,
		logger:  logger,
	}
}

// Run services the connection until the client disconnects or ctx is
// cancelled. It always returns with the read goroutine stopped.
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so the reader can return to conn.Read while a cycle is in
	// progress; a disconnect is then noticed mid-generation and cancels the
	// engine call instead of letting it run to completion.
	msgs := make(chan []byte, 16)
	go s.readLoop(ctx, cancel, msgs)

	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-msgs:
			if !ok {
				return
			}
			if err := s.serve(ctx, raw); err != nil {
				s.logger.Debug("session ended mid-cycle", "err", err)
				return
			}
		}
	}
}

// readLoop feeds client text frames into msgs, preserving arrival order. It
// cancels the session context as soon as the read side fails so that any
// in-flight synthesis is abandoned rather than awaited.
func (s *Session) readLoop(ctx context.Context, cancel context.CancelFunc, msgs chan<- []byte) {
	defer close(msgs)
	defer cancel()

	for {
		typ, data, err := s.conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			continue
		}
		select {
		case msgs <- data:
		case <-ctx.Done():
			return
		}
	}
}

// serve runs one full generation cycle for a raw client message. A non-nil
// return means the transport is gone and the session must end; request-level
// failures are reported to the client as an "error" status and return nil.
func (s *Session) serve(ctx context.Context, raw []byte) error {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return s.writeStatus(ctx, statusMessage{
			Status: "error",
			Error:  "invalid JSON payload: " + err.Error(),
		})
	}

	s.phase = phaseGenerating
	defer func() { s.phase = phaseIdle }()

	err := s.writeStatus(ctx, statusMessage{
		Status:  "generating",
		Message: "Generating speech for: " + truncate(msg.Text, s.opts.EchoLimit),
	})
	if err != nil {
		return err
	}

	req, err := request.New(msg.Text, msg.Lang)
	if err != nil {
		s.metrics.RecordSynthRequest(ctx, "ws", "invalid")
		return s.writeStatus(ctx, statusMessage{Status: "error", Error: err.Error()})
	}

	clip, err := s.synthesize(ctx, req)
	if err != nil {
		kind := synth.KindOf(err)
		s.metrics.RecordEngineError(ctx, kind.String())
		s.metrics.RecordSynthRequest(ctx, "ws", "error")
		s.logger.Warn("synthesis failed", "lang", req.Lang, "kind", kind.String(), "err", err)
		if ctx.Err() != nil {
			// Transport is gone; no point reporting to the client.
			return ctx.Err()
		}
		return s.writeStatus(ctx, statusMessage{Status: "error", Error: synth.Detail(err)})
	}

	err = s.writeStatus(ctx, statusMessage{
		Status:  "ready",
		Message: "Audio ready, streaming...",
		Size:    len(clip),
	})
	if err != nil {
		return err
	}

	s.phase = phaseStreaming
	for chunk := range audio.Chunks(clip, s.opts.ChunkSize) {
		if err := s.conn.Write(ctx, websocket.MessageBinary, chunk); err != nil {
			return fmt.Errorf("stream: write chunk: %w", err)
		}
	}
	s.metrics.StreamedBytes.Add(ctx, int64(len(clip)))
	s.metrics.RecordSynthRequest(ctx, "ws", "ok")

	return s.writeStatus(ctx, statusMessage{Status: "complete", Message: "Audio streaming complete"})
}

// synthesize runs one bounded engine call with its own span and latency
// measurement.
func (s *Session) synthesize(ctx context.Context, req request.SpeechRequest) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.EngineTimeout)
	defer cancel()

	ctx, span := observe.StartSpan(ctx, "synth.generate")
	defer span.End()

	start := time.Now()
	clip, err := s.engine.Synthesize(ctx, req.Text, req.Lang)
	s.metrics.SynthDuration.Record(ctx, time.Since(start).Seconds())
	return clip, err
}

// writeStatus marshals msg and sends it as a text frame.
func (s *Session) writeStatus(ctx context.Context, msg statusMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("stream: marshal status: %w", err)
	}
	return s.conn.Write(ctx, websocket.MessageText, data)
}

// truncate returns at most limit runes of s.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
