package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lorikeet-audio/lorikeet/internal/observe"
	"github.com/lorikeet-audio/lorikeet/internal/request"
	"github.com/lorikeet-audio/lorikeet/pkg/synth"
)

// ttsRequest is the JSON body for POST /api/v1/tts.
type ttsRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

// errorResponse is the JSON error body for 400 and 500 responses.
type errorResponse struct {
	Detail string `json:"detail"`
}

// validationResponse is the JSON error body for 422 responses, one entry per
// violated rule.
type validationResponse struct {
	Detail []request.FieldError `json:"detail"`
}

// handleTTS serves POST /api/v1/tts: validate, synthesise, return the whole
// clip in one response.
func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.metrics.RecordSynthRequest(ctx, "rest", "invalid")
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid JSON body: " + err.Error()})
		return
	}

	req, err := request.New(body.Text, body.Lang)
	if err != nil {
		s.metrics.RecordSynthRequest(ctx, "rest", "invalid")
		var verr *request.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Detail: verr.Fields})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	clip, err := s.synthesize(ctx, req)
	if err != nil {
		kind := synth.KindOf(err)
		s.metrics.RecordEngineError(ctx, kind.String())
		s.metrics.RecordSynthRequest(ctx, "rest", "error")
		observe.Logger(ctx).Warn("synthesis failed", "lang", req.Lang, "kind", kind.String(), "err", err)
		var serr *synth.Error
		if !errors.As(err, &serr) && !errors.Is(err, context.DeadlineExceeded) {
			// Not a classified engine failure; don't leak internals.
			writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "speech synthesis failed"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: synth.Detail(err)})
		return
	}
	s.metrics.RecordSynthRequest(ctx, "rest", "ok")

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=speech_%s.mp3", req.Lang))
	if _, err := w.Write(clip); err != nil {
		observe.Logger(ctx).Debug("client went away mid-response", "err", err)
	}
}

// synthesize runs one bounded engine call with its own span and latency
// measurement.
func (s *Server) synthesize(ctx context.Context, req request.SpeechRequest) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.engineTimeout)
	defer cancel()

	ctx, span := observe.StartSpan(ctx, "synth.generate")
	defer span.End()

	start := time.Now()
	clip, err := s.engine.Synthesize(ctx, req.Text, req.Lang)
	s.metrics.SynthDuration.Record(ctx, time.Since(start).Seconds())
	return clip, err
}
