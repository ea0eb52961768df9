// Package openai provides a speech synthesis engine backed by the OpenAI
// audio/speech API. It implements the synth.Provider interface.
//
// OpenAI speech models infer the spoken language from the input text, so the
// language code is resolved against the supported-language table and passed
// to the model as an instruction rather than a request parameter.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"github.com/lorikeet-audio/lorikeet/pkg/languages"
	"github.com/lorikeet-audio/lorikeet/pkg/synth"
)

// DefaultModel is the default OpenAI speech model.
const DefaultModel = oai.SpeechModelGPT4oMiniTTS

// DefaultVoice is the voice used when none is configured.
const DefaultVoice = oai.AudioSpeechNewParamsVoiceAlloy

// Ensure Engine implements the synth.Provider interface.
var _ synth.Provider = (*Engine)(nil)

// config holds optional configuration for the engine.
type config struct {
	baseURL string
	voice   oai.AudioSpeechNewParamsVoice
	timeout time.Duration
}

// Option is a functional option for Engine.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithVoice selects the synthesis voice (e.g., "alloy", "nova").
func WithVoice(voice string) Option {
	return func(c *config) {
		c.voice = oai.AudioSpeechNewParamsVoice(voice)
	}
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// Engine implements synth.Provider using the OpenAI API.
type Engine struct {
	client oai.Client
	model  string
	voice  oai.AudioSpeechNewParamsVoice
}

// New constructs a new OpenAI speech Engine. If model is empty, DefaultModel
// (gpt-4o-mini-tts) is used.
func New(apiKey string, model string, opts ...Option) (*Engine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai synth: apiKey must not be empty")
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := &config{voice: DefaultVoice}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// Failed calls surface immediately; retrying is the caller's call.
		option.WithMaxRetries(0),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.timeout,
		}))
	}

	client := oai.NewClient(reqOpts...)
	return &Engine{client: client, model: model, voice: cfg.voice}, nil
}

// Synthesize implements synth.Provider.
func (e *Engine) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	code, ok := languages.Canonical(lang)
	if !ok {
		detail := fmt.Sprintf("unsupported language code %q", lang)
		if s := languages.Suggest(lang); s != "" {
			detail += fmt.Sprintf(" (did you mean %q?)", s)
		}
		return nil, &synth.Error{Kind: synth.KindInvalidLanguage, Detail: detail}
	}
	name, _ := languages.Name(code)

	resp, err := e.client.Audio.Speech.New(ctx, oai.AudioSpeechNewParams{
		Model:          e.model,
		Input:          text,
		Voice:          e.voice,
		ResponseFormat: oai.AudioSpeechNewParamsResponseFormatMP3,
		Instructions:   param.NewOpt("Speak in " + name + "."),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &synth.Error{Kind: synth.KindTimeout, Detail: "speech synthesis timed out", Err: err}
		}
		return nil, &synth.Error{Kind: synth.KindGenerationFailed, Detail: "speech synthesis request failed", Err: err}
	}
	defer resp.Body.Close()

	clip, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &synth.Error{Kind: synth.KindGenerationFailed, Detail: "failed to read synthesis response", Err: err}
	}
	if len(clip) == 0 {
		return nil, &synth.Error{Kind: synth.KindGenerationFailed, Detail: "engine returned an empty clip"}
	}
	return clip, nil
}
