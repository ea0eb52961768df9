// Command lorikeet is the main entry point for the Lorikeet text-to-speech
// server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lorikeet-audio/lorikeet/internal/api"
	"github.com/lorikeet-audio/lorikeet/internal/config"
	"github.com/lorikeet-audio/lorikeet/internal/observe"
	"github.com/lorikeet-audio/lorikeet/internal/stream"
	"github.com/lorikeet-audio/lorikeet/pkg/synth"
	"github.com/lorikeet-audio/lorikeet/pkg/synth/gtrans"
	"github.com/lorikeet-audio/lorikeet/pkg/synth/mock"
	oaisynth "github.com/lorikeet-audio/lorikeet/pkg/synth/openai"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "lorikeet: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "lorikeet: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger, logLevel := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("lorikeet starting",
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
		"engine", cfg.Engine.Name,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    api.ServiceName,
		ServiceVersion: api.Version,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	metrics := observe.DefaultMetrics()

	// ── Engine ────────────────────────────────────────────────────────────────
	reg := config.NewRegistry()
	registerBuiltinEngines(reg)

	engine, err := reg.CreateEngine(cfg.Engine)
	if err != nil {
		slog.Error("failed to create engine", "name", cfg.Engine.Name, "err", err)
		return 1
	}
	slog.Info("engine created", "name", cfg.Engine.Name)

	// ── HTTP server ───────────────────────────────────────────────────────────
	wsHandler := stream.NewHandler(engine, streamOptions(cfg), cfg.Stream.MaxSessions, metrics, logger)
	server := api.New(engine, wsHandler, cfg.Engine.Timeout(), metrics, logger)

	httpSrv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ── Config hot reload ─────────────────────────────────────────────────────
	watcher, err := config.NewWatcher(*configPath, func(old, new *config.Config) {
		d := config.Diff(old, new)
		if d.LogLevelChanged {
			logLevel.Set(slogLevel(d.NewLogLevel))
			slog.Info("log level updated", "level", d.NewLogLevel)
		}
		if d.StreamChanged {
			wsHandler.UpdateOptions(streamOptions(new))
			slog.Info("stream options updated for new sessions")
		}
		if d.RequiresRestart() {
			slog.Warn("changed config sections need a restart to take effect")
		}
	})
	if err != nil {
		slog.Warn("config hot reload disabled", "err", err)
	} else {
		defer watcher.Stop()
	}

	// ── Run ───────────────────────────────────────────────────────────────────
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if tls := cfg.Server.TLS; tls != nil {
			err = httpSrv.ListenAndServeTLS(tls.CertFile, tls.KeyFile)
		} else {
			err = httpSrv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received, stopping…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	slog.Info("server ready — press Ctrl+C to shut down")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := otelShutdown(flushCtx); err != nil {
		slog.Warn("telemetry shutdown error", "err", err)
	}
	slog.Info("goodbye")
	return 0
}

// ── Engine wiring ─────────────────────────────────────────────────────────────

// registerBuiltinEngines wires the engine factories that ship with Lorikeet
// into reg. Each factory receives the engine config section and constructs
// the corresponding synthesis backend.
func registerBuiltinEngines(reg *config.Registry) {
	reg.RegisterEngine("gtrans", func(entry config.EngineConfig) (synth.Provider, error) {
		var opts []gtrans.Option
		if entry.BaseURL != "" {
			opts = append(opts, gtrans.WithBaseURL(entry.BaseURL))
		}
		if entry.TimeoutSeconds > 0 {
			opts = append(opts, gtrans.WithTimeout(entry.Timeout()))
		}
		return gtrans.New(opts...), nil
	})

	reg.RegisterEngine("openai", func(entry config.EngineConfig) (synth.Provider, error) {
		var opts []oaisynth.Option
		if entry.BaseURL != "" {
			opts = append(opts, oaisynth.WithBaseURL(entry.BaseURL))
		}
		if entry.Voice != "" {
			opts = append(opts, oaisynth.WithVoice(entry.Voice))
		}
		if entry.TimeoutSeconds > 0 {
			opts = append(opts, oaisynth.WithTimeout(entry.Timeout()))
		}
		return oaisynth.New(entry.APIKey, entry.Model, opts...)
	})

	// mock produces a fixed clip without any network calls. Useful for local
	// protocol work and load testing.
	reg.RegisterEngine("mock", func(config.EngineConfig) (synth.Provider, error) {
		return &mock.Engine{Clip: []byte("lorikeet mock audio clip")}, nil
	})
}

// streamOptions maps the stream config section onto session options.
func streamOptions(cfg *config.Config) stream.Options {
	return stream.Options{
		ChunkSize:     cfg.Stream.ChunkSize,
		EchoLimit:     cfg.Stream.EchoLimit,
		EngineTimeout: cfg.Engine.Timeout(),
	}
}

// ── Logger ─────────────────────────────────────────────────────────────────────

// newLogger builds the process logger. The returned LevelVar allows the
// config watcher to adjust verbosity at runtime.
func newLogger(level config.LogLevel) (*slog.Logger, *slog.LevelVar) {
	lvl := new(slog.LevelVar)
	lvl.Set(slogLevel(level))
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), lvl
}

func slogLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogWarn:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
