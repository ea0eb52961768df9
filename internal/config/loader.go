package config

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Defaults applied by [LoadFromReader] for fields left unset.
const (
	DefaultListenAddr     = ":8000"
	DefaultEngineName     = "gtrans"
	DefaultTimeoutSeconds = 30
	DefaultChunkSize      = 8192
	DefaultEchoLimit      = 50
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. The PORT environment variable, when set, overrides the port of
// server.listen_addr. It is a convenience wrapper around [LoadFromReader]
// and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	if port := os.Getenv("PORT"); port != "" {
		host, _, err := net.SplitHostPort(cfg.Server.ListenAddr)
		if err != nil {
			host = ""
		}
		cfg.Server.ListenAddr = net.JoinHostPort(host, port)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults and validates
// the result. Useful in tests where configs are constructed from string
// literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = DefaultListenAddr
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = LogInfo
	}
	if cfg.Engine.Name == "" {
		cfg.Engine.Name = DefaultEngineName
	}
	if cfg.Engine.TimeoutSeconds == 0 {
		cfg.Engine.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.Stream.ChunkSize == 0 {
		cfg.Stream.ChunkSize = DefaultChunkSize
	}
	if cfg.Stream.EchoLimit == 0 {
		cfg.Stream.EchoLimit = DefaultEchoLimit
	}
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if tls := cfg.Server.TLS; tls != nil {
		if tls.CertFile == "" {
			errs = append(errs, errors.New("server.tls.cert_file is required when tls is set"))
		}
		if tls.KeyFile == "" {
			errs = append(errs, errors.New("server.tls.key_file is required when tls is set"))
		}
	}

	if !slices.Contains(EngineNames, cfg.Engine.Name) {
		errs = append(errs, fmt.Errorf("engine.name %q is invalid; valid values: gtrans, openai, mock", cfg.Engine.Name))
	}
	if cfg.Engine.Name == "openai" && cfg.Engine.APIKey == "" {
		errs = append(errs, errors.New("engine.api_key is required when engine.name is openai"))
	}
	if cfg.Engine.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("engine.timeout_seconds %d must not be negative", cfg.Engine.TimeoutSeconds))
	}

	if cfg.Stream.ChunkSize < 0 {
		errs = append(errs, fmt.Errorf("stream.chunk_size %d must not be negative", cfg.Stream.ChunkSize))
	}
	if cfg.Stream.EchoLimit < 0 {
		errs = append(errs, fmt.Errorf("stream.echo_limit %d must not be negative", cfg.Stream.EchoLimit))
	}
	if cfg.Stream.MaxSessions < 0 {
		errs = append(errs, fmt.Errorf("stream.max_sessions %d must not be negative", cfg.Stream.MaxSessions))
	}

	return errors.Join(errs...)
}
