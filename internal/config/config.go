// Package config provides the configuration schema and loader for the
// Lorikeet text-to-speech gateway.
package config

import "time"

// LogLevel controls log verbosity for the Lorikeet server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// EngineNames lists the speech synthesis engines that ship with Lorikeet.
var EngineNames = []string{"gtrans", "openai", "mock"}

// Config is the root configuration structure for Lorikeet.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server ServerConfig `yaml:"server"`
	Engine EngineConfig `yaml:"engine"`
	Stream StreamConfig `yaml:"stream"`
}

// ServerConfig holds network and logging settings for the Lorikeet server.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8000").
	// The PORT environment variable, when set, overrides the port.
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// TLS configures TLS for the server. When nil, the server runs plain HTTP.
	TLS *TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate paths for enabling HTTPS.
type TLSConfig struct {
	// CertFile is the path to the PEM-encoded TLS certificate.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded TLS private key.
	KeyFile string `yaml:"key_file"`
}

// EngineConfig selects and configures the speech synthesis engine.
type EngineConfig struct {
	// Name selects the engine implementation: "gtrans", "openai", or "mock".
	Name string `yaml:"name"`

	// APIKey is the authentication key for engines that need one ("openai").
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the engine's default API endpoint.
	// Leave empty to use the engine's built-in default.
	BaseURL string `yaml:"base_url"`

	// Model selects a specific model within the engine (e.g., "tts-1").
	Model string `yaml:"model"`

	// Voice selects the synthesis voice for engines that support one.
	Voice string `yaml:"voice"`

	// TimeoutSeconds bounds a single synthesis call. 0 uses the default.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns the synthesis call deadline as a duration.
func (e EngineConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// StreamConfig tunes the WebSocket streaming path.
type StreamConfig struct {
	// ChunkSize is the size in bytes of each binary audio frame. 0 uses the
	// default of 8192.
	ChunkSize int `yaml:"chunk_size"`

	// EchoLimit bounds how many characters of the request text are echoed
	// back in the "generating" status message. 0 uses the default of 50.
	EchoLimit int `yaml:"echo_limit"`

	// MaxSessions caps the number of concurrently open WebSocket sessions.
	// 0 means unlimited.
	MaxSessions int `yaml:"max_sessions"`
}
