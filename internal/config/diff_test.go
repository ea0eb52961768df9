package config_test

import (
	"testing"

	"github.com/lorikeet-audio/lorikeet/internal/config"
)

func TestDiff_NoChanges(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{
		Server: config.ServerConfig{ListenAddr: ":8000", LogLevel: config.LogInfo},
		Engine: config.EngineConfig{Name: "gtrans", TimeoutSeconds: 30},
		Stream: config.StreamConfig{ChunkSize: 8192, EchoLimit: 50},
	}
	d := config.Diff(cfg, cfg)
	if d.LogLevelChanged || d.StreamChanged || d.EngineChanged || d.ServerChanged {
		t.Errorf("expected empty diff for identical configs, got %+v", d)
	}
	if d.RequiresRestart() {
		t.Error("identical configs should not require a restart")
	}
}

func TestDiff_LogLevelChanged(t *testing.T) {
	t.Parallel()
	old := &config.Config{Server: config.ServerConfig{LogLevel: config.LogInfo}}
	new := &config.Config{Server: config.ServerConfig{LogLevel: config.LogDebug}}

	d := config.Diff(old, new)
	if !d.LogLevelChanged {
		t.Error("expected LogLevelChanged=true")
	}
	if d.NewLogLevel != config.LogDebug {
		t.Errorf("expected NewLogLevel=debug, got %q", d.NewLogLevel)
	}
	if d.RequiresRestart() {
		t.Error("log level change should be hot-reloadable")
	}
}

func TestDiff_StreamChanged(t *testing.T) {
	t.Parallel()
	old := &config.Config{Stream: config.StreamConfig{ChunkSize: 8192, EchoLimit: 50}}
	new := &config.Config{Stream: config.StreamConfig{ChunkSize: 4096, EchoLimit: 50}}

	d := config.Diff(old, new)
	if !d.StreamChanged {
		t.Error("expected StreamChanged=true")
	}
	if d.NewStream.ChunkSize != 4096 {
		t.Errorf("expected NewStream.ChunkSize=4096, got %d", d.NewStream.ChunkSize)
	}
	if d.RequiresRestart() {
		t.Error("stream change alone should not require a restart")
	}
}

func TestDiff_EngineChangeRequiresRestart(t *testing.T) {
	t.Parallel()
	old := &config.Config{Engine: config.EngineConfig{Name: "gtrans"}}
	new := &config.Config{Engine: config.EngineConfig{Name: "mock"}}

	d := config.Diff(old, new)
	if !d.EngineChanged {
		t.Error("expected EngineChanged=true")
	}
	if !d.RequiresRestart() {
		t.Error("engine change should require a restart")
	}
}

func TestDiff_ListenAddrChangeRequiresRestart(t *testing.T) {
	t.Parallel()
	old := &config.Config{Server: config.ServerConfig{ListenAddr: ":8000"}}
	new := &config.Config{Server: config.ServerConfig{ListenAddr: ":9000"}}

	d := config.Diff(old, new)
	if !d.ServerChanged {
		t.Error("expected ServerChanged=true")
	}
	if !d.RequiresRestart() {
		t.Error("listen addr change should require a restart")
	}
}

func TestDiff_TLSChangeRequiresRestart(t *testing.T) {
	t.Parallel()
	old := &config.Config{Server: config.ServerConfig{ListenAddr: ":8000"}}
	new := &config.Config{Server: config.ServerConfig{
		ListenAddr: ":8000",
		TLS:        &config.TLSConfig{CertFile: "cert.pem", KeyFile: "key.pem"},
	}}

	d := config.Diff(old, new)
	if !d.ServerChanged {
		t.Error("expected ServerChanged=true when TLS is enabled")
	}
}
