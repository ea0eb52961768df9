package config

// ConfigDiff describes what changed between two configs and whether the
// change can be applied to a running server.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	// StreamChanged is true when chunk_size, echo_limit or max_sessions
	// changed. Chunk size and echo limit take effect for new sessions;
	// a max_sessions change needs a restart.
	StreamChanged bool
	NewStream     StreamConfig

	// EngineChanged and ServerChanged mark sections that cannot be
	// hot-reloaded.
	EngineChanged bool
	ServerChanged bool
}

// RequiresRestart reports whether any changed section only takes effect
// after a server restart.
func (d ConfigDiff) RequiresRestart() bool {
	if d.EngineChanged || d.ServerChanged {
		return true
	}
	return false
}

// Diff compares old and new configs and returns what changed.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if old.Stream != new.Stream {
		d.StreamChanged = true
		d.NewStream = new.Stream
	}

	if old.Engine != new.Engine {
		d.EngineChanged = true
	}
	if serverChanged(old.Server, new.Server) {
		d.ServerChanged = true
	}

	return d
}

// serverChanged compares the restart-only parts of the server section,
// i.e. everything except the log level.
func serverChanged(old, new ServerConfig) bool {
	if old.ListenAddr != new.ListenAddr {
		return true
	}
	switch {
	case old.TLS == nil && new.TLS == nil:
		return false
	case old.TLS == nil || new.TLS == nil:
		return true
	default:
		return *old.TLS != *new.TLS
	}
}
