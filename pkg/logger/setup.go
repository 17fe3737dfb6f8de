package logger

// SetupLogger builds a logger from runtime logging settings. Unknown level
// strings fall back to info.
func SetupLogger(logLevel string, logJSON, logSource bool) Logger {
	cfg := DefaultConfig()
	cfg.Level = LogLevel(logLevel)
	cfg.JSON = logJSON
	cfg.AddSource = logSource
	return NewLogger(cfg)
}
