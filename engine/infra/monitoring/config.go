package monitoring

import (
	"fmt"
	"strings"
)

// reservedPaths are routes the relay serves itself; the metrics endpoint may
// not shadow them.
var reservedPaths = map[string]struct{}{
	"/":        {},
	"/trigger": {},
	"/healthz": {},
	"/version": {},
}

// Config holds configuration for the monitoring service
type Config struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path"    yaml:"path"`
}

// DefaultConfig returns default monitoring configuration
func DefaultConfig() *Config {
	return &Config{
		Enabled: false,
		Path:    "/metrics",
	}
}

// Validate validates the monitoring configuration
func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("monitoring path cannot be empty")
	}
	if c.Path[0] != '/' {
		return fmt.Errorf("monitoring path must start with '/': got %s", c.Path)
	}
	if _, reserved := reservedPaths[c.Path]; reserved {
		return fmt.Errorf("monitoring path %s conflicts with a relay route", c.Path)
	}
	if strings.ContainsRune(c.Path, '?') {
		return fmt.Errorf("monitoring path cannot contain query parameters")
	}
	return nil
}
