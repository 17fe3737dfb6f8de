package config

import (
	"context"
	"fmt"
	"sync/atomic"
)

// Manager holds the loaded configuration with atomic access.
type Manager struct {
	Service Service
	current atomic.Value // stores *Config
}

// NewManager creates a new configuration manager.
func NewManager(service Service) *Manager {
	if service == nil {
		service = NewService()
	}
	return &Manager{Service: service}
}

// Load loads configuration from the given sources and stores it atomically.
func (m *Manager) Load(ctx context.Context, sources ...Source) (*Config, error) {
	config, err := m.Service.Load(ctx, sources...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	m.current.Store(config)
	return config, nil
}

// Get returns the current configuration, or nil when nothing was loaded.
func (m *Manager) Get() *Config {
	val := m.current.Load()
	if val == nil {
		return nil
	}
	config, ok := val.(*Config)
	if !ok {
		return nil
	}
	return config
}
