package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// YAML source
// -----------------------------------------------------------------------------

// yamlProvider implements Source for YAML files.
type yamlProvider struct {
	path string
}

// NewYAMLProvider creates a configuration source backed by a YAML file.
func NewYAMLProvider(path string) Source {
	return &yamlProvider{path: path}
}

// Load reads and parses the YAML file. A missing file is not an error: the
// source simply contributes nothing.
func (y *yamlProvider) Load() (map[string]any, error) {
	if y.path == "" {
		return map[string]any{}, nil
	}
	data, err := os.ReadFile(y.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", y.path, err)
	}
	config := make(map[string]any)
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", y.path, err)
	}
	return filterNilValues(config), nil
}

// filterNilValues recursively removes nil values so an empty YAML entry does
// not override an existing value.
func filterNilValues(m map[string]any) map[string]any {
	result := make(map[string]any)
	for k, v := range m {
		if v == nil {
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			if filtered := filterNilValues(nested); len(filtered) > 0 {
				result[k] = filtered
			}
			continue
		}
		result[k] = v
	}
	return result
}

// Type returns the source type identifier.
func (y *yamlProvider) Type() SourceType {
	return SourceYAML
}

// -----------------------------------------------------------------------------
// CLI source
// -----------------------------------------------------------------------------

// cliFlagPaths maps CLI flag names to configuration paths.
var cliFlagPaths = map[string]string{
	"host":       "server.host",
	"port":       "server.port",
	"cors":       "server.cors_enabled",
	"log-level":  "runtime.log_level",
	"log-json":   "runtime.log_json",
	"log-source": "runtime.log_source",
	"base-url":   "cli.base_url",
}

// cliProvider implements Source for CLI flags.
type cliProvider struct {
	flags map[string]any
}

// NewCLIProvider creates a configuration source from explicitly set CLI
// flag values, keyed by flag name.
func NewCLIProvider(flags map[string]any) Source {
	return &cliProvider{flags: flags}
}

// Load returns the CLI flags as nested configuration data.
func (c *cliProvider) Load() (map[string]any, error) {
	config := make(map[string]any)
	for key, value := range c.flags {
		path, ok := cliFlagPaths[key]
		if !ok {
			continue
		}
		if err := setNested(config, path, value); err != nil {
			return nil, fmt.Errorf("failed to set CLI flag %s: %w", key, err)
		}
	}
	return config, nil
}

// Type returns the source type identifier.
func (c *cliProvider) Type() SourceType {
	return SourceCLI
}

// setNested sets a value in a nested map structure using dot notation.
func setNested(m map[string]any, path string, value any) error {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	current := m
	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		if _, exists := current[part]; !exists {
			current[part] = make(map[string]any)
		}
		next, ok := current[part].(map[string]any)
		if !ok {
			return fmt.Errorf("configuration conflict: key %q is not a map", strings.Join(parts[:i+1], "."))
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
	return nil
}
