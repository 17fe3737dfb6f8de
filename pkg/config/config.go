package config

import (
	"context"
	"time"
)

// -----------------------------------------------------------------------------
// Configuration structs
// -----------------------------------------------------------------------------

// Config is the root configuration for the startrelay service, populated from
// defaults, an optional YAML file, CLI flags, and environment variables.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Relay      RelayConfig      `koanf:"relay"`
	Runtime    RuntimeConfig    `koanf:"runtime"`
	CLI        CLIConfig        `koanf:"cli"`
	Monitoring MonitoringConfig `koanf:"monitoring"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host        string     `koanf:"host"         validate:"required"        env:"SERVER_HOST"`
	Port        int        `koanf:"port"         validate:"min=1,max=65535" env:"SERVER_PORT"`
	CORSEnabled bool       `koanf:"cors_enabled"                            env:"SERVER_CORS_ENABLED"`
	CORS        CORSConfig `koanf:"cors"`
}

// CORSConfig holds CORS settings for the HTTP server.
type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"   env:"SERVER_CORS_ALLOWED_ORIGINS"`
	AllowCredentials bool     `koanf:"allow_credentials" env:"SERVER_CORS_ALLOW_CREDENTIALS"`
	MaxAge           int      `koanf:"max_age"           env:"SERVER_CORS_MAX_AGE"`
}

// RelayConfig holds the workflow inputs: where the request templates live,
// where run logs are written, and whether HTTP responses carry the full token.
type RelayConfig struct {
	InitsendFile      string `koanf:"initsend_file"       validate:"required" env:"INITSEND_FILE"`
	StartTemplateFile string `koanf:"start_template_file" validate:"required" env:"START_TEMPLATE_FILE"`
	LogDir            string `koanf:"log_dir"             validate:"required" env:"STARTSERVER_LOG_DIR"`
	ExposeFullJWT     Truthy `koanf:"expose_full_jwt"                         env:"STARTSERVER_EXPOSE_FULL_JWT"`
}

// Runtime environments.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// RuntimeConfig holds process-wide runtime settings.
type RuntimeConfig struct {
	Environment string `koanf:"environment" validate:"oneof=development staging production" env:"RUNTIME_ENVIRONMENT"`
	LogLevel    string `koanf:"log_level"   validate:"oneof=debug info warn error disabled" env:"RUNTIME_LOG_LEVEL"`
	LogJSON     bool   `koanf:"log_json"                                                    env:"RUNTIME_LOG_JSON"`
	LogSource   bool   `koanf:"log_source"                                                  env:"RUNTIME_LOG_SOURCE"`
}

// CLIConfig holds settings for the remote trigger client.
type CLIConfig struct {
	BaseURL string        `koanf:"base_url" validate:"required" env:"STARTSERVER_BASE_URL"`
	Timeout time.Duration `koanf:"timeout"                      env:"STARTSERVER_CLI_TIMEOUT"`
}

// MonitoringConfig holds metrics exposure settings.
type MonitoringConfig struct {
	Enabled bool   `koanf:"enabled" env:"MONITORING_ENABLED"`
	Path    string `koanf:"path"    env:"MONITORING_PATH"`
}

// -----------------------------------------------------------------------------
// Defaults
// -----------------------------------------------------------------------------

// Default returns the built-in configuration values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Relay: RelayConfig{
			InitsendFile:      "initsend.txt",
			StartTemplateFile: "serverstart-orig.txt",
			LogDir:            "logs",
		},
		Runtime: RuntimeConfig{
			Environment: EnvDevelopment,
			LogLevel:    "info",
		},
		CLI: CLIConfig{
			BaseURL: "http://localhost:8000",
			// No request timeout: a trigger blocks for as long as the remote
			// workflow runs.
			Timeout: 0,
		},
		Monitoring: MonitoringConfig{
			Enabled: false,
			Path:    "/metrics",
		},
	}
}

// -----------------------------------------------------------------------------
// Service and sources
// -----------------------------------------------------------------------------

// SourceType identifies where a configuration value came from.
type SourceType string

const (
	SourceDefault SourceType = "default"
	SourceYAML    SourceType = "yaml"
	SourceCLI     SourceType = "cli"
	SourceEnv     SourceType = "env"
)

// Metadata records load-time bookkeeping for debugging precedence.
type Metadata struct {
	Sources  map[string]SourceType
	LoadedAt time.Time
}

// Service loads and validates configuration.
type Service interface {
	// Load loads configuration from the specified sources. Defaults are
	// applied first, then sources in the given order, then environment
	// variables.
	Load(ctx context.Context, sources ...Source) (*Config, error)
	// Validate checks if the configuration meets all validation requirements.
	Validate(config *Config) error
	// GetSource returns the source type that provided a configuration key.
	GetSource(key string) SourceType
}

// Source is a single configuration input.
type Source interface {
	// Load reads configuration from the source.
	Load() (map[string]any, error)
	// Type returns the source type identifier.
	Type() SourceType
}
