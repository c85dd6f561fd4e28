// Package config handles configuration loading and validation for the Bears
// API. Settings come from defaults, an optional config.yaml and BEARS_*
// environment variables, in increasing order of precedence.
package config

import "time"

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Log       LogConfig       `mapstructure:"log" validate:"required"`
	Wikipedia WikipediaConfig `mapstructure:"wikipedia" validate:"required"`
}

// ServerConfig configures the inbound transport.
type ServerConfig struct {
	// Transport selects the serving mode: "http" or "stdio" (MCP)
	Transport    string        `mapstructure:"transport" validate:"required,oneof=http stdio"`
	Port         int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// WikipediaConfig configures the upstream content API client.
type WikipediaConfig struct {
	// BaseURL is the api.php endpoint
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// UserAgent identifies the client; the API rejects anonymous clients
	UserAgent string `mapstructure:"user_agent" validate:"required"`

	// Timeout bounds every upstream request
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}
