package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/olgasafonova/bears-api/internal/wikipedia"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable key.
const EnvPrefix = "BEARS"

// Default values.
const (
	DefaultTransport    = "http"
	DefaultPort         = 8080
	DefaultReadTimeout  = 15 * time.Second
	DefaultWriteTimeout = 60 * time.Second
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultBaseURL      = wikipedia.BaseURL
	DefaultUserAgent    = wikipedia.DefaultUserAgent
	DefaultTimeout      = wikipedia.DefaultTimeout
)

// Load reads configuration without command-line overrides.
func Load() (*Config, error) {
	return LoadWithFlags(nil)
}

// LoadWithFlags reads configuration, letting any flags that were set on the
// command line override file and environment values. Flag names use the
// config key with dots replaced by dashes (e.g. --server-port).
func LoadWithFlags(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// RegisterFlags declares the command-line overrides understood by LoadWithFlags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("server-transport", DefaultTransport, "serving mode: http or stdio")
	flags.Int("server-port", DefaultPort, "HTTP listen port")
	flags.String("log-level", DefaultLogLevel, "log level: debug, info, warn, error")
	flags.String("log-format", DefaultLogFormat, "log format: text or json")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.transport", DefaultTransport)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.read_timeout", DefaultReadTimeout)
	v.SetDefault("server.write_timeout", DefaultWriteTimeout)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("wikipedia.base_url", DefaultBaseURL)
	v.SetDefault("wikipedia.user_agent", DefaultUserAgent)
	v.SetDefault("wikipedia.timeout", DefaultTimeout)
}

// bindFlags binds only flags the user changed, so unset flag defaults never
// shadow environment variables.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.Visit(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		key := strings.Replace(f.Name, "-", ".", 1)
		bindErr = v.BindPFlag(key, f)
	})
	if bindErr != nil {
		return fmt.Errorf("failed to bind flags: %w", bindErr)
	}
	return nil
}
