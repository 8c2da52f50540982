package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidConfig               = errors.New("invalid configuration")
)

// Content sources.
const (
	ContentSourceEmbedded = "embedded"
	ContentSourceFile     = "file"
	ContentSourcePostgres = "postgres"
)

// Session stores.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string  `mapstructure:"env"`      // current application environment (local, dev, production etc)
	TelegramAPIToken string  `mapstructure:"-"`        // Telegram API token loaded from environment, empty disables the bot
	HTTP             HTTP    `mapstructure:"http"`     // HTTP server section
	Content          Content `mapstructure:"content"`  // lesson and quiz content section
	Session          Session `mapstructure:"session"`  // quiz session store section
	Redis            Redis   `mapstructure:"redis"`    // redis connection section
	DB               DB      `mapstructure:"database"` // database configuration section
	Tracing          Tracing `mapstructure:"tracing"`  // OpenTelemetry section
}

// HTTP contains web server parameters.
type HTTP struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Content selects where modules and questions are loaded from at startup.
type Content struct {
	Source string `mapstructure:"source"` // embedded, file or postgres
	Path   string `mapstructure:"path"`   // YAML or JSON document for the file source
}

// Session configures the ephemeral quiz session store.
type Session struct {
	Store         string        `mapstructure:"store"`          // memory or redis
	TTL           time.Duration `mapstructure:"ttl"`            // how long an idle attempt survives
	SweepInterval time.Duration `mapstructure:"sweep_interval"` // memory store eviction period
}

// Redis contains connection parameters for the redis session store.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"-"`
	DB       int    `mapstructure:"db"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Tracing configures OpenTelemetry export.
type Tracing struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"` // OTLP/HTTP endpoint, stdout exporter when empty
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// IsProduction reports whether the service runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	return load(viper.New(), "./config")
}

func load(v *viper.Viper, configPath string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "10s")
	v.SetDefault("http.shutdown_timeout", "5s")
	v.SetDefault("content.source", ContentSourceEmbedded)
	v.SetDefault("content.path", "")
	v.SetDefault("session.store", SessionStoreMemory)
	v.SetDefault("session.ttl", "30m")
	v.SetDefault("session.sweep_interval", "1m")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("database.max_connections", 5)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.insecure", false)
	v.SetDefault("tracing.sample_ratio", 1.0)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("http.addr", "HTTP_ADDR")
	_ = v.BindEnv("content.source", "CONTENT_SOURCE")
	_ = v.BindEnv("content.path", "CONTENT_PATH")
	_ = v.BindEnv("session.store", "SESSION_STORE")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("tracing.enabled", "OTEL_ENABLED")
	_ = v.BindEnv("tracing.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")
	cfg.Redis.Password = v.GetString("redis_password")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Content.Source {
	case ContentSourceEmbedded:
	case ContentSourceFile:
		if c.Content.Path == "" {
			return fmt.Errorf("%w: content.path is required for the file source", ErrInvalidConfig)
		}
	case ContentSourcePostgres:
		if c.DB.URL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for the postgres source", ErrMissingEnvironmentVariables)
		}
	default:
		return fmt.Errorf("%w: unknown content source %q", ErrInvalidConfig, c.Content.Source)
	}

	switch c.Session.Store {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("%w: unknown session store %q", ErrInvalidConfig, c.Session.Store)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("%w: session.ttl must be positive", ErrInvalidConfig)
	}
	if c.Session.Store == SessionStoreMemory && c.Session.SweepInterval <= 0 {
		return fmt.Errorf("%w: session.sweep_interval must be positive", ErrInvalidConfig)
	}

	if c.DB.MaxConnections < 1 || c.DB.MaxConnections > math.MaxInt32 {
		return fmt.Errorf("%w: database.max_connections must be within [1, %d]", ErrInvalidConfig, math.MaxInt32)
	}

	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("%w: tracing.sample_ratio must be within [0, 1]", ErrInvalidConfig)
	}

	return nil
}
