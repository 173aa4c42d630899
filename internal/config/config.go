// Package config provides configuration for the studio server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	AllowedOrigins     []string

	// Generation service
	APIURL     string
	APITimeout time.Duration

	// History persistence
	HistoryBackend string
	HistoryKey     string
	SQLitePath     string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	// NATS settings (optional event mirror)
	NATSURL   string
	NATSToken string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel    string
	LogEncoding string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

const (
	HistoryBackendSQLite = "sqlite"
	HistoryBackendRedis  = "redis"
	HistoryBackendMemory = "memory"
)

// Load reads configuration from environment variables and, when present,
// a studio.yaml file in the working directory or $HOME/.config/question-studio.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("studio")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/question-studio")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("port", "8090")
	v.SetDefault("server_read_timeout", 30*time.Second)
	v.SetDefault("server_write_timeout", 180*time.Second)
	v.SetDefault("allowed_origins", []string{"http://localhost:3000"})

	// Generation service
	v.SetDefault("api_url", "http://localhost:8000/api/v1")
	v.SetDefault("api_timeout", 120*time.Second)

	// History
	v.SetDefault("history_backend", HistoryBackendSQLite)
	v.SetDefault("history_key", "socratic-questions")
	v.SetDefault("sqlite_path", "studio.db")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	// NATS
	v.SetDefault("nats_url", "")
	v.SetDefault("nats_token", "")

	// Rate limiting
	v.SetDefault("rate_limit_requests", 30)
	v.SetDefault("rate_limit_window", time.Minute)

	// Logging
	v.SetDefault("log_level", "info")
	v.SetDefault("log_encoding", "json")

	// Tracing
	v.SetDefault("tracing_endpoint", "localhost:4318")
	v.SetDefault("tracing_enabled", false)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ServerPort:         v.GetString("port"),
		ServerReadTimeout:  v.GetDuration("server_read_timeout"),
		ServerWriteTimeout: v.GetDuration("server_write_timeout"),
		AllowedOrigins:     v.GetStringSlice("allowed_origins"),

		APIURL:     strings.TrimRight(v.GetString("api_url"), "/"),
		APITimeout: v.GetDuration("api_timeout"),

		HistoryBackend: strings.ToLower(v.GetString("history_backend")),
		HistoryKey:     v.GetString("history_key"),
		SQLitePath:     v.GetString("sqlite_path"),
		RedisAddr:      v.GetString("redis_addr"),
		RedisPassword:  v.GetString("redis_password"),
		RedisDB:        v.GetInt("redis_db"),

		NATSURL:   v.GetString("nats_url"),
		NATSToken: v.GetString("nats_token"),

		RateLimitRequests: v.GetInt("rate_limit_requests"),
		RateLimitWindow:   v.GetDuration("rate_limit_window"),

		LogLevel:    v.GetString("log_level"),
		LogEncoding: v.GetString("log_encoding"),

		TracingEndpoint: v.GetString("tracing_endpoint"),
		TracingEnabled:  v.GetBool("tracing_enabled"),
	}

	switch cfg.HistoryBackend {
	case HistoryBackendSQLite, HistoryBackendRedis, HistoryBackendMemory:
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.HistoryBackend)
	}
	if cfg.APIURL == "" {
		return nil, errors.New("api_url must not be empty")
	}

	return cfg, nil
}
