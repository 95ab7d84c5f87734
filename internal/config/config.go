package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	JWTSecret string `envconfig:"JWT_SECRET"`
	DBURL     string `envconfig:"DATABASE_URL"`

	GeocoderURL         string `envconfig:"GEOCODER_URL"`
	GeocoderAPIKey      string `envconfig:"GEOCODER_API_KEY"`
	GeocoderTimeoutSecs int    `envconfig:"GEOCODER_TIMEOUT_SECS" default:"5"`

	ReadTimeoutSecs  int `envconfig:"SERVER_READ_TIMEOUT" default:"15"`
	WriteTimeoutSecs int `envconfig:"SERVER_WRITE_TIMEOUT" default:"15"`
	IdleTimeoutSecs  int `envconfig:"SERVER_IDLE_TIMEOUT" default:"60"`

	DBMaxConns        int `envconfig:"DB_MAX_CONNS" default:"20"`
	DBMinConns        int `envconfig:"DB_MIN_CONNS" default:"2"`
	DBMaxIdleSecs     int `envconfig:"DB_MAX_CONN_IDLE_SECS" default:"300"`
	DBMaxLifeSecs     int `envconfig:"DB_MAX_CONN_LIFETIME_SECS" default:"3600"`
	DBConnTimeoutSecs int `envconfig:"DB_CONN_TIMEOUT_SECS" default:"10"`

	RateLimitPerMin int `envconfig:"RATE_LIMIT_PER_MIN" default:"120"`
	RateLimitBurst  int `envconfig:"RATE_LIMIT_BURST" default:"30"`

	AggregateQueueSize int `envconfig:"AGGREGATE_QUEUE_SIZE" default:"256"`
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.GeocoderURL == "" {
		return Config{}, fmt.Errorf("GEOCODER_URL is required")
	}
	if cfg.GeocoderAPIKey == "" {
		return Config{}, fmt.Errorf("GEOCODER_API_KEY is required")
	}
	if cfg.GeocoderTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("GEOCODER_TIMEOUT_SECS must be positive")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.RateLimitPerMin <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_PER_MIN must be positive")
	}
	if cfg.AggregateQueueSize <= 0 {
		return Config{}, fmt.Errorf("AGGREGATE_QUEUE_SIZE must be positive")
	}

	return cfg, nil
}
