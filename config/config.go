// Package config loads service configuration from environment variables,
// with an optional .env file overlay for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the root configuration for the auth service.
type Config struct {
	Service   ServiceConfig
	Logging   LoggingConfig
	Auth      AuthConfig
	Store     StoreConfig
	CORS      CORSConfig
	Tracing   TracingConfig
	Profiling ProfilingConfig

	// ShutdownTimeout and ReadinessDrainDelay are kept as raw strings so
	// Validate can report bad values instead of silently defaulting.
	ShutdownTimeout     string
	ReadinessDrainDelay string
}

type ServiceConfig struct {
	Name    string
	Version string
	Env     string
	Port    string
}

type LoggingConfig struct {
	Level string
}

// AuthConfig holds token issuance parameters. The signing secret is loaded
// once at startup and never mutated at runtime.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// StoreConfig selects the credential store backend.
// Backend is one of "postgres", "mongo", "memory".
type StoreConfig struct {
	Backend     string
	DatabaseURL string
	MongoURI    string
}

type CORSConfig struct {
	FrontendURL string
}

type TracingConfig struct {
	Enabled    bool
	Endpoint   string
	SampleRate float64
}

type ProfilingConfig struct {
	Enabled  bool
	Endpoint string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present (existing env vars win).
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Service: ServiceConfig{
			Name:    getEnv("SERVICE_NAME", "auth-service"),
			Version: getEnv("SERVICE_VERSION", "dev"),
			Env:     getEnv("ENV", "local"),
			Port:    getEnv("PORT", "3000"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  getDurationEnv("TOKEN_TTL", time.Hour),
		},
		Store: StoreConfig{
			Backend:     getEnv("STORE_BACKEND", "postgres"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			MongoURI:    os.Getenv("MONGO_URI"),
		},
		CORS: CORSConfig{
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		},
		Tracing: TracingConfig{
			Enabled:    getBoolEnv("TRACING_ENABLED", false),
			Endpoint:   getEnv("TRACING_ENDPOINT", "localhost:4318"),
			SampleRate: getFloatEnv("TRACING_SAMPLE_RATE", 1.0),
		},
		Profiling: ProfilingConfig{
			Enabled:  getBoolEnv("PROFILING_ENABLED", false),
			Endpoint: getEnv("PROFILING_ENDPOINT", "http://localhost:4040"),
		},
		ShutdownTimeout:     getEnv("SHUTDOWN_TIMEOUT", "10s"),
		ReadinessDrainDelay: getEnv("READINESS_DRAIN_DELAY", "0s"),
	}
}

// Validate checks that the loaded configuration is usable. It is called once
// at startup; a failure here means the process must not start.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}

	switch c.Store.Backend {
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store backend")
		}
	case "mongo":
		if c.Store.MongoURI == "" {
			return errors.New("MONGO_URI is required for the mongo store backend")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}

	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	if _, err := time.ParseDuration(c.ReadinessDrainDelay); err != nil {
		return fmt.Errorf("invalid READINESS_DRAIN_DELAY: %w", err)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return errors.New("TRACING_SAMPLE_RATE must be within [0, 1]")
	}

	return nil
}

// GetShutdownTimeoutDuration returns the parsed shutdown timeout.
// Validate must have succeeded before calling.
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// GetReadinessDrainDelayDuration returns the parsed readiness drain delay.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.ReadinessDrainDelay)
	return d
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getFloatEnv(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
