package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	JWTSecret    string `env:"JWT_SECRET,required"  validate:"required,min=32"`
	ResendAPIKey string `env:"RESEND_API_KEY"       validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"          validate:"required_if=Env production,required_if=Env staging"`

	// AutoHashPasswords re-hashes legacy plaintext credentials on the
	// first successful login when set.
	AutoHashPasswords bool `env:"AUTO_HASH_PASSWORDS" envDefault:"false"`

	// OTPStore selects the one-time-code backend. "memory" is fine for a
	// single instance; "redis" survives restarts and multiple replicas.
	OTPStore  string `env:"OTP_STORE" envDefault:"memory" validate:"oneof=memory redis"`
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379" validate:"required_if=OTPStore redis"`

	CloudinaryURL string `env:"CLOUDINARY_URL" validate:"required_if=Env production,required_if=Env staging"`
}

// Load parses the environment into a Config. A .env file in the working
// directory is read first when present (local dev convenience).
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
