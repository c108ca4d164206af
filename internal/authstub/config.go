package authstub

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the stub server settings, read from the environment.
type Config struct {
	Addr      string        `env:"AUTHSTUB_ADDR" envDefault:"127.0.0.1:8080"`
	JWTSecret string        `env:"AUTHSTUB_JWT_SECRET" envDefault:"dev-secret"`
	TokenTTL  time.Duration `env:"AUTHSTUB_TOKEN_TTL" envDefault:"1h"`
	OTPTTL    time.Duration `env:"AUTHSTUB_OTP_TTL" envDefault:"10m"`
	LogLevel  string        `env:"AUTHSTUB_LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse authstub env: %w", err)
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("AUTHSTUB_JWT_SECRET is empty")
	}
	return cfg, nil
}

// Options turns cfg into server options.
func (c Config) Options() []Option {
	return []Option{
		WithSecret([]byte(c.JWTSecret)),
		WithTokenTTL(c.TokenTTL),
		WithOTPTTL(c.OTPTTL),
	}
}
