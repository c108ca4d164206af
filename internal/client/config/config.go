package config

import (
	"fmt"
	"os"
	"time"
)

// Session backends understood by the CLI.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds runtime settings for the authflow CLI.
type Config struct {
	ServerURL      string        `env:"AUTHFLOW_SERVER_URL"`
	RequestTimeout time.Duration `env:"AUTHFLOW_REQUEST_TIMEOUT"`
	SessionBackend string        `env:"AUTHFLOW_SESSION_BACKEND"`
	SessionPath    string        `env:"AUTHFLOW_SESSION_PATH"`
	RedisAddr      string        `env:"AUTHFLOW_REDIS_ADDR"`
	RedisPrefix    string        `env:"AUTHFLOW_REDIS_PREFIX"`
	RedisTTL       time.Duration `env:"AUTHFLOW_REDIS_TTL"`
	LogLevel       string        `env:"AUTHFLOW_LOG_LEVEL"`
	LogDev         bool          `env:"AUTHFLOW_LOG_DEV"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.SessionBackend = BackendSQLite
	c.SessionPath = "session.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPrefix = "authflow:"
	c.LogLevel = "info"
}

// Validate reports settings the CLI cannot start with.
func (c *Config) Validate() error {
	switch c.SessionBackend {
	case BackendMemory, BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}
	if c.ServerURL == "" {
		return fmt.Errorf("server url is empty")
	}
	if c.RedisTTL < 0 {
		return fmt.Errorf("redis ttl must not be negative, got %s", c.RedisTTL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// Load builds a Config from defaults, the JSON file named in args, the
// environment and finally the flags in args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over os.Args. It panics on invalid configuration.
func LoadConfig() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}
