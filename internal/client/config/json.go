package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authflow/internal/flagx"
	"github.com/dmitrijs2005/authflow/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields tell
// "absent" apart from zero values so a partial file only overrides what it names.
type JsonConfig struct {
	ServerURL      *string         `json:"server_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	SessionBackend *string         `json:"session_backend"`
	SessionPath    *string         `json:"session_path"`
	RedisAddr      *string         `json:"redis_addr"`
	RedisPrefix    *string         `json:"redis_prefix"`
	RedisTTL       *timex.Duration `json:"redis_ttl"`
	LogLevel       *string         `json:"log_level"`
	LogDev         *bool           `json:"log_dev"`
}

// parseJson overlays cfg with the file named by -c/-config, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.SessionBackend, jc.SessionBackend)
	setString(&cfg.SessionPath, jc.SessionPath)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisPrefix, jc.RedisPrefix)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RedisTTL != nil {
		cfg.RedisTTL = jc.RedisTTL.Duration
	}
	if jc.LogDev != nil {
		cfg.LogDev = *jc.LogDev
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
