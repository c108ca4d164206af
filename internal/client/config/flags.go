package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/authflow/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Only the flags handled here are passed to the FlagSet, so -c/-config and
// anything else on the command line do not cause parse errors.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-b", "-p", "-r", "-e", "-l"})

	fs := flag.NewFlagSet("authflow", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the auth service")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.SessionBackend, "b", cfg.SessionBackend, "session backend: memory, sqlite or redis")
	fs.StringVar(&cfg.SessionPath, "p", cfg.SessionPath, "sqlite session database path")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	ttl := fs.Int("e", int(cfg.RedisTTL.Seconds()), "redis session expiry (in seconds, 0 keeps it forever)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case "e":
			cfg.RedisTTL = time.Duration(*ttl) * time.Second
		}
	})
	return nil
}
