// Package config loads runtime configuration for the authflow CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables prefixed AUTHFLOW_ (a .env file is loaded by main).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the auth service
//	-t int      request timeout (seconds)
//	-b string   session backend: memory, sqlite or redis
//	-p string   sqlite database path for the sqlite backend
//	-r string   redis address for the redis backend
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "10s",
//	  "session_backend": "sqlite",
//	  "session_path": "session.db",
//	  "redis_addr": "127.0.0.1:6379",
//	  "redis_prefix": "authflow:",
//	  "log_level": "info",
//	  "log_dev": false
//	}
package config
