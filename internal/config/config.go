package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":7007"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	InstancesFile   string        // path to the instances.yaml file
	UpstreamTimeout time.Duration // timeout for each call to a quality instance (default: 10s)
	RequestTimeout  time.Duration // per-request timeout of the HTTP server (default: 30s)

	// Rate limiting of the findings endpoint (each request costs two upstream calls)
	RateLimitBurst  int // bucket capacity per client IP
	RateLimitPerMin int // tokens refilled per client IP per minute

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers
}

// Load reads the configuration from the environment.
// Missing required variables are returned as an error.
func Load() (*Config, error) {
	instancesFile, err := requireEnv("QH_INSTANCES_FILE")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("QH_LISTEN_PORT", ":7007"),
		ShutdownTimeout: mustDuration("QH_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("QH_LOG_LEVEL", "info"),
		PrettyLog: mustBool("QH_PRETTY_LOG", true),

		// Instances
		InstancesFile:   instancesFile,
		UpstreamTimeout: mustDuration("QH_UPSTREAM_TIMEOUT", 10*time.Second),
		RequestTimeout:  mustDuration("QH_REQUEST_TIMEOUT", 30*time.Second),

		RateLimitBurst:  getenvInt("QH_RATE_LIMIT_BURST", 30),
		RateLimitPerMin: getenvInt("QH_RATE_LIMIT_PER_MIN", 60),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("QH_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("QH_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("QH_TRUST_PROXY", false),
	}

	if cfg.UpstreamTimeout <= 0 {
		return nil, fmt.Errorf("QH_UPSTREAM_TIMEOUT must be > 0, got %v", cfg.UpstreamTimeout)
	}
	// A findings request makes two sequential upstream calls.
	if cfg.RequestTimeout < 2*cfg.UpstreamTimeout {
		return nil, fmt.Errorf("QH_REQUEST_TIMEOUT (%v) must be >= 2 x QH_UPSTREAM_TIMEOUT (%v)",
			cfg.RequestTimeout, cfg.UpstreamTimeout)
	}

	return cfg, nil
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("required environment variable %s is not set", key)
	}
	return v, nil
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
