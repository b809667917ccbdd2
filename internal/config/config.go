package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// StoreRedis is the default persistent backend.
	StoreRedis = "redis"
	// StoreMemory keeps bugs in process memory. Dev and tests only.
	StoreMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Store    string // "redis" | "memory"
	SeedFile string // optional path to a YAML seed file, empty = no seeding

	RequestTimeout time.Duration // per-request timeout enforced by middleware

	// Rate limiting
	RateBurst        int  // token bucket capacity per client IP
	RateRefillPerMin int  // tokens refilled per minute per client IP
	TrustProxy       bool // true => resolve client IP from proxy headers

	// Redis (only required when Store == "redis")
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("BUGTRACK_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("BUGTRACK_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("BUGTRACK_REQUEST_TIMEOUT", 10*time.Second),

		// Logging
		LogLevel:  getenv("BUGTRACK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("BUGTRACK_PRETTY_LOG", true),

		// Storage
		Store:    strings.ToLower(getenv("BUGTRACK_STORE", StoreRedis)),
		SeedFile: getenv("BUGTRACK_SEED_FILE", ""),

		// Rate limiting
		RateBurst:        getenvInt("BUGTRACK_RATE_BURST", 100),
		RateRefillPerMin: getenvInt("BUGTRACK_RATE_REFILL_PER_MIN", 100),
		TrustProxy:       mustBool("BUGTRACK_TRUST_PROXY", false),
	}

	if cfg.Store != StoreRedis && cfg.Store != StoreMemory {
		panic(fmt.Sprintf("❌ FATAL: BUGTRACK_STORE must be %q or %q, got %q", StoreRedis, StoreMemory, cfg.Store))
	}

	if cfg.Store == StoreRedis {
		cfg.RedisAddr = requireEnv("BUGTRACK_REDIS_ADDR")
		cfg.RedisUser = getenv("BUGTRACK_REDIS_USERNAME", "default")
		cfg.RedisPasswordRequired = mustBool("BUGTRACK_REDIS_PASSWORD_REQUIRED", false)
		cfg.RedisPassword = getenv("BUGTRACK_REDIS_PASSWORD", "")
		cfg.RedisDB = getenvInt("BUGTRACK_REDIS_DB", 0)
		cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
		cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
		cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
		cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
		cfg.RedisPingTimeout = mustDuration("REDIS_PING_TIMEOUT", 5*time.Second)
		cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
		cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
		cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
		cfg.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", 3)

		if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
			panic("❌ FATAL: BUGTRACK_REDIS_PASSWORD is required when BUGTRACK_REDIS_PASSWORD_REQUIRED=true")
		}
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
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
