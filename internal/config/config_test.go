package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BUGTRACK_STORE", StoreMemory)

	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 5s", cfg.ShutdownTimeout)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.RateBurst != 100 || cfg.RateRefillPerMin != 100 {
		t.Errorf("rate limits = %d/%d, want 100/100", cfg.RateBurst, cfg.RateRefillPerMin)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, must stay empty for the memory store", cfg.RedisAddr)
	}
}

func TestLoadRedisStore(t *testing.T) {
	t.Setenv("BUGTRACK_STORE", "Redis") // case-insensitive
	t.Setenv("BUGTRACK_REDIS_ADDR", "localhost:6379")
	t.Setenv("BUGTRACK_REDIS_DB", "3")

	cfg := Load()

	if cfg.Store != StoreRedis {
		t.Errorf("Store = %q, want redis", cfg.Store)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d, want 3", cfg.RedisDB)
	}
	if cfg.RedisDT != 5*time.Second {
		t.Errorf("RedisDT = %v, want 5s", cfg.RedisDT)
	}
}

func TestLoadPanics(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "unknown store",
			env:  map[string]string{"BUGTRACK_STORE": "postgres"},
		},
		{
			name: "redis store without addr",
			env:  map[string]string{"BUGTRACK_STORE": StoreRedis},
		},
		{
			name: "password required but empty",
			env: map[string]string{
				"BUGTRACK_STORE":                   StoreRedis,
				"BUGTRACK_REDIS_ADDR":              "localhost:6379",
				"BUGTRACK_REDIS_PASSWORD_REQUIRED": "true",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			defer func() {
				if recover() == nil {
					t.Errorf("Load() did not panic")
				}
			}()
			Load()
		})
	}
}

func TestGetenvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"unset uses default", "", 42},
		{"valid value", "7", 7},
		{"garbage falls back", "seven", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("BUGTRACK_TEST_INT", tt.value)
			}
			if got := getenvInt("BUGTRACK_TEST_INT", 42); got != tt.want {
				t.Errorf("getenvInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"unset uses default", "", time.Second},
		{"valid value", "250ms", 250 * time.Millisecond},
		{"garbage falls back", "fast", time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("BUGTRACK_TEST_DUR", tt.value)
			}
			if got := mustDuration("BUGTRACK_TEST_DUR", time.Second); got != tt.want {
				t.Errorf("mustDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}
