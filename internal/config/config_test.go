package config

import (
	"strings"
	"testing"
	"time"

	"bookmark-manager/internal/cache"
	apperrors "bookmark-manager/internal/common/errors"
)

var configEnvKeys = []string{
	"PORT", "LOG_LEVEL", "LOG_FILE",
	"REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB", "REDIS_POOL_SIZE",
	"RATE_LIMIT_ENABLED", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"CACHE_ENABLED", "CACHE_LEVEL", "CACHE_MEMORY_ENABLED", "CACHE_MEMORY_MAX_AGE",
	"CACHE_REMOTE_TIMEOUT_MS", "CACHE_SCAN_COUNT", "CACHE_KEY_PREFIX",
	"CACHE_ERROR_THRESHOLD", "CACHE_INVALIDATION_CHANNEL",
	"CACHE_TTL_DEFAULT_LIST", "CACHE_TTL_TAG_FILTER", "CACHE_TTL_SEARCH",
	"CACHE_TTL_PUBLIC_SHARE", "CACHE_TTL_RATE_LIMIT",
	"CACHE_STRATEGY_DEFAULT_LIST", "CACHE_STRATEGY_TAG_FILTER", "CACHE_STRATEGY_SEARCH",
	"CACHE_STRATEGY_PUBLIC_SHARE", "CACHE_STRATEGY_RATE_LIMIT",
}

// clearTestEnv blanks every variable Load reads; getEnv treats empty as unset.
func clearTestEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	clearTestEnv(t)

	config := Load()

	if config.Port != "8080" {
		t.Errorf("Load() Port = %v, want %v", config.Port, "8080")
	}
	if config.LogLevel != "info" {
		t.Errorf("Load() LogLevel = %v, want %v", config.LogLevel, "info")
	}
	if config.LogFile != "" {
		t.Errorf("Load() LogFile = %v, want empty", config.LogFile)
	}
	if config.RedisAddress != "" {
		t.Errorf("Load() RedisAddress = %v, want empty", config.RedisAddress)
	}
	if config.RedisEnabled() {
		t.Error("Load() RedisEnabled() = true, want false without REDIS_ADDRESS")
	}
	if config.RedisDB != "0" {
		t.Errorf("Load() RedisDB = %v, want %v", config.RedisDB, "0")
	}
	if config.RedisPoolSize != "10" {
		t.Errorf("Load() RedisPoolSize = %v, want %v", config.RedisPoolSize, "10")
	}

	if !config.RateLimitEnabled {
		t.Error("Load() RateLimitEnabled = false, want true")
	}
	if config.RateLimitRPSNumber() != 5 || config.RateLimitBurstNumber() != 10 {
		t.Errorf("Load() rate limit = %v/%v, want 5/10", config.RateLimitRPS, config.RateLimitBurst)
	}

	if !config.Cache.Enabled {
		t.Error("Load() Cache.Enabled = false, want true")
	}
	if config.Cache.Level != cache.LevelDefault {
		t.Errorf("Load() Cache.Level = %v, want %v", config.Cache.Level, cache.LevelDefault)
	}
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	clearTestEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FILE", "/var/log/bookmarks.log")
	t.Setenv("REDIS_ADDRESS", "redis:6379")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_POOL_SIZE", "25")
	t.Setenv("CACHE_LEVEL", "aggressive")
	t.Setenv("CACHE_TTL_SEARCH", "30")

	config := Load()

	if config.Port != "9090" {
		t.Errorf("Load() Port = %v, want %v", config.Port, "9090")
	}
	if config.LogLevel != "debug" {
		t.Errorf("Load() LogLevel = %v, want %v", config.LogLevel, "debug")
	}
	if config.LogFile != "/var/log/bookmarks.log" {
		t.Errorf("Load() LogFile = %v", config.LogFile)
	}
	if !config.RedisEnabled() || config.RedisAddress != "redis:6379" {
		t.Errorf("Load() RedisAddress = %v, want redis:6379", config.RedisAddress)
	}
	if config.RedisPassword != "secret" {
		t.Errorf("Load() RedisPassword = %v, want secret", config.RedisPassword)
	}
	if config.RedisDBNumber() != 3 {
		t.Errorf("RedisDBNumber() = %v, want 3", config.RedisDBNumber())
	}
	if config.RedisPoolSizeNumber() != 25 {
		t.Errorf("RedisPoolSizeNumber() = %v, want 25", config.RedisPoolSizeNumber())
	}
	if !config.Cache.StrategyEnabled(cache.CategorySearch) {
		t.Error("aggressive level should enable search")
	}
	if got := config.Cache.TTLFor(cache.CategorySearch); got != 30*time.Second {
		t.Errorf("search TTL = %v, want 30s", got)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue string
		want         string
	}{
		{"existing variable", "test-value", "default", "test-value"},
		{"empty variable", "", "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_GET_ENV", tt.envValue)
			if got := getEnv("TEST_GET_ENV", tt.defaultValue); got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetBoolEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		want         bool
	}{
		{"true", "true", false, true},
		{"one", "1", false, true},
		{"false", "false", true, false},
		{"invalid falls back", "yes please", true, true},
		{"empty falls back", "", false, false},
		{"surrounding space", " true ", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL_ENV", tt.envValue)
			if got := getBoolEnv("TEST_BOOL_ENV", tt.defaultValue); got != tt.want {
				t.Errorf("getBoolEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:             "8080",
			RedisAddress:     "localhost:6379",
			RedisDB:          "0",
			RedisPoolSize:    "10",
			RateLimitEnabled: true,
			RateLimitRPS:     "2.5",
			RateLimitBurst:   "5",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid config", func(c *Config) {}, ""},
		{"port not a number", func(c *Config) { c.Port = "http" }, "PORT"},
		{"port zero", func(c *Config) { c.Port = "0" }, "PORT"},
		{"port too high", func(c *Config) { c.Port = "70000" }, "PORT"},
		{"redis db out of range", func(c *Config) { c.RedisDB = "16" }, "REDIS_DB"},
		{"redis db negative", func(c *Config) { c.RedisDB = "-1" }, "REDIS_DB"},
		{"redis pool size zero", func(c *Config) { c.RedisPoolSize = "0" }, "REDIS_POOL_SIZE"},
		{"rate limit rps zero", func(c *Config) { c.RateLimitRPS = "0" }, "RATE_LIMIT_RPS"},
		{"rate limit burst invalid", func(c *Config) { c.RateLimitBurst = "many" }, "RATE_LIMIT_BURST"},
		{"rate limit settings ignored when disabled", func(c *Config) {
			c.RateLimitEnabled = false
			c.RateLimitRPS = "-1"
		}, ""},
		{"redis settings ignored without address", func(c *Config) {
			c.RedisAddress = ""
			c.RedisDB = "99"
			c.RedisPoolSize = "nope"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("Validate() error = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
			if !apperrors.IsType(err, apperrors.ErrTypeConfig) {
				t.Errorf("Validate() error type = %v, want config", apperrors.GetType(err))
			}
		})
	}
}
