// Package config loads the bookmark service configuration from environment
// variables with sensible defaults and validates it before startup.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - LOG_FILE: Log file path; empty logs to stdout
//
// Redis Configuration:
//   - REDIS_ADDRESS: Redis server address; empty runs the cache memory-only
//   - REDIS_PASSWORD: Redis password
//   - REDIS_DB: Redis database number 0-15 (default: 0)
//   - REDIS_POOL_SIZE: Redis connection pool size (default: 10)
//
// Rate Limiting (operator endpoints):
//   - RATE_LIMIT_ENABLED: Enable rate limiting (default: true)
//   - RATE_LIMIT_RPS: Requests per second per client IP (default: 5)
//   - RATE_LIMIT_BURST: Burst size per client IP (default: 10)
//
// Cache Configuration:
//   - CACHE_ENABLED: Global cache switch (default: true)
//   - CACHE_LEVEL: 0-3 or none/minimal/default/aggressive (default: 2)
//   - CACHE_TTL_<CATEGORY>: TTL in seconds per category
//   - CACHE_STRATEGY_<CATEGORY>: Per-category enable override
//   - CACHE_MEMORY_ENABLED: In-process tier switch (default: true)
//   - CACHE_MEMORY_MAX_AGE: In-process default max-age in seconds (default: 300)
//   - CACHE_REMOTE_TIMEOUT_MS: Per-operation Redis timeout (default: 100)
//   - CACHE_SCAN_COUNT: SCAN page size for prefix invalidation (default: 100)
//   - CACHE_KEY_PREFIX: Redis key namespace (default: bookmarks:cache:)
//   - CACHE_ERROR_THRESHOLD: Consecutive Redis failures before the cache turns itself off (default: 10)
//   - CACHE_INVALIDATION_CHANNEL: Pub/sub channel for peer invalidation
//
// <CATEGORY> is one of DEFAULT_LIST, TAG_FILTER, SEARCH, PUBLIC_SHARE, RATE_LIMIT.
//
// Example usage:
//
//	cfg := config.Load()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
package config

import (
	"os"
	"strconv"

	"bookmark-manager/internal/cache"
	apperrors "bookmark-manager/internal/common/errors"
)

// Config holds all configuration values for the bookmark service.
//
// The configuration is loaded using the Load() function and should be
// validated using the Validate() method before use.
type Config struct {
	// Application settings
	Port     string // Server port number
	LogLevel string // Logging level (debug, info, warn, error)
	LogFile  string // Log file path, empty for stdout

	// Redis configuration for the shared cache tier
	RedisAddress  string // Redis server address (host:port)
	RedisPassword string // Redis authentication password
	RedisDB       string // Redis database number (0-15)
	RedisPoolSize string // Redis connection pool size

	// Rate limiting for the cache operator endpoints
	RateLimitEnabled bool   // Whether rate limiting is enabled
	RateLimitRPS     string // Requests per second per client
	RateLimitBurst   string // Burst size per client

	// Cache policy, already resolved and total
	Cache cache.Config
}

// Load creates a new Config instance with values loaded from environment variables.
// If an environment variable is not set, the corresponding default value is used.
//
// This function does not validate the configuration - call Validate() on the
// returned Config before use.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		RedisAddress:  getEnv("REDIS_ADDRESS", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),
		RedisPoolSize: getEnv("REDIS_POOL_SIZE", "10"),

		RateLimitEnabled: getBoolEnv("RATE_LIMIT_ENABLED", true),
		RateLimitRPS:     getEnv("RATE_LIMIT_RPS", "5"),
		RateLimitBurst:   getEnv("RATE_LIMIT_BURST", "10"),

		Cache: LoadCache(os.Getenv),
	}
}

// RedisEnabled reports whether a Redis address was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddress != ""
}

// RedisDBNumber returns REDIS_DB as an int. Call Validate first.
func (c *Config) RedisDBNumber() int {
	n, _ := strconv.Atoi(c.RedisDB)
	return n
}

// RedisPoolSizeNumber returns REDIS_POOL_SIZE as an int. Call Validate first.
func (c *Config) RedisPoolSizeNumber() int {
	n, _ := strconv.Atoi(c.RedisPoolSize)
	return n
}

// getEnv retrieves an environment variable value or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv retrieves a boolean environment variable value or returns a default value.
// Values strconv.ParseBool rejects fall back to defaultValue.
func getBoolEnv(key string, defaultValue bool) bool {
	return lookupBool(os.Getenv, key, defaultValue)
}

// RateLimitRPSNumber returns RATE_LIMIT_RPS as a float. Call Validate first.
func (c *Config) RateLimitRPSNumber() float64 {
	n, _ := strconv.ParseFloat(c.RateLimitRPS, 64)
	return n
}

// RateLimitBurstNumber returns RATE_LIMIT_BURST as an int. Call Validate first.
func (c *Config) RateLimitBurstNumber() int {
	n, _ := strconv.Atoi(c.RateLimitBurst)
	return n
}

// Validate checks the values the cache section cannot fix up on its own.
//
// This method checks:
//   - PORT is a valid TCP port
//   - REDIS_DB and REDIS_POOL_SIZE are usable when Redis is configured
//   - RATE_LIMIT_RPS and RATE_LIMIT_BURST are positive when rate limiting is on
//
// The cache section is not validated here; LoadCache already falls back to
// defaults for anything malformed.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return apperrors.ConfigError("PORT must be a valid port number between 1 and 65535").
			WithContext("value", c.Port)
	}

	if c.RedisEnabled() {
		if db, err := strconv.Atoi(c.RedisDB); err != nil || db < 0 || db > 15 {
			return apperrors.ConfigError("REDIS_DB must be a number between 0 and 15").
				WithContext("value", c.RedisDB)
		}
		if poolSize, err := strconv.Atoi(c.RedisPoolSize); err != nil || poolSize < 1 {
			return apperrors.ConfigError("REDIS_POOL_SIZE must be a positive number").
				WithContext("value", c.RedisPoolSize)
		}
	}

	if c.RateLimitEnabled {
		if rps, err := strconv.ParseFloat(c.RateLimitRPS, 64); err != nil || rps <= 0 {
			return apperrors.ConfigError("RATE_LIMIT_RPS must be a positive number").
				WithContext("value", c.RateLimitRPS)
		}
		if burst, err := strconv.Atoi(c.RateLimitBurst); err != nil || burst < 1 {
			return apperrors.ConfigError("RATE_LIMIT_BURST must be a positive number").
				WithContext("value", c.RateLimitBurst)
		}
	}

	return nil
}
