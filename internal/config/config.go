package config

import (
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds the process-wide numeric settings, read once at startup.
type Config struct {
	// ExactEnabled activates the noncentral-distribution backend at startup.
	ExactEnabled bool
	// MaxBisect bounds the bisection iteration count for noncentrality
	// inversions.
	MaxBisect int
	// MaxExactN caps exact discrete enumeration; beyond it the binomial and
	// Fisher paths refuse rather than grind.
	MaxExactN int
	// MaxSampleSize caps the monotone bracketing search over n.
	MaxSampleSize int
}

const (
	defaultMaxBisect     = 200
	defaultMaxExactN     = 200
	defaultMaxSampleSize = 1_000_000
)

var (
	once   sync.Once
	loaded Config
)

// Load reads configuration from the environment (and a .env file when
// present) exactly once. Later calls return the same snapshot; explicit
// backend toggles go through dist.EnableExact, not the environment.
func Load() Config {
	once.Do(func() {
		_ = godotenv.Load()
		loaded = Config{
			ExactEnabled:  getEnvBoolOrDefault("STATDESIGN_EXACT", false),
			MaxBisect:     getEnvIntOrDefault("STATDESIGN_MAX_BISECT", defaultMaxBisect),
			MaxExactN:     getEnvIntOrDefault("STATDESIGN_MAX_EXACT_N", defaultMaxExactN),
			MaxSampleSize: getEnvIntOrDefault("STATDESIGN_MAX_N", defaultMaxSampleSize),
		}
		if loaded.MaxBisect < 1 {
			loaded.MaxBisect = defaultMaxBisect
		}
		if loaded.MaxExactN < 1 {
			loaded.MaxExactN = defaultMaxExactN
		}
		if loaded.MaxSampleSize < 2 {
			loaded.MaxSampleSize = defaultMaxSampleSize
		}
	})
	return loaded
}

// Helper functions for environment variable parsing

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
