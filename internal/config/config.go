package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application: server options, the
// embedded store location and cache budget, decay/clustering constants, and
// the lifecycle task intervals.
type Config struct {
	// Server
	Port        string
	Environment string

	// Store
	StorePath     string
	StoreCacheMB  int64
	RatingsPath   string
	StopWordsPath string

	// Decay and clustering (tunable to match the reference cutoffs)
	DecayDiv        float64
	StaleDecay      float64
	ClusterSmallCut float64
	ClusterLargeCut float64
	ClusterMaxBatch int
	ClusterMinDocs  int
	TieBreakEpsilon float64

	// Lifecycle task intervals, in seconds
	RebuildIntervalSec   int
	ReclusterIntervalSec int
	EvictIntervalSec     int
	FlushIntervalSec     int
	StatsIntervalSec     int
	EvictLenThreshold    int

	// Ingest limits
	MaxUploadBytes int64

	// Optional Basic-Auth guard on /debug/stats. DebugStatsPass is a bcrypt
	// hash (e.g. produced by internal/auth's PasswordManager), not plaintext.
	DebugStatsUser string
	DebugStatsPass string
}

// Load reads a .env file if present, then environment variables, falling
// back to the defaults named in the design notes.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "production"),

		StorePath:     getEnv("STORE_PATH", "./data/store"),
		StoreCacheMB:  getEnvAsInt64("STORE_CACHE_MB", 96),
		RatingsPath:   getEnv("RATINGS_PATH", "./data/alexa_ratings.json"),
		StopWordsPath: getEnv("STOPWORDS_PATH", "./data/stop-words.txt"),

		DecayDiv:        getEnvAsFloat("DECAY_DIV", 10_000.0),
		StaleDecay:      getEnvAsFloat("STALE_DECAY", 5.0),
		ClusterSmallCut: getEnvAsFloat("CLUSTER_SMALL_CUTOFF", 0.12),
		ClusterLargeCut: getEnvAsFloat("CLUSTER_LARGE_CUTOFF", 0.15),
		ClusterMaxBatch: getEnvAsInt("CLUSTER_MAX_BATCH", 9000),
		ClusterMinDocs:  getEnvAsInt("CLUSTER_MIN_DOCS", 10),
		TieBreakEpsilon: getEnvAsFloat("TIE_BREAK_EPSILON", 1e-6),

		RebuildIntervalSec:   getEnvAsInt("REBUILD_INTERVAL_SECONDS", 600),
		ReclusterIntervalSec: getEnvAsInt("RECLUSTER_INTERVAL_SECONDS", 600),
		EvictIntervalSec:     getEnvAsInt("EVICT_INTERVAL_SECONDS", 600),
		FlushIntervalSec:     getEnvAsInt("FLUSH_INTERVAL_SECONDS", 300),
		StatsIntervalSec:     getEnvAsInt("STATS_INTERVAL_SECONDS", 60),
		EvictLenThreshold:    getEnvAsInt("EVICT_LEN_THRESHOLD", 40_000),

		MaxUploadBytes: getEnvAsInt64("MAX_UPLOAD_BYTES", 12*1024*1024),

		DebugStatsUser: getEnv("DEBUG_STATS_USER", ""),
		DebugStatsPass: getEnv("DEBUG_STATS_PASS", ""),
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
