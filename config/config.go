package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Pipeline tuning
	UpdateInterval     time.Duration
	MaxQueueSize       int
	QualityHistorySize int

	// Indicator periods (comma-separated, e.g. "20,50,200")
	SMAPeriods string
	EMAPeriods string

	// Infrastructure
	MetricsAddr   string
	RedisAddr     string
	RedisPassword string

	// Feed
	BinanceSymbol string

	LogLevel string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		UpdateInterval:     time.Duration(getEnvInt("UPDATE_INTERVAL_MS", 100)) * time.Millisecond,
		MaxQueueSize:       getEnvInt("MAX_QUEUE_SIZE", 1000),
		QualityHistorySize: getEnvInt("QUALITY_HISTORY_SIZE", 1000),

		SMAPeriods: getEnv("SMA_PERIODS", "20,50,200"),
		EMAPeriods: getEnv("EMA_PERIODS", "12,26"),

		MetricsAddr:   getEnv("METRICS_ADDR", ":9090"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		BinanceSymbol: getEnv("BINANCE_SYMBOL", "btcusdt"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// ParsePeriods parses a comma-separated period list into ints, skipping
// invalid entries.
func ParsePeriods(s string) []int {
	parts := strings.Split(s, ",")
	periods := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			log.Printf("[config] skipping invalid period value: %q", p)
			continue
		}
		periods = append(periods, n)
	}
	return periods
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid int for %s: %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
