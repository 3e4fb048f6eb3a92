package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabasePath string
	HistoryDir   string
	LogLevel     string
	Port         int
	DevMode      bool

	// Analytics parameters. These are explicit inputs to the metric
	// calculators, not buried constants: alpha depends on them and the
	// assumptions must be auditable.
	RiskFreeRate        float64
	AssumedMarketReturn float64
	BenchmarkSymbol     string
	HistoryDays         int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnvAsInt("PORT", 8080),
		DevMode:      getEnvAsBool("DEV_MODE", false),
		DatabasePath: getEnv("DATABASE_PATH", "./data/folio.db"),
		HistoryDir:   getEnv("HISTORY_DIR", "./data/history"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		RiskFreeRate:        getEnvAsFloat("RISK_FREE_RATE", 0.02),
		AssumedMarketReturn: getEnvAsFloat("ASSUMED_MARKET_RETURN", 0.10),
		BenchmarkSymbol:     getEnv("BENCHMARK_SYMBOL", "SPY"),
		HistoryDays:         getEnvAsInt("HISTORY_DAYS", 365),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present and sane
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.HistoryDir == "" {
		return fmt.Errorf("HISTORY_DIR is required")
	}
	if c.HistoryDays < 2 {
		return fmt.Errorf("HISTORY_DAYS must be at least 2, got %d", c.HistoryDays)
	}
	if c.BenchmarkSymbol == "" {
		return fmt.Errorf("BENCHMARK_SYMBOL is required")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
