package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Store       StoreConfig
	Log         LogConfig
	Seed        SeedConfig
	Environment string
}

type StoreConfig struct {
	Path string
}

type LogConfig struct {
	Level  string
	Format string
}

type SeedConfig struct {
	Accounts               int
	TransactionsPerAccount int
}

func Load() *Config {
	// Missing .env is fine, the environment still applies
	_ = godotenv.Load()

	return &Config{
		Store: StoreConfig{
			Path: getEnv("LEDGER_STORE_PATH", "bankledger.db"),
		},
		Log: LogConfig{
			Level:  getEnv("LEDGER_LOG_LEVEL", "info"),
			Format: getEnv("LEDGER_LOG_FORMAT", "text"),
		},
		Seed: SeedConfig{
			Accounts:               getIntEnv("LEDGER_SEED_ACCOUNTS", 5),
			TransactionsPerAccount: getIntEnv("LEDGER_SEED_TRANSACTIONS", 10),
		},
		Environment: getEnv("APP_ENV", "development"),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Logger builds a slog logger according to the configured level and format
func (c *Config) Logger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(c.Log.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
