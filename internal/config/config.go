package config

import (
	"os"
	"strconv"
)

// Config carries process-level settings sourced from the environment.
// Defaults keep a bare `go run ./cmd/server` working with no env file.
type Config struct {
	Port         string // PORT
	RedisAddr    string // REDIS_ADDR, empty disables action history
	RedisDB      int    // REDIS_DB
	HistoryQueue string // HISTORY_QUEUE_NAME
	TurnTimerSec int    // TURN_TIMER_SEC, human turn length
	LogLevel     string // LOG_LEVEL
}

// FromEnv reads the configuration from the environment.
func FromEnv() Config {
	return Config{
		Port:         GetEnv("PORT", "3000"),
		RedisAddr:    GetEnv("REDIS_ADDR", ""),
		RedisDB:      GetEnvInt("REDIS_DB", 0),
		HistoryQueue: GetEnv("HISTORY_QUEUE_NAME", "consolecatch_actions"),
		TurnTimerSec: GetEnvInt("TURN_TIMER_SEC", 30),
		LogLevel:     GetEnv("LOG_LEVEL", "info"),
	}
}

// GetEnv reads an environment variable or returns a default value.
func GetEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// GetEnvInt parses an environment variable as an integer, else a default.
func GetEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
