package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken   string
	Debug           bool
	LogMode         string
	UpdateTimeout   time.Duration
	LeaderboardSize int
}

// Load читает переменные окружения, предварительно подгружая .env если он есть
func Load() (*Config, error) {
	_ = godotenv.Load()

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("config: TELEGRAM_BOT_TOKEN environment variable is required")
	}

	debug, err := getenvBool("BOT_DEBUG", false)
	if err != nil {
		return nil, err
	}
	timeout, err := getenvInt("UPDATE_TIMEOUT", 60)
	if err != nil {
		return nil, err
	}
	size, err := getenvInt("LEADERBOARD_SIZE", 10)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("config: LEADERBOARD_SIZE must be positive, got %d", size)
	}

	return &Config{
		TelegramToken:   token,
		Debug:           debug,
		LogMode:         getenvDefault("LOG_MODE", "dev"),
		UpdateTimeout:   time.Duration(timeout) * time.Second,
		LeaderboardSize: size,
	}, nil
}

func getenvDefault(k, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return fallback
}

func getenvBool(k string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s=%q is not a valid bool: %w", k, v, err)
	}
	return b, nil
}

func getenvInt(k string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a valid integer: %w", k, v, err)
	}
	return n, nil
}
