package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	BotToken string
	OwnerID  int64
	DataDir  string
	// WordsFile optionally points at an external reference word list that
	// replaces the embedded bundle. Changes to it trigger an automatic sync.
	WordsFile string
	// DayStartHour/DayEndHour bound the [start, end) window in which
	// notifications are allowed to fire.
	DayStartHour int
	DayEndHour   int
	Debug        bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:  os.Getenv("BOT_TOKEN"),
		DataDir:   getEnv("DATA_DIR", defaultDataDir()),
		WordsFile: os.Getenv("WORDS_FILE"),
		Debug:     os.Getenv("DEBUG") != "",
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	ownerStr := os.Getenv("OWNER_ID")
	if ownerStr == "" {
		return nil, fmt.Errorf("OWNER_ID is required")
	}
	ownerID, err := strconv.ParseInt(ownerStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("OWNER_ID must be a numeric Telegram chat id: %w", err)
	}
	cfg.OwnerID = ownerID

	cfg.DayStartHour, err = getEnvInt("DAY_START_HOUR", 8)
	if err != nil {
		return nil, err
	}
	cfg.DayEndHour, err = getEnvInt("DAY_END_HOUR", 23)
	if err != nil {
		return nil, err
	}
	if cfg.DayStartHour < 0 || cfg.DayEndHour > 24 || cfg.DayStartHour >= cfg.DayEndHour {
		return nil, fmt.Errorf("invalid notification window [%d, %d)", cfg.DayStartHour, cfg.DayEndHour)
	}

	return cfg, nil
}

// WordsPath returns the location of the persisted word file.
func (c *Config) WordsPath() string {
	return filepath.Join(c.DataDir, "words.json")
}

// DBPath returns the location of the settings database.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "wordloop.db")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wordloop"
	}
	return filepath.Join(home, ".local", "share", "wordloop")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
