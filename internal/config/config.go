package config

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-query/internal/common"
)

type AppConfig struct {
	AppEnv   string
	LogLevel slog.Level
	Port     string

	// Exactly one dataset source is set.
	DatasetPath   string // CSV file
	DatasetURL    string // remote CSV or JSON
	DatasetSQLite string // SQLite database file
	DatasetTable  string

	// DatasetWatch reloads the CSV file when it changes on disk.
	DatasetWatch bool

	// ReloadInterval controls periodic reloads (0 = disabled).
	ReloadInterval time.Duration

	// HTTPTimeout bounds outbound requests of the remote source.
	HTTPTimeout time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// StoreMaxHistory is the number of dataset publications remembered.
	StoreMaxHistory int
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.AppEnv = strings.TrimSpace(getenvDefault("APP_ENV", "dev"))
	switch cfg.AppEnv {
	case "dev", "prod":
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", cfg.AppEnv)
	}

	level, err := parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	cfg.Port = getenvDefault("PORT", "3000")

	cfg.DatasetPath = common.FirstNonEmpty(os.Getenv("DATASET_PATH"), os.Getenv("BACKEND_FILENAME"))
	cfg.DatasetURL = os.Getenv("DATASET_URL")
	cfg.DatasetSQLite = os.Getenv("DATASET_SQLITE")
	cfg.DatasetTable = getenvDefault("DATASET_TABLE", "weather")
	if err := cfg.validateSource(); err != nil {
		return nil, err
	}

	if cfg.DatasetWatch, err = getenvBool("DATASET_WATCH", false); err != nil {
		return nil, err
	}
	if cfg.ReloadInterval, err = getenvDuration("RELOAD_INTERVAL", 0); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ReadTimeout, err = getenvDuration("READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = getenvDuration("WRITE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 10)

	return cfg, nil
}

func (c *AppConfig) validateSource() error {
	switch common.CountNonEmpty(c.DatasetPath, c.DatasetURL, c.DatasetSQLite) {
	case 0:
		return errors.New("no dataset configured: set one of DATASET_PATH, DATASET_URL, DATASET_SQLITE")
	case 1:
		return nil
	default:
		return errors.New("only one of DATASET_PATH, DATASET_URL, DATASET_SQLITE may be set")
	}
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return def, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
