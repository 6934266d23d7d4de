package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"APP_ENV", "LOG_LEVEL", "PORT",
	"DATASET_PATH", "BACKEND_FILENAME", "DATASET_URL", "DATASET_SQLITE", "DATASET_TABLE",
	"DATASET_WATCH", "RELOAD_INTERVAL", "HTTP_TIMEOUT", "READ_TIMEOUT", "WRITE_TIMEOUT",
	"STORE_MAX_HISTORY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATASET_PATH", "seattle-weather.csv")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AppEnv != "dev" || cfg.LogLevel != slog.LevelInfo || cfg.Port != "3000" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DatasetTable != "weather" || cfg.DatasetWatch || cfg.ReloadInterval != 0 {
		t.Fatalf("unexpected dataset defaults: %+v", cfg)
	}
	if cfg.HTTPTimeout != 10*time.Second || cfg.StoreMaxHistory != 10 {
		t.Fatalf("unexpected timeouts: %+v", cfg)
	}
}

func TestLoad_BackendFilenameFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKEND_FILENAME", "/data/weather.csv")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DatasetPath != "/data/weather.csv" {
		t.Fatalf("DatasetPath=%q", cfg.DatasetPath)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "8081")
	t.Setenv("DATASET_URL", "https://example.com/weather.csv")
	t.Setenv("RELOAD_INTERVAL", "15m")
	t.Setenv("DATASET_WATCH", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppEnv != "prod" || cfg.LogLevel != slog.LevelDebug || cfg.Port != "8081" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.ReloadInterval != 15*time.Minute || !cfg.DatasetWatch {
		t.Fatalf("unexpected reload config: %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "no source", env: map[string]string{}, want: "no dataset configured"},
		{
			name: "two sources",
			env:  map[string]string{"DATASET_PATH": "a.csv", "DATASET_SQLITE": "a.db"},
			want: "only one of",
		},
		{name: "bad env", env: map[string]string{"DATASET_PATH": "a.csv", "APP_ENV": "staging"}, want: "APP_ENV"},
		{name: "bad level", env: map[string]string{"DATASET_PATH": "a.csv", "LOG_LEVEL": "loud"}, want: "LOG_LEVEL"},
		{name: "bad interval", env: map[string]string{"DATASET_PATH": "a.csv", "RELOAD_INTERVAL": "soon"}, want: "RELOAD_INTERVAL"},
		{name: "negative timeout", env: map[string]string{"DATASET_PATH": "a.csv", "HTTP_TIMEOUT": "-1s"}, want: "HTTP_TIMEOUT"},
		{name: "bad watch flag", env: map[string]string{"DATASET_PATH": "a.csv", "DATASET_WATCH": "maybe"}, want: "DATASET_WATCH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}
