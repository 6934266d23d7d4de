package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/i474232898/weather-query/internal/config"
)

func TestNewLogger_ProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.AppConfig{AppEnv: "prod", LogLevel: slog.LevelInfo}, "weather-query")

	logger.Debug("hidden")
	logger.Info("dataset published", "records", 3)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if line["msg"] != "dataset published" || line["app"] != "weather-query" || line["env"] != "prod" {
		t.Fatalf("unexpected log line: %v", line)
	}
}

func TestNewLogger_DevWritesText(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.AppConfig{AppEnv: "dev", LogLevel: slog.LevelDebug}, "weather-query")

	logger.Debug("query evaluated", "results", 3)

	if !strings.Contains(buf.String(), "query evaluated") {
		t.Fatalf("missing message in %q", buf.String())
	}
}
