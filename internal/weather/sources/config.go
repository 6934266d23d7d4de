package sources

import (
	"log/slog"
	"net/http"

	"github.com/i474232898/weather-query/internal/config"
	"github.com/i474232898/weather-query/internal/weather"
)

// FromConfig builds the single dataset source selected by cfg.
func FromConfig(cfg *config.AppConfig, logger *slog.Logger) (weather.Source, error) {
	switch {
	case cfg.DatasetURL != "":
		// Shared HTTP client for outbound dataset downloads.
		client := &http.Client{Timeout: cfg.HTTPTimeout}
		return NewHTTPSource(client, cfg.DatasetURL, logger), nil
	case cfg.DatasetSQLite != "":
		src, err := NewSQLiteSource(cfg.DatasetSQLite, cfg.DatasetTable, logger)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return NewFileSource(cfg.DatasetPath, logger), nil
	}
}
