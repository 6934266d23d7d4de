package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-query/internal/weather"
)

// HTTPSource downloads the dataset from a remote URL serving either CSV or a
// JSON array of records.
type HTTPSource struct {
	url     string
	client  *http.Client
	backoff BackoffConfig
	circuit *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

func NewHTTPSource(client *http.Client, url string, logger *slog.Logger) *HTTPSource {
	if logger == nil {
		logger = slog.Default()
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "dataset-http",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &HTTPSource{
		url:     url,
		client:  client,
		backoff: DefaultBackoff,
		circuit: cb,
		logger:  logger,
	}
}

func (s *HTTPSource) Name() string {
	return "http:" + s.url
}

func (s *HTTPSource) Load(ctx context.Context) ([]weather.Record, error) {
	resp, err := fetchWithResilience(ctx, s.client, s.backoff, s.circuit, s.url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		records, _, err := DecodeCSV(resp.Body, s.logger.With("source", s.Name()))
		return records, err
	}

	var payload []weather.Record
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode json dataset: %w", err)
	}

	records := payload[:0]
	for i, r := range payload {
		if !isDate(r.Date) || r.Weather == "" {
			s.logger.Debug("skipping invalid json record", "index", i, "date", r.Date)
			continue
		}
		records = append(records, r)
	}
	s.logger.Info("json decoded", "rows", len(payload), "loaded", len(records))
	return records, nil
}
