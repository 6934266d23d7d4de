package weather

import (
	"context"
	"time"
)

// Source abstracts where the record collection comes from (CSV file, remote
// endpoint, SQLite table).
type Source interface {
	Name() string
	Load(ctx context.Context) ([]Record, error)
}

// Store holds the currently published Dataset. Publish must replace the
// snapshot atomically so readers see either the old or the new one.
type Store interface {
	Current() (*Dataset, error)
	Publish(ds *Dataset)
	History() []Publication
}

// Publication records one published snapshot.
type Publication struct {
	Version  string    `json:"version"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Records  int       `json:"records"`
}

// Query outcomes reported to a Recorder.
const (
	OutcomeOK          = "ok"
	OutcomeEmpty       = "empty"
	OutcomeNotFound    = "not_found"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
)

// Recorder receives query and reload observations (e.g. Prometheus metrics).
type Recorder interface {
	ObserveQuery(outcome string, results int, elapsed time.Duration)
	ObserveReload(err error, records int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveQuery(string, int, time.Duration) {}
func (nopRecorder) ObserveReload(error, int)                {}
