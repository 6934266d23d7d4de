package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrEmptyDataset is returned by Reload when a source yields no records.
var ErrEmptyDataset = errors.New("dataset source returned no records")

// Result is the outcome of a successful query.
type Result struct {
	Records []Record
	Version string
}

// Service answers queries against the published Dataset and reloads it from
// its Source.
type Service struct {
	store    Store
	source   Source
	recorder Recorder
	logger   *slog.Logger

	// serializes reloads; queries never take it
	reloadMu sync.Mutex
}

// NewService creates a new Service. recorder and logger may be nil.
func NewService(store Store, source Source, recorder Recorder, logger *slog.Logger) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		source:   source,
		recorder: recorder,
		logger:   logger,
	}
}

// Query parses a raw query string and evaluates it against the current
// snapshot.
func (s *Service) Query(rawQuery string) (Result, error) {
	start := time.Now()

	params, err := ParseRawQuery(rawQuery)
	if err != nil {
		s.recorder.ObserveQuery(OutcomeInvalid, 0, time.Since(start))
		return Result{}, err
	}
	p, err := Parse(params)
	if err != nil {
		s.recorder.ObserveQuery(OutcomeInvalid, 0, time.Since(start))
		return Result{}, err
	}

	ds, err := s.store.Current()
	if err != nil {
		s.recorder.ObserveQuery(OutcomeUnavailable, 0, time.Since(start))
		return Result{}, err
	}

	records, err := Evaluate(ds, p)
	if err != nil {
		s.recorder.ObserveQuery(OutcomeNotFound, 0, time.Since(start))
		return Result{Version: ds.Version()}, err
	}

	outcome := OutcomeOK
	if len(records) == 0 {
		outcome = OutcomeEmpty
	}
	s.recorder.ObserveQuery(outcome, len(records), time.Since(start))

	s.logger.Debug("query evaluated",
		"date_filter", p.Date.Kind.String(),
		"weather", string(p.Weather),
		"limit", p.Limit,
		"results", len(records),
	)

	return Result{Records: records, Version: ds.Version()}, nil
}

// Reload loads the collection from the source and publishes it as a new
// snapshot. On failure the previously published snapshot stays in place.
func (s *Service) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	records, err := s.source.Load(ctx)
	if err == nil && len(records) == 0 {
		err = ErrEmptyDataset
	}
	if err != nil {
		s.recorder.ObserveReload(err, 0)
		return fmt.Errorf("reload from %s: %w", s.source.Name(), err)
	}

	ds := NewDataset(s.source.Name(), records)
	s.store.Publish(ds)
	s.recorder.ObserveReload(nil, ds.Len())

	s.logger.Info("dataset published",
		"source", ds.Source(),
		"version", ds.Version(),
		"records", ds.Len(),
		"sorted", ds.Sorted(),
	)
	return nil
}

// Summary describes the current snapshot.
func (s *Service) Summary() (Summary, error) {
	ds, err := s.store.Current()
	if err != nil {
		return Summary{}, err
	}
	summary := Summarize(ds)
	summary.Publications = s.store.History()
	return summary, nil
}
