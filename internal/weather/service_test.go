package weather

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNoDataset = errors.New("no dataset")

type testStore struct {
	mu      sync.Mutex
	ds      *Dataset
	history []Publication
}

func (s *testStore) Current() (*Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ds == nil {
		return nil, errNoDataset
	}
	return s.ds, nil
}

func (s *testStore) Publish(ds *Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds = ds
	s.history = append(s.history, Publication{Version: ds.Version(), Records: ds.Len()})
}

func (s *testStore) History() []Publication {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Publication(nil), s.history...)
}

type testSource struct {
	records []Record
	err     error
}

func (s *testSource) Name() string { return "test" }

func (s *testSource) Load(context.Context) ([]Record, error) {
	return s.records, s.err
}

type testRecorder struct {
	outcomes []string
	reloads  []error
}

func (r *testRecorder) ObserveQuery(outcome string, _ int, _ time.Duration) {
	r.outcomes = append(r.outcomes, outcome)
}

func (r *testRecorder) ObserveReload(err error, _ int) {
	r.reloads = append(r.reloads, err)
}

func TestService_QueryBeforeLoad(t *testing.T) {
	rec := &testRecorder{}
	svc := NewService(&testStore{}, &testSource{}, rec, nil)

	_, err := svc.Query("")
	assert.ErrorIs(t, err, errNoDataset)
	assert.Equal(t, []string{OutcomeUnavailable}, rec.outcomes)

	_, err = svc.Summary()
	assert.ErrorIs(t, err, errNoDataset)
}

func TestService_QueryOutcomes(t *testing.T) {
	rec := &testRecorder{}
	st := &testStore{}
	svc := NewService(st, &testSource{records: sampleRecords()}, rec, nil)
	require.NoError(t, svc.Reload(context.Background()))

	res, err := svc.Query("limit=3")
	require.NoError(t, err)
	assert.Len(t, res.Records, 3)
	assert.Equal(t, st.ds.Version(), res.Version)

	res, err = svc.Query("date%3E%3D2016-01-01")
	require.NoError(t, err)
	assert.Empty(t, res.Records)

	_, err = svc.Query("date=2012-01-12&weather=rain")
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	_, err = svc.Query("limit=0")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Query("limit=1&limit=2")
	assert.ErrorAs(t, err, &verr)

	assert.Equal(t, []string{OutcomeOK, OutcomeEmpty, OutcomeNotFound, OutcomeInvalid, OutcomeInvalid}, rec.outcomes)
}

func TestService_ReloadKeepsPreviousSnapshotOnFailure(t *testing.T) {
	rec := &testRecorder{}
	st := &testStore{}
	src := &testSource{records: sampleRecords()}
	svc := NewService(st, src, rec, nil)

	require.NoError(t, svc.Reload(context.Background()))
	first := st.ds

	src.records, src.err = nil, errors.New("boom")
	err := svc.Reload(context.Background())
	require.Error(t, err)
	assert.Same(t, first, st.ds)

	src.err = nil
	err = svc.Reload(context.Background())
	assert.ErrorIs(t, err, ErrEmptyDataset)
	assert.Same(t, first, st.ds)

	src.records = sampleRecords()[:2]
	require.NoError(t, svc.Reload(context.Background()))
	assert.NotSame(t, first, st.ds)
	assert.Equal(t, 2, st.ds.Len())

	require.Len(t, rec.reloads, 4)
	assert.NoError(t, rec.reloads[0])
	assert.Error(t, rec.reloads[1])
	assert.Error(t, rec.reloads[2])
	assert.NoError(t, rec.reloads[3])

	s, err := svc.Summary()
	require.NoError(t, err)
	assert.Equal(t, 2, s.Records)

	// Failed reloads are not publications.
	require.Len(t, s.Publications, 2)
	assert.Equal(t, first.Version(), s.Publications[0].Version)
	assert.Equal(t, st.ds.Version(), s.Publications[1].Version)
}
