package weather

import (
	"time"

	"github.com/google/uuid"
)

// Dataset is an immutable snapshot of the record collection. It is built once
// per load and shared read-only between concurrent queries.
type Dataset struct {
	version  string
	source   string
	loadedAt time.Time

	records []Record
	// positions of records per date, ascending
	byDate map[string][]int
	// records are in non-decreasing date order
	sorted bool
}

// NewDataset indexes records (kept in the given order) into a Dataset. The
// slice is copied so later changes by the caller are not observed.
func NewDataset(source string, records []Record) *Dataset {
	ds := &Dataset{
		version:  uuid.NewString(),
		source:   source,
		loadedAt: time.Now().UTC(),
		records:  append([]Record(nil), records...),
		byDate:   make(map[string][]int, len(records)),
		sorted:   true,
	}
	for i, r := range ds.records {
		ds.byDate[r.Date] = append(ds.byDate[r.Date], i)
		if i > 0 && r.Date < ds.records[i-1].Date {
			ds.sorted = false
		}
	}
	return ds
}

func (d *Dataset) Version() string     { return d.version }
func (d *Dataset) Source() string      { return d.source }
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }
func (d *Dataset) Len() int            { return len(d.records) }

// Sorted reports whether records are in chronological order.
func (d *Dataset) Sorted() bool { return d.sorted }

// HasDate reports whether any record carries the given date.
func (d *Dataset) HasDate(date string) bool {
	_, ok := d.byDate[date]
	return ok
}
