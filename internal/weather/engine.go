package weather

import "sort"

// Evaluate returns the records of ds that satisfy every predicate in p, in
// collection order, truncated to p.Limit when set.
//
// An exact-date query that selects nothing fails with *NotFoundError. Range
// and weather-only queries with no matches succeed with an empty, non-nil
// slice.
func Evaluate(ds *Dataset, p Predicates) ([]Record, error) {
	out := make([]Record, 0)
	// collect appends a matching record and reports whether to keep going.
	collect := func(r Record) bool {
		if !p.Matches(r) {
			return true
		}
		out = append(out, r)
		return p.Limit <= 0 || len(out) < p.Limit
	}

	switch {
	case p.Date.Kind == DateExact:
		if !ds.HasDate(p.Date.Day) {
			return nil, &NotFoundError{Date: p.Date.Day, Weather: p.Weather}
		}
		for _, i := range ds.byDate[p.Date.Day] {
			if !collect(ds.records[i]) {
				break
			}
		}
		if len(out) == 0 {
			return nil, &NotFoundError{Date: p.Date.Day, Weather: p.Weather}
		}

	case p.Date.Kind == DateRange && ds.sorted:
		start := 0
		if p.Date.Lower != nil {
			start = sort.Search(len(ds.records), func(i int) bool {
				return p.Date.aboveLower(ds.records[i].Date)
			})
		}
		for i := start; i < len(ds.records); i++ {
			r := ds.records[i]
			if !p.Date.belowUpper(r.Date) {
				break
			}
			if !collect(r) {
				break
			}
		}

	default:
		for _, r := range ds.records {
			if !collect(r) {
				break
			}
		}
	}

	return out, nil
}
