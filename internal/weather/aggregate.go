package weather

import "time"

// Summary describes a loaded dataset.
type Summary struct {
	Version   string            `json:"version"`
	Source    string            `json:"source"`
	LoadedAt  time.Time         `json:"loaded_at"`
	Records   int               `json:"records"`
	FirstDate string            `json:"first_date,omitempty"`
	LastDate  string            `json:"last_date,omitempty"`
	Sorted    bool              `json:"sorted"`
	Weather   map[Condition]int `json:"weather"`

	// Averages over all records.
	AvgTempMax  float64 `json:"avg_temp_max"`
	AvgTempMin  float64 `json:"avg_temp_min"`
	AvgWind     float64 `json:"avg_wind"`
	TotalPrecip float64 `json:"total_precipitation"`

	// Recent publications, oldest first. Filled by Service.Summary.
	Publications []Publication `json:"publications,omitempty"`
}

// Summarize computes date coverage, per-weather counts and simple averages.
func Summarize(ds *Dataset) Summary {
	s := Summary{
		Version:  ds.version,
		Source:   ds.source,
		LoadedAt: ds.loadedAt,
		Records:  len(ds.records),
		Sorted:   ds.sorted,
		Weather:  make(map[Condition]int),
	}
	if len(ds.records) == 0 {
		return s
	}

	var sumMax, sumMin, sumWind float64
	for _, r := range ds.records {
		if s.FirstDate == "" || r.Date < s.FirstDate {
			s.FirstDate = r.Date
		}
		if r.Date > s.LastDate {
			s.LastDate = r.Date
		}
		s.Weather[r.Weather]++

		sumMax += r.TempMax
		sumMin += r.TempMin
		sumWind += r.Wind
		s.TotalPrecip += r.Precipitation
	}

	n := float64(len(ds.records))
	s.AvgTempMax = sumMax / n
	s.AvgTempMin = sumMin / n
	s.AvgWind = sumWind / n
	return s
}
