package sources

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weather-query/internal/weather"
)

// Column names understood in a CSV header.
const (
	colDate          = "date"
	colPrecipitation = "precipitation"
	colTempMax       = "temp_max"
	colTempMin       = "temp_min"
	colWind          = "wind"
	colWeather       = "weather"
)

// defaultColumns is the column order assumed for files without a header.
var defaultColumns = []string{colDate, colPrecipitation, colTempMax, colTempMin, colWind, colWeather}

// DecodeStats counts rows seen while decoding.
type DecodeStats struct {
	Rows    int
	Loaded  int
	Skipped int
}

// DecodeCSV reads weather records in file order. The first row is treated as
// a header unless its first cell is already a date, in which case the
// defaultColumns order is assumed. Rows with an invalid date, an empty weather
// value or an unparsable number are skipped and logged.
func DecodeCSV(r io.Reader, logger *slog.Logger) ([]weather.Record, DecodeStats, error) {
	if logger == nil {
		logger = slog.Default()
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		stats   DecodeStats
		records []weather.Record
		cols    map[string]int
	)

	for line := 1; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read csv: %w", err)
		}

		if cols == nil {
			if len(row) > 0 {
				row[0] = strings.TrimPrefix(row[0], "\ufeff")
			}
			if isDate(firstCell(row)) {
				cols = columnIndex(defaultColumns)
			} else {
				cols = columnIndex(row)
				if err := requireColumns(cols, colDate, colWeather); err != nil {
					return nil, stats, err
				}
				continue
			}
		}

		stats.Rows++
		rec, err := decodeRow(row, cols)
		if err != nil {
			stats.Skipped++
			logger.Debug("skipping invalid csv row", "line", line, "error", err)
			continue
		}
		records = append(records, rec)
		stats.Loaded++
	}

	logger.Info("csv decoded", "rows", stats.Rows, "loaded", stats.Loaded, "skipped", stats.Skipped)
	return records, stats, nil
}

func decodeRow(row []string, cols map[string]int) (weather.Record, error) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := weather.Record{
		Date:    cell(colDate),
		Weather: weather.Condition(cell(colWeather)),
	}
	if !isDate(rec.Date) {
		return rec, fmt.Errorf("invalid date %q", rec.Date)
	}
	if rec.Weather == "" {
		return rec, errors.New("missing weather")
	}

	numeric := []struct {
		name string
		dst  *float64
	}{
		{colPrecipitation, &rec.Precipitation},
		{colTempMax, &rec.TempMax},
		{colTempMin, &rec.TempMin},
		{colWind, &rec.Wind},
	}
	for _, n := range numeric {
		v := cell(n.name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return rec, fmt.Errorf("invalid %s column: %w", n.name, err)
		}
		*n.dst = f
	}
	return rec, nil
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	return idx
}

func requireColumns(cols map[string]int, names ...string) error {
	for _, name := range names {
		if _, ok := cols[name]; !ok {
			return fmt.Errorf("csv header missing column %q", name)
		}
	}
	return nil
}

func firstCell(row []string) string {
	if len(row) == 0 {
		return ""
	}
	return strings.TrimSpace(row[0])
}

func isDate(s string) bool {
	_, err := time.Parse(weather.DateLayout, s)
	return err == nil
}
