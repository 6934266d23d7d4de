package sources

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"

	_ "modernc.org/sqlite"

	"github.com/i474232898/weather-query/internal/weather"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSource reads records from a table with the columns
// date, precipitation, temp_max, temp_min, wind, weather in rowid order.
type SQLiteSource struct {
	path   string
	table  string
	logger *slog.Logger
}

func NewSQLiteSource(path, table string, logger *slog.Logger) (*SQLiteSource, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid sqlite table name %q", table)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteSource{path: path, table: table, logger: logger}, nil
}

func (s *SQLiteSource) Name() string {
	return "sqlite:" + s.path + "#" + s.table
}

func (s *SQLiteSource) Load(ctx context.Context) ([]weather.Record, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			s.logger.Error("close sqlite", "error", err)
		}
	}()

	query := fmt.Sprintf(
		"SELECT date, precipitation, temp_max, temp_min, wind, weather FROM %s ORDER BY rowid",
		s.table,
	)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("close sqlite rows", "error", err)
		}
	}()

	var (
		records []weather.Record
		skipped int
	)
	for rows.Next() {
		var (
			date, cond                     sql.NullString
			precip, tempMax, tempMin, wind sql.NullFloat64
		)
		if err := rows.Scan(&date, &precip, &tempMax, &tempMin, &wind, &cond); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		if !date.Valid || !isDate(date.String) || !cond.Valid || cond.String == "" {
			skipped++
			continue
		}
		records = append(records, weather.Record{
			Date:          date.String,
			Precipitation: precip.Float64,
			TempMax:       tempMax.Float64,
			TempMin:       tempMin.Float64,
			Wind:          wind.Float64,
			Weather:       weather.Condition(cond.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.logger.Info("sqlite loaded", "table", s.table, "loaded", len(records), "skipped", skipped)
	return records, nil
}
