package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
	"github.com/Divaprk/DAaaS-Platform-G36/pkg/logger"
	"github.com/Divaprk/DAaaS-Platform-G36/pkg/metrics"
)

// ctxCheckEvery bounds how many rows are parsed between cancellation checks.
const ctxCheckEvery = 1024

// CSVSource reads the survey from a CSV file with a header row.
type CSVSource struct {
	path string
}

// NewCSVSource returns a source reading path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Name implements Source.
func (s *CSVSource) Name() string { return "csv" }

// Load implements Source.
func (s *CSVSource) Load(ctx context.Context) (model.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("%w: open %s: %w", ErrLoad, s.path, err)
	}
	defer f.Close()

	ds, skipped, err := ReadCSV(ctx, f)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("read %s: %w", s.path, err)
	}
	if skipped > 0 {
		metrics.RecordSnapshotSkippedRows(skipped)
		logger.Get().Warn(ctx, "skipped survey rows without a readable year",
			logger.String("path", s.path), logger.Int("skipped", skipped))
	}
	return ds, nil
}

// ReadCSV parses survey rows from r. Metric columns become numbers, other
// columns become keys. Blank and NA-like cells are missing. It returns the
// number of rows skipped for an unreadable year.
func ReadCSV(ctx context.Context, r io.Reader) (model.Dataset, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return model.Dataset{}, 0, fmt.Errorf("%w: empty file", ErrInvalidSource)
	}
	if err != nil {
		return model.Dataset{}, 0, fmt.Errorf("%w: header: %w", ErrInvalidSource, err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}
	yearIdx := -1
	for i, h := range header {
		if h == model.ColYear {
			yearIdx = i
			break
		}
	}
	if yearIdx < 0 {
		return model.Dataset{}, 0, fmt.Errorf("%w: no %q column", ErrInvalidSource, model.ColYear)
	}

	var (
		records []model.Record
		skipped int
	)
	for line := 1; ; line++ {
		if line%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return model.Dataset{}, 0, err
			}
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Dataset{}, 0, fmt.Errorf("%w: line %d: %w", ErrInvalidSource, line+1, err)
		}
		year, ok := parseYear(cell(row, yearIdx))
		if !ok {
			skipped++
			continue
		}
		rec := model.Record{Year: year, Keys: make(map[string]string), Metrics: make(map[string]float64)}
		for i, col := range header {
			if i == yearIdx || col == "" {
				continue
			}
			v := cell(row, i)
			if isMissing(v) {
				continue
			}
			if model.IsMetricColumn(col) {
				if f, ok := parseMetric(v); ok {
					rec.Metrics[col] = f
				}
				continue
			}
			rec.Keys[col] = v
		}
		records = append(records, rec)
	}
	return model.NewDataset(header, records), skipped, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isMissing(v string) bool {
	switch strings.ToLower(v) {
	case "", "na", "n/a", "nan", "null", "none", "-":
		return true
	}
	return false
}

func parseYear(v string) (int, bool) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func parseMetric(v string) (float64, bool) {
	v = strings.TrimSuffix(strings.ReplaceAll(v, ",", ""), "%")
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
