package testsurvey

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
)

// WriteCSV writes ds with a header row in the survey's column order.
// Missing cells are written as "na".
func WriteCSV(w io.Writer, ds model.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	records := append([]model.Record(nil), ds.Records...)
	sort.SliceStable(records, func(i, j int) bool { return records[i].Year < records[j].Year })

	row := make([]string, len(ds.Columns))
	for _, r := range records {
		for i, col := range ds.Columns {
			switch {
			case col == model.ColYear:
				row[i] = strconv.Itoa(r.Year)
			case model.IsMetricColumn(col):
				row[i] = "na"
				if v, ok := r.Metric(col); ok {
					row[i] = strconv.FormatFloat(v, 'f', -1, 64)
				}
			default:
				row[i], _ = r.Key(col)
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
