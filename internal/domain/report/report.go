// Package report composes the engine into the three survey analyses:
// employment vs salary tradeoff, relative performance index and university
// comparison. Each analysis takes an already filtered dataset and returns a
// named result with stable JSON field names.
package report

import (
	"github.com/google/uuid"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
)

// YearSpan is the year range of the records an analysis used. Both ends are
// null when no record was used.
type YearSpan struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

func yearSpan(ds model.Dataset) YearSpan {
	lo, hi, ok := ds.YearRange()
	if !ok {
		return YearSpan{}
	}
	return YearSpan{Min: &lo, Max: &hi}
}

// complete keeps records carrying every listed key and metric.
func complete(ds model.Dataset, keys, metrics []string) model.Dataset {
	return ds.Where(func(r model.Record) bool {
		for _, k := range keys {
			if _, ok := r.Key(k); !ok {
				return false
			}
		}
		for _, m := range metrics {
			if _, ok := r.Metric(m); !ok {
				return false
			}
		}
		return true
	})
}

func newRunID() string { return uuid.NewString() }
