package report_test

import (
	"math"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
)

var na = math.NaN()

type row struct {
	year       int
	university string
	course     string
	category   string
	employment float64
	grossMed   float64
	grossMean  float64
}

func dataset(rows ...row) model.Dataset {
	records := make([]model.Record, len(rows))
	for i, r := range rows {
		metrics := map[string]float64{}
		for col, v := range map[string]float64{
			model.ColEmploymentRate:   r.employment,
			model.ColGrossMonthlyMed:  r.grossMed,
			model.ColGrossMonthlyMean: r.grossMean,
		} {
			if !math.IsNaN(v) {
				metrics[col] = v
			}
		}
		records[i] = model.Record{
			Year: r.year,
			Keys: map[string]string{
				model.ColUniversity: r.university,
				model.ColCourse:     r.course,
				model.ColCategory:   r.category,
			},
			Metrics: metrics,
		}
	}
	return model.NewDataset([]string{
		model.ColUniversity, model.ColCourse, model.ColCategory,
		model.ColEmploymentRate, model.ColGrossMonthlyMed, model.ColGrossMonthlyMean,
	}, records)
}
