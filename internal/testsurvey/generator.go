// Package testsurvey generates synthetic graduate employment surveys for
// demos, benchmarks and end-to-end tests.
package testsurvey

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
)

// Config shapes a synthetic survey. MissingRate is the probability that a
// metric cell is left blank.
type Config struct {
	Seed         uint64
	FirstYear    int
	LastYear     int
	Universities int
	MissingRate  float64
}

// DefaultConfig mirrors the size of the published survey.
func DefaultConfig() Config {
	return Config{Seed: 1, FirstYear: 2013, LastYear: 2022, Universities: 6, MissingRate: 0.02}
}

type course struct {
	school, degree, name, category string
	salary, employment             float64
}

// catalogue lists the courses every synthetic university may offer, with a
// base median salary and employment rate.
var catalogue = []course{ //nolint:gochecknoglobals // read-only fixture table
	{"Law", "Bachelor of Laws", "Law", "Law", 5200, 93},
	{"Computing", "Bachelor of Computing", "Computer Science", "Information Technology", 5000, 94},
	{"Computing", "Bachelor of Computing", "Information Systems", "Information Technology", 4400, 91},
	{"Engineering", "Bachelor of Engineering", "Mechanical Engineering", "Engineering", 3900, 88},
	{"Engineering", "Bachelor of Engineering", "Civil Engineering", "Engineering", 3700, 87},
	{"Business", "Bachelor of Business Administration", "Business Administration", "Business", 3800, 89},
	{"Business", "Bachelor of Accountancy", "Accountancy", "Business", 3600, 92},
	{"Medicine", "Bachelor of Medicine", "Medicine", "Health Sciences", 5500, 99},
	{"Nursing", "Bachelor of Science (Nursing)", "Nursing", "Health Sciences", 3500, 97},
	{"Arts", "Bachelor of Arts", "History", "Arts & Social Sciences", 3300, 82},
	{"Arts", "Bachelor of Social Sciences", "Psychology", "Arts & Social Sciences", 3400, 84},
	{"Design", "Bachelor of Arts (Design)", "Industrial Design", "Design & Arts", 3200, 80},
}

// Generate builds a deterministic dataset for cfg. Each university offers a
// seeded subset of the catalogue; salaries drift upward over the years with
// per-university and per-course noise.
func Generate(cfg Config) model.Dataset {
	if cfg.LastYear < cfg.FirstYear {
		cfg.FirstYear, cfg.LastYear = cfg.LastYear, cfg.FirstYear
	}
	if cfg.Universities <= 0 {
		cfg.Universities = 1
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	var records []model.Record
	for u := 0; u < cfg.Universities; u++ {
		uni := universityName(u)
		premium := 1 + (rng.Float64()-0.5)*0.2
		for _, c := range catalogue {
			if rng.Float64() < 0.25 {
				continue
			}
			trend := 0.02 + rng.Float64()*0.03
			for year := cfg.FirstYear; year <= cfg.LastYear; year++ {
				step := float64(year - cfg.FirstYear)
				median := c.salary * premium * math.Pow(1+trend, step) * (1 + rng.NormFloat64()*0.03)
				employment := math.Min(100, c.employment+rng.NormFloat64()*2)
				records = append(records, record(rng, cfg.MissingRate, year, uni, c, median, employment))
			}
		}
	}
	cols := append(append([]string{model.ColYear}, model.KeyColumns...), model.MetricColumns...)
	return model.NewDataset(cols, records)
}

func record(rng *rand.Rand, missing float64, year int, uni string, c course, median, employment float64) model.Record {
	values := map[string]float64{
		model.ColEmploymentRate:   math.Round(employment*10) / 10,
		model.ColEmploymentFTPerm: math.Round((employment-4-rng.Float64()*6)*10) / 10,
		model.ColBasicMonthlyMean: math.Round(median * 0.95),
		model.ColBasicMonthlyMed:  math.Round(median * 0.93),
		model.ColGrossMonthlyMean: math.Round(median * 1.04),
		model.ColGrossMonthlyMed:  math.Round(median),
		model.ColGrossMonthlyP25:  math.Round(median * 0.85),
		model.ColGrossMonthlyP75:  math.Round(median * 1.18),
	}
	metrics := make(map[string]float64, len(values))
	for _, col := range model.MetricColumns {
		if rng.Float64() >= missing {
			metrics[col] = values[col]
		}
	}
	return model.Record{
		Year: year,
		Keys: map[string]string{
			model.ColUniversity: uni,
			model.ColSchool:     c.school,
			model.ColDegree:     c.degree,
			model.ColCourse:     c.name,
			model.ColCategory:   c.category,
		},
		Metrics: metrics,
	}
}

func universityName(i int) string {
	return fmt.Sprintf("University %c", 'A'+rune(i%26))
}
