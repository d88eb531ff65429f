// Package model contains domain models passed between layers.
package model

import (
	"math"
	"sort"
	"strings"
)

// Column names of the graduate employment survey.
const (
	ColYear             = "year"
	ColUniversity       = "university"
	ColSchool           = "school"
	ColDegree           = "degree"
	ColCourse           = "course"
	ColCategory         = "course_category"
	ColEmploymentRate   = "employment_rate_overall"
	ColEmploymentFTPerm = "employment_rate_ft_perm"
	ColBasicMonthlyMean = "basic_monthly_mean"
	ColBasicMonthlyMed  = "basic_monthly_median"
	ColGrossMonthlyMean = "gross_monthly_mean"
	ColGrossMonthlyMed  = "gross_monthly_median"
	ColGrossMonthlyP25  = "gross_mthly_25_percentile"
	ColGrossMonthlyP75  = "gross_mthly_75_percentile"
)

// KeyColumns are the string-valued survey columns.
var KeyColumns = []string{ColUniversity, ColSchool, ColDegree, ColCourse, ColCategory} //nolint:gochecknoglobals // read-only column list

// MetricColumns are the numeric survey columns.
var MetricColumns = []string{ //nolint:gochecknoglobals // read-only column list
	ColEmploymentRate, ColEmploymentFTPerm,
	ColBasicMonthlyMean, ColBasicMonthlyMed,
	ColGrossMonthlyMean, ColGrossMonthlyMed,
	ColGrossMonthlyP25, ColGrossMonthlyP75,
}

// IsMetricColumn reports whether name is a numeric survey column.
func IsMetricColumn(name string) bool {
	for _, c := range MetricColumns {
		if c == name {
			return true
		}
	}
	return false
}

// Record is one course/university/year observation.
// A metric absent from Metrics is missing; so is an empty key.
type Record struct {
	Year    int
	Keys    map[string]string
	Metrics map[string]float64
}

// Key returns the trimmed key value and whether it is present.
func (r Record) Key(name string) (string, bool) {
	if name == ColYear {
		return "", false
	}
	v := strings.TrimSpace(r.Keys[name])
	return v, v != ""
}

// Metric returns the metric value and whether it is present.
func (r Record) Metric(name string) (float64, bool) {
	v, ok := r.Metrics[name]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Dataset is an immutable snapshot of survey records together with the
// column schema they were read with.
type Dataset struct {
	Columns []string
	Records []Record
}

// NewDataset builds a Dataset, always including the year column in the schema.
func NewDataset(columns []string, records []Record) Dataset {
	seen := map[string]bool{ColYear: true}
	cols := []string{ColYear}
	for _, c := range columns {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		cols = append(cols, c)
	}
	return Dataset{Columns: cols, Records: records}
}

// HasColumn reports whether the schema contains name.
func (d Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// MissingColumns returns every requested column absent from the schema,
// in request order and without duplicates.
func (d Dataset) MissingColumns(names ...string) []string {
	var missing []string
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		if !d.HasColumn(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// Len returns the number of records.
func (d Dataset) Len() int { return len(d.Records) }

// Where returns a new Dataset holding the records keep accepts.
func (d Dataset) Where(keep func(Record) bool) Dataset {
	out := make([]Record, 0, len(d.Records))
	for _, r := range d.Records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return Dataset{Columns: d.Columns, Records: out}
}

// YearRange returns the smallest and largest year, ok=false when empty.
func (d Dataset) YearRange() (minYear, maxYear int, ok bool) {
	for i, r := range d.Records {
		if i == 0 || r.Year < minYear {
			minYear = r.Year
		}
		if i == 0 || r.Year > maxYear {
			maxYear = r.Year
		}
	}
	return minYear, maxYear, len(d.Records) > 0
}

// Distinct returns the sorted distinct non-empty values of a key column.
func (d Dataset) Distinct(name string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range d.Records {
		if v, ok := r.Key(name); ok && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// Years returns the sorted distinct years.
func (d Dataset) Years() []int {
	seen := make(map[int]bool)
	var out []int
	for _, r := range d.Records {
		if !seen[r.Year] {
			seen[r.Year] = true
			out = append(out, r.Year)
		}
	}
	sort.Ints(out)
	return out
}
