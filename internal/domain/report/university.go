package report

import (
	"math"
	"sort"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/engine"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/types"
)

// UniversityParams tunes the university comparison.
type UniversityParams struct {
	// Categories restricts the category breakdown. When empty the
	// TopCategories best paid categories are used.
	Categories      []string
	TopCategories   int
	MinUniversities int
}

// DefaultUniversityParams returns the defaults: top 8 categories, each
// offered by at least 2 universities.
func DefaultUniversityParams() UniversityParams {
	return UniversityParams{TopCategories: 8, MinUniversities: 2}
}

// EmploymentYear is a university's mean employment rate in one year.
type EmploymentYear struct {
	Year           int     `json:"year"`
	University     string  `json:"university"`
	EmploymentRate float64 `json:"employment_rate"`
	SampleSize     int     `json:"sample_size"`
}

// SalaryYear is a university's mean gross salary in one year.
type SalaryYear struct {
	Year       int     `json:"year"`
	University string  `json:"university"`
	AvgSalary  float64 `json:"avg_salary"`
	SampleSize int     `json:"sample_size"`
}

// UniversitySummary summarises one metric for a university over all years.
type UniversitySummary struct {
	University   string  `json:"university"`
	Average      float64 `json:"average"`
	StdDev       float64 `json:"std_dev"`
	TotalSamples int     `json:"total_samples"`
}

// CategorySalary is a university's mean gross salary in one category.
type CategorySalary struct {
	University string  `json:"university"`
	Category   string  `json:"category"`
	AvgSalary  float64 `json:"avg_salary"`
	SampleSize int     `json:"sample_size"`
}

// GrowthRow is the year-over-year salary change of a university. The first
// year of each university is 0.
type GrowthRow struct {
	Year       int         `json:"year"`
	University string      `json:"university"`
	Salary     float64     `json:"salary"`
	GrowthRate types.Value `json:"growth_rate"`
	SampleSize int         `json:"sample_size"`
}

// UniversityMeta holds diagnostics of a university comparison run.
type UniversityMeta struct {
	RunID         string   `json:"run_id"`
	RowsUsed      int      `json:"rows_used"`
	Years         YearSpan `json:"years"`
	Universities  []string `json:"universities"`
	Categories    []string `json:"categories"`
	TopCategories int      `json:"top_categories"`
}

// UniversityResult is the outcome of UniversityComparison.
type UniversityResult struct {
	Employment        []EmploymentYear              `json:"employment"`
	EmploymentSummary []UniversitySummary           `json:"employment_summary"`
	Salary            []SalaryYear                  `json:"salary"`
	SalarySummary     []UniversitySummary           `json:"salary_summary"`
	CategorySalary    []CategorySalary              `json:"category_salary"`
	CategoryPivot     map[string]map[string]float64 `json:"category_pivot"`
	Growth            []GrowthRow                   `json:"growth"`
	Meta              UniversityMeta                `json:"meta"`
}

// UniversityComparison compares universities by employment, salary, salary
// per field and salary growth.
func UniversityComparison(ds model.Dataset, p UniversityParams) (UniversityResult, error) {
	def := DefaultUniversityParams()
	if p.TopCategories <= 0 {
		p.TopCategories = def.TopCategories
	}
	if p.MinUniversities <= 0 {
		p.MinUniversities = def.MinUniversities
	}
	required := []string{model.ColYear, model.ColUniversity, model.ColCategory, model.ColEmploymentRate, model.ColGrossMonthlyMean}
	if err := engine.RequireColumns(ds, required...); err != nil {
		return UniversityResult{}, err
	}

	byUniYear := func(metric string) ([]engine.AggregateGroup, error) {
		r, err := engine.Aggregate(ds, engine.AggregateQuery{GroupBy: []string{model.ColUniversity}, Metric: metric, ByYear: true})
		return r.Groups, err
	}
	summarise := func(metric string) ([]UniversitySummary, error) {
		r, err := engine.Aggregate(ds, engine.AggregateQuery{GroupBy: []string{model.ColUniversity}, Metric: metric})
		if err != nil {
			return nil, err
		}
		out := make([]UniversitySummary, len(r.Groups))
		for i, g := range r.Groups {
			out[i] = UniversitySummary{University: g.Key.String(), Average: g.Mean, StdDev: g.Std, TotalSamples: g.Count}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Average > out[j].Average })
		return out, nil
	}

	var res UniversityResult
	empGroups, err := byUniYear(model.ColEmploymentRate)
	if err != nil {
		return UniversityResult{}, err
	}
	res.Employment = make([]EmploymentYear, len(empGroups))
	for i, g := range empGroups {
		res.Employment[i] = EmploymentYear{Year: g.Period, University: g.Key.String(), EmploymentRate: g.Mean, SampleSize: g.Count}
	}
	if res.EmploymentSummary, err = summarise(model.ColEmploymentRate); err != nil {
		return UniversityResult{}, err
	}

	salGroups, err := byUniYear(model.ColGrossMonthlyMean)
	if err != nil {
		return UniversityResult{}, err
	}
	res.Salary = make([]SalaryYear, len(salGroups))
	for i, g := range salGroups {
		res.Salary[i] = SalaryYear{Year: g.Period, University: g.Key.String(), AvgSalary: g.Mean, SampleSize: g.Count}
	}
	if res.SalarySummary, err = summarise(model.ColGrossMonthlyMean); err != nil {
		return UniversityResult{}, err
	}

	if res.CategorySalary, err = categorySalary(ds, p); err != nil {
		return UniversityResult{}, err
	}
	res.CategoryPivot = make(map[string]map[string]float64)
	for _, c := range res.CategorySalary {
		if res.CategoryPivot[c.Category] == nil {
			res.CategoryPivot[c.Category] = make(map[string]float64)
		}
		res.CategoryPivot[c.Category][c.University] = math.Round(c.AvgSalary)
	}

	res.Growth = growth(res.Salary)

	used := complete(ds, []string{model.ColUniversity}, nil)
	categories := make([]string, 0, len(res.CategoryPivot))
	for c := range res.CategoryPivot {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	res.Meta = UniversityMeta{
		RunID:         newRunID(),
		RowsUsed:      used.Len(),
		Years:         yearSpan(used),
		Universities:  used.Distinct(model.ColUniversity),
		Categories:    categories,
		TopCategories: p.TopCategories,
	}
	return res, nil
}

func categorySalary(ds model.Dataset, p UniversityParams) ([]CategorySalary, error) {
	r, err := engine.Aggregate(ds, engine.AggregateQuery{
		GroupBy: []string{model.ColUniversity, model.ColCategory},
		Metric:  model.ColGrossMonthlyMean,
	})
	if err != nil {
		return nil, err
	}

	selected := make(map[string]bool)
	if len(p.Categories) > 0 {
		for _, c := range p.Categories {
			selected[c] = true
		}
	} else {
		overall, err := engine.Aggregate(ds, engine.AggregateQuery{
			GroupBy: []string{model.ColCategory},
			Metric:  model.ColGrossMonthlyMean,
		})
		if err != nil {
			return nil, err
		}
		means := make([]engine.Scored, len(overall.Groups))
		for i, g := range overall.Groups {
			means[i] = engine.Scored{Key: g.Key, Value: g.Mean}
		}
		for _, s := range engine.Largest(means, p.TopCategories) {
			selected[s.Key.String()] = true
		}
	}

	offeredBy := make(map[string]int)
	for _, g := range r.Groups {
		if selected[g.Key[1]] {
			offeredBy[g.Key[1]]++
		}
	}
	out := make([]CategorySalary, 0, len(r.Groups))
	for _, g := range r.Groups {
		cat := g.Key[1]
		if !selected[cat] || offeredBy[cat] < p.MinUniversities {
			continue
		}
		out = append(out, CategorySalary{University: g.Key[0], Category: cat, AvgSalary: g.Mean, SampleSize: g.Count})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].University < out[j].University
	})
	return out, nil
}

// growth expects rows ordered by year, as Aggregate returns them.
func growth(salary []SalaryYear) []GrowthRow {
	byUni := make(map[string][]SalaryYear)
	var order []string
	for _, s := range salary {
		if _, ok := byUni[s.University]; !ok {
			order = append(order, s.University)
		}
		byUni[s.University] = append(byUni[s.University], s)
	}
	sort.Strings(order)

	out := make([]GrowthRow, 0, len(salary))
	for _, u := range order {
		rows := byUni[u]
		for i, s := range rows {
			g := GrowthRow{Year: s.Year, University: u, Salary: s.AvgSalary, SampleSize: s.SampleSize, GrowthRate: types.Defined(0)}
			if i > 0 {
				prev := rows[i-1].AvgSalary
				if prev == 0 {
					g.GrowthRate = types.Undefined(types.ReasonZeroBaseline)
				} else {
					g.GrowthRate = types.Defined((s.AvgSalary - prev) / prev * 100)
				}
			}
			out = append(out, g)
		}
	}
	return out
}
