package report

import (
	"sort"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/engine"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/types"
)

// Axis names used in tradeoff quadrant labels.
const (
	SalaryAxis     = "Salary"
	EmploymentAxis = "Employment"
)

// TradeoffParams tunes the tradeoff analysis. Settings.MinSampleSize and
// Settings.TopN are the fields it reads.
type TradeoffParams struct {
	Settings  engine.Settings
	Trendline bool
}

// DefaultTradeoffParams returns the defaults: at least 20 records per
// category, top 5 rankings and a trendline.
func DefaultTradeoffParams() TradeoffParams {
	s := engine.DefaultSettings()
	s.MinSampleSize = 20
	s.TopN = 5
	return TradeoffParams{Settings: s, Trendline: true}
}

// CategorySummary is one course category on the employment/salary plane.
type CategorySummary struct {
	Category          string       `json:"course_category"`
	AvgEmploymentRate float64      `json:"avg_employment_rate"`
	AvgMedianSalary   float64      `json:"avg_median_salary"`
	EmploymentRateStd float64      `json:"employment_rate_std"`
	MedianSalaryStd   float64      `json:"median_salary_std"`
	SampleSize        int          `json:"sample_size"`
	SalaryLevel       engine.Level `json:"salary_level"`
	EmploymentLevel   engine.Level `json:"employment_level"`
	Quadrant          string       `json:"quadrant"`
	SalaryResidual    types.Value  `json:"salary_residual"`
}

// QuadrantRow is the quadrant label of one category.
type QuadrantRow struct {
	Category string `json:"course_category"`
	Quadrant string `json:"quadrant"`
}

// TradeoffRankings lists the leading categories each way.
type TradeoffRankings struct {
	TopSalary        []CategorySummary `json:"top_salary"`
	TopEmployment    []CategorySummary `json:"top_employment"`
	PositiveTradeoff []CategorySummary `json:"positive_tradeoff"`
	NegativeTradeoff []CategorySummary `json:"negative_tradeoff"`
}

// ChartConfig carries axis labels for whoever renders the result.
type ChartConfig struct {
	XLabel    string `json:"x_label"`
	YLabel    string `json:"y_label"`
	SizeLabel string `json:"size_label"`
	HueLabel  string `json:"hue_label"`
}

// TradeoffMeta holds diagnostics of a tradeoff run.
type TradeoffMeta struct {
	RunID              string         `json:"run_id"`
	RowsUsed           int            `json:"rows_used"`
	Years              YearSpan       `json:"years"`
	MissingBeforeDrop  map[string]int `json:"missing_before_dropna"`
	CategoriesIncluded []string       `json:"categories_included"`
	MinSampleSize      int            `json:"min_sample_size"`
	TopN               int            `json:"top_n"`
}

// TradeoffResult is the outcome of Tradeoff.
type TradeoffResult struct {
	Summary             []CategorySummary `json:"summary"`
	Correlation         types.Value       `json:"correlation"`
	CorrelationWeighted types.Value       `json:"correlation_weighted"`
	Quadrants           []QuadrantRow     `json:"quadrants"`
	Rankings            TradeoffRankings  `json:"rankings"`
	Trendline           *engine.TrendFit  `json:"trendline"`
	Meta                TradeoffMeta      `json:"meta"`
	ChartConfig         ChartConfig       `json:"chart_config"`
}

// Tradeoff examines whether categories with higher employment rates also
// pay higher median salaries.
func Tradeoff(ds model.Dataset, p TradeoffParams) (TradeoffResult, error) {
	p.Settings = p.Settings.WithFallback(DefaultTradeoffParams().Settings)
	required := []string{model.ColEmploymentRate, model.ColGrossMonthlyMed, model.ColCategory, model.ColYear}
	if err := engine.RequireColumns(ds, required...); err != nil {
		return TradeoffResult{}, err
	}

	agg, err := engine.Aggregate(ds, engine.AggregateQuery{
		GroupBy:  []string{model.ColCategory},
		Metric:   model.ColGrossMonthlyMed,
		Extra:    []string{model.ColEmploymentRate},
		MinCount: p.Settings.MinSampleSize,
	})
	if err != nil {
		return TradeoffResult{}, err
	}

	missing := make(map[string]int, len(required))
	for _, c := range required {
		missing[c] = agg.Dropped[c]
	}
	used := complete(ds, []string{model.ColCategory}, []string{model.ColEmploymentRate, model.ColGrossMonthlyMed})

	noFit := types.Undefined(types.ReasonTooFewPoints)
	if len(agg.Groups) >= 2 {
		noFit = types.Undefined(types.ReasonZeroVariance)
	}
	summary := make([]CategorySummary, len(agg.Groups))
	for i, g := range agg.Groups {
		emp := g.Metrics[model.ColEmploymentRate]
		summary[i] = CategorySummary{
			Category:          g.Key.String(),
			AvgEmploymentRate: emp.Mean,
			AvgMedianSalary:   g.Mean,
			EmploymentRateStd: emp.Std,
			MedianSalaryStd:   g.Std,
			SampleSize:        g.Count,
			SalaryResidual:    noFit,
		}
	}
	sort.SliceStable(summary, func(i, j int) bool {
		if summary[i].AvgMedianSalary != summary[j].AvgMedianSalary {
			return summary[i].AvgMedianSalary > summary[j].AvgMedianSalary
		}
		return summary[i].Category < summary[j].Category
	})

	emp := make([]float64, len(summary))
	sal := make([]float64, len(summary))
	weights := make([]float64, len(summary))
	points := make([]engine.QuadrantPoint, len(summary))
	for i, s := range summary {
		emp[i], sal[i], weights[i] = s.AvgEmploymentRate, s.AvgMedianSalary, float64(s.SampleSize)
		points[i] = engine.QuadrantPoint{Key: engine.Key{s.Category}, A: s.AvgMedianSalary, B: s.AvgEmploymentRate}
	}

	res := TradeoffResult{
		Summary:             summary,
		Correlation:         engine.Pearson(emp, sal),
		CorrelationWeighted: engine.WeightedPearson(emp, sal, weights),
		Quadrants:           make([]QuadrantRow, 0, len(summary)),
	}
	for i, q := range engine.QuadrantLabels(points, SalaryAxis, EmploymentAxis) {
		summary[i].SalaryLevel, summary[i].EmploymentLevel, summary[i].Quadrant = q.LevelA, q.LevelB, q.Label
		res.Quadrants = append(res.Quadrants, QuadrantRow{Category: summary[i].Category, Quadrant: q.Label})
	}

	fit, fitted := engine.LinearFit(emp, sal)
	if fitted {
		for i := range summary {
			summary[i].SalaryResidual = types.Defined(fit.Residuals[i])
		}
		if p.Trendline {
			res.Trendline = &fit
		}
	}

	res.Rankings = tradeoffRankings(summary, fitted, p.Settings.TopN)

	categories := make([]string, len(summary))
	for i, s := range summary {
		categories[i] = s.Category
	}
	sort.Strings(categories)
	res.Meta = TradeoffMeta{
		RunID:              newRunID(),
		RowsUsed:           agg.RowsUsed,
		Years:              yearSpan(used),
		MissingBeforeDrop:  missing,
		CategoriesIncluded: categories,
		MinSampleSize:      p.Settings.MinSampleSize,
		TopN:               p.Settings.TopN,
	}
	res.ChartConfig = ChartConfig{
		XLabel:    "Average Employment Rate (%)",
		YLabel:    "Average Median Monthly Salary (SGD)",
		SizeLabel: "Sample Size",
		HueLabel:  "Quadrant",
	}
	return res, nil
}

func tradeoffRankings(summary []CategorySummary, fitted bool, topN int) TradeoffRankings {
	index := make(map[string]CategorySummary, len(summary))
	salary := make([]engine.Scored, len(summary))
	employment := make([]engine.Scored, len(summary))
	residuals := make([]engine.Scored, 0, len(summary))
	for i, s := range summary {
		key := engine.Key{s.Category}
		index[s.Category] = s
		salary[i] = engine.Scored{Key: key, Value: s.AvgMedianSalary}
		employment[i] = engine.Scored{Key: key, Value: s.AvgEmploymentRate}
		if r, ok := s.SalaryResidual.Float64(); ok {
			residuals = append(residuals, engine.Scored{Key: key, Value: r})
		}
	}
	lookup := func(items []engine.Scored) []CategorySummary {
		out := make([]CategorySummary, len(items))
		for i, it := range items {
			out[i] = index[it.Key.String()]
		}
		return out
	}

	r := TradeoffRankings{
		TopSalary:     lookup(engine.Largest(salary, topN)),
		TopEmployment: lookup(engine.Largest(employment, topN)),
	}
	if !fitted {
		r.PositiveTradeoff = append([]CategorySummary{}, summary...)
		r.NegativeTradeoff = append([]CategorySummary{}, summary...)
		return r
	}
	pos, neg := engine.TradeoffOutliers(residuals, topN)
	r.PositiveTradeoff, r.NegativeTradeoff = lookup(pos), lookup(neg)
	return r
}
