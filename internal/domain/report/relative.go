package report

import (
	"sort"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/engine"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/types"
)

// RelativeParams tunes the relative performance index. Settings supplies
// MinSampleSize, WeightMode, StdFloor, TopK, MinPeriodsPresent (minimum
// years for focus selection) and Focus.
type RelativeParams struct {
	Settings     engine.Settings
	SalaryColumn string
	GroupBy      []string
	// SlopeLimit caps the slope list; zero keeps every slope.
	SlopeLimit int
}

// DefaultRelativeParams returns the defaults: median gross salary per course,
// unweighted baselines, top 10 courses seen in at least 6 years.
func DefaultRelativeParams() RelativeParams {
	s := engine.DefaultSettings()
	s.MinSampleSize = 1
	s.TopK = 10
	s.MinPeriodsPresent = 6
	return RelativeParams{
		Settings:     s,
		SalaryColumn: model.ColGrossMonthlyMed,
		GroupBy:      []string{model.ColCourse},
		SlopeLimit:   30,
	}
}

// PerformanceRow is one group in one year.
type PerformanceRow struct {
	Group      string            `json:"group"`
	Keys       map[string]string `json:"keys"`
	Year       int               `json:"year"`
	Category   string            `json:"course_category,omitempty"`
	MeanSalary float64           `json:"mean_salary"`
	SampleSize int               `json:"sample_size"`
	YearMean   float64           `json:"year_mean"`
	YearStd    float64           `json:"year_std"`
	NGroups    int               `json:"n_groups"`
	ZScore     float64           `json:"z_score"`
	StdFloored bool              `json:"std_floored"`
	Rank       int               `json:"rank"`
	Percentile float64           `json:"percentile"`
}

// BumpRow is a focus group's standing in one year.
type BumpRow struct {
	Group      string  `json:"group"`
	Year       int     `json:"year"`
	Rank       int     `json:"rank"`
	ZScore     float64 `json:"z_score"`
	MeanSalary float64 `json:"mean_salary"`
	SampleSize int     `json:"sample_size"`
}

// SlopeRow is the trend of a group's z-score over the years.
type SlopeRow struct {
	Group string      `json:"group"`
	Slope float64     `json:"z_score_slope_per_year"`
	Years int         `json:"years"`
	R2    types.Value `json:"r2"`
}

// RelativeMeta holds diagnostics of a relative performance run.
type RelativeMeta struct {
	RunID         string            `json:"run_id"`
	RowsUsed      int               `json:"rows_used"`
	GroupsUsed    int               `json:"groups_used"`
	Years         YearSpan          `json:"years"`
	SalaryColumn  string            `json:"salary_column"`
	GroupBy       []string          `json:"group_by"`
	MinSampleSize int               `json:"min_sample_size"`
	WeightMode    engine.WeightMode `json:"weight_mode"`
	StdFloor      float64           `json:"std_floor"`
	FocusCourses  []string          `json:"focus_courses"`
	TopK          int               `json:"top_k"`
	MinYears      int               `json:"min_years"`
	Dropped       map[string]int    `json:"dropped"`
}

// RelativeResult is the outcome of RelativePerformance.
type RelativeResult struct {
	Table     []PerformanceRow        `json:"table"`
	YearStats []engine.PeriodBaseline `json:"year_stats"`
	BumpData  []BumpRow               `json:"bump_data"`
	Slopes    []SlopeRow              `json:"slopes"`
	Meta      RelativeMeta            `json:"meta"`
}

// RelativePerformance compares each group's salary with the other groups of
// the same year, removing year-to-year shifts, and follows the resulting
// standing over time.
func RelativePerformance(ds model.Dataset, p RelativeParams) (RelativeResult, error) {
	def := DefaultRelativeParams()
	p.Settings = p.Settings.WithFallback(def.Settings)
	if p.SalaryColumn == "" {
		p.SalaryColumn = def.SalaryColumn
	}
	if len(p.GroupBy) == 0 {
		p.GroupBy = def.GroupBy
	}
	if err := engine.RequireColumns(ds, append([]string{model.ColYear, p.SalaryColumn}, p.GroupBy...)...); err != nil {
		return RelativeResult{}, err
	}

	q := engine.AggregateQuery{
		GroupBy:  p.GroupBy,
		Metric:   p.SalaryColumn,
		ByYear:   true,
		MinCount: p.Settings.MinSampleSize,
	}
	for _, g := range p.GroupBy {
		if g == model.ColCourse {
			q.Attach = []string{model.ColCategory}
		}
	}
	agg, err := engine.Aggregate(ds, q)
	if err != nil {
		return RelativeResult{}, err
	}

	baselines := engine.ComputeBaselines(agg.Groups, p.Settings.WeightMode)
	scores := engine.RankPeriods(engine.Normalize(agg.Groups, baselines, p.Settings.StdFloor))

	res := RelativeResult{
		Table:     make([]PerformanceRow, len(scores)),
		YearStats: baselines,
	}
	for i, s := range scores {
		keys := make(map[string]string, len(p.GroupBy))
		for j, col := range p.GroupBy {
			keys[col] = s.Key[j]
		}
		res.Table[i] = PerformanceRow{
			Group:      s.Key.String(),
			Keys:       keys,
			Year:       s.Period,
			Category:   s.Attributes[model.ColCategory],
			MeanSalary: s.Mean,
			SampleSize: s.Count,
			YearMean:   s.BaselineMean,
			YearStd:    s.BaselineStd,
			NGroups:    s.GroupCount,
			ZScore:     s.ZScore,
			StdFloored: s.Floored,
			Rank:       s.Rank,
			Percentile: s.Percentile,
		}
	}

	focus := engine.SelectFocusGroups(scores, p.Settings.TopK, p.Settings.MinPeriodsPresent, p.Settings.Focus)
	res.BumpData = bumpData(res.Table, focus)
	res.Slopes = slopes(res.Table, p.SlopeLimit)

	span := YearSpan{}
	if len(baselines) > 0 {
		lo, hi := baselines[0].Period, baselines[len(baselines)-1].Period
		span = YearSpan{Min: &lo, Max: &hi}
	}
	res.Meta = RelativeMeta{
		RunID:         newRunID(),
		RowsUsed:      agg.RowsUsed,
		GroupsUsed:    len(res.Table),
		Years:         span,
		SalaryColumn:  p.SalaryColumn,
		GroupBy:       p.GroupBy,
		MinSampleSize: p.Settings.MinSampleSize,
		WeightMode:    p.Settings.WeightMode,
		StdFloor:      p.Settings.StdFloor,
		FocusCourses:  p.Settings.Focus,
		TopK:          p.Settings.TopK,
		MinYears:      p.Settings.MinPeriodsPresent,
		Dropped:       agg.Dropped,
	}
	return res, nil
}

func bumpData(table []PerformanceRow, focus []string) []BumpRow {
	keep := make(map[string]bool, len(focus))
	for _, f := range focus {
		keep[f] = true
	}
	out := make([]BumpRow, 0)
	for _, r := range table {
		if !keep[r.Group] {
			continue
		}
		out = append(out, BumpRow{
			Group:      r.Group,
			Year:       r.Year,
			Rank:       r.Rank,
			ZScore:     r.ZScore,
			MeanSalary: r.MeanSalary,
			SampleSize: r.SampleSize,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].Group < out[j].Group
	})
	return out
}

func slopes(table []PerformanceRow, limit int) []SlopeRow {
	type series struct{ years, z []float64 }
	byGroup := make(map[string]*series)
	var order []string
	for _, r := range table {
		s, ok := byGroup[r.Group]
		if !ok {
			s = &series{}
			byGroup[r.Group] = s
			order = append(order, r.Group)
		}
		s.years = append(s.years, float64(r.Year))
		s.z = append(s.z, r.ZScore)
	}

	out := make([]SlopeRow, 0, len(order))
	for _, g := range order {
		s := byGroup[g]
		fit, ok := engine.LinearFit(s.years, s.z)
		if !ok {
			continue
		}
		out = append(out, SlopeRow{Group: g, Slope: fit.Slope, Years: fit.N, R2: fit.R2})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Slope != out[j].Slope {
			return out[i].Slope > out[j].Slope
		}
		return out[i].Group < out[j].Group
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
