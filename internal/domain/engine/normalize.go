package engine

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// PeriodBaseline is the distribution of group means within one period.
type PeriodBaseline struct {
	Period     int        `json:"year"`
	Mean       float64    `json:"year_mean"`
	Std        float64    `json:"year_std"`
	GroupCount int        `json:"n_groups"`
	WeightMode WeightMode `json:"weight_mode"`
}

// NormalizedScore is a group's position relative to its period baseline.
type NormalizedScore struct {
	Key          Key               `json:"key"`
	Period       int               `json:"year"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	Count        int               `json:"n"`
	Mean         float64           `json:"mean_value"`
	BaselineMean float64           `json:"year_mean"`
	BaselineStd  float64           `json:"year_std"`
	GroupCount   int               `json:"n_groups"`
	ZScore       float64           `json:"rpi_z"`
	Floored      bool              `json:"std_floored"`
	Rank         int               `json:"rank_in_year"`
	Percentile   float64           `json:"percentile_in_year"`
}

// ComputeBaselines returns one baseline per period present in groups,
// ordered by period. With WeightSampleSize each group mean is weighted by
// its record count.
func ComputeBaselines(groups []AggregateGroup, mode WeightMode) []PeriodBaseline {
	byPeriod := make(map[int][]AggregateGroup)
	var periods []int
	for _, g := range groups {
		if _, ok := byPeriod[g.Period]; !ok {
			periods = append(periods, g.Period)
		}
		byPeriod[g.Period] = append(byPeriod[g.Period], g)
	}
	sort.Ints(periods)

	out := make([]PeriodBaseline, 0, len(periods))
	for _, p := range periods {
		members := byPeriod[p]
		means := make([]float64, len(members))
		counts := make([]float64, len(members))
		for i, g := range members {
			means[i] = g.Mean
			counts[i] = float64(g.Count)
		}
		b := PeriodBaseline{Period: p, GroupCount: len(members), WeightMode: mode}
		if mode == WeightSampleSize {
			b.Mean, b.Std = WeightedMeanStd(means, counts)
		} else {
			b.WeightMode = WeightNone
			b.Mean, _ = stats.Mean(means)
			if isConstant(means, nil) {
				b.Std = 0
			} else {
				b.Std, _ = stats.StandardDeviationPopulation(means)
			}
		}
		out = append(out, b)
	}
	return out
}

// Normalize scores every group against its period baseline. A baseline std
// below stdFloor counts as no spread and yields a z-score of zero. Groups
// whose period has no baseline are skipped. Rank and Percentile are left for
// RankPeriods.
func Normalize(groups []AggregateGroup, baselines []PeriodBaseline, stdFloor float64) []NormalizedScore {
	if !(stdFloor > 0) || math.IsInf(stdFloor, 0) {
		stdFloor = DefaultStdFloor
	}
	index := make(map[int]PeriodBaseline, len(baselines))
	for _, b := range baselines {
		index[b.Period] = b
	}
	out := make([]NormalizedScore, 0, len(groups))
	for _, g := range groups {
		b, ok := index[g.Period]
		if !ok {
			continue
		}
		s := NormalizedScore{
			Key:          append(Key(nil), g.Key...),
			Period:       g.Period,
			Attributes:   copyAttrs(g.Attributes),
			Count:        g.Count,
			Mean:         g.Mean,
			BaselineMean: b.Mean,
			BaselineStd:  b.Std,
			GroupCount:   b.GroupCount,
		}
		if b.Std < stdFloor {
			s.Floored = true
		} else {
			s.ZScore = (g.Mean - b.Mean) / b.Std
		}
		out = append(out, s)
	}
	return out
}

func copyAttrs(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
