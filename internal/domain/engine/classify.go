package engine

import (
	"sort"

	"github.com/montanaflynn/stats"
)

// Level is one side of a median split.
type Level string

// Median split levels.
const (
	High Level = "High"
	Low  Level = "Low"
)

// QuadrantPoint is a group positioned on two metrics.
type QuadrantPoint struct {
	Key Key
	A   float64
	B   float64
}

// Quadrant is the median-split label of one group.
type Quadrant struct {
	Key    Key    `json:"key"`
	LevelA Level  `json:"level_a"`
	LevelB Level  `json:"level_b"`
	Label  string `json:"quadrant"`
}

// QuadrantLabels splits points on the medians of A and B computed over the
// given set only. A value equal to the median is High. Labels read
// "<LevelA> <nameA> / <LevelB> <nameB>" and keep input order.
func QuadrantLabels(points []QuadrantPoint, nameA, nameB string) []Quadrant {
	if len(points) == 0 {
		return nil
	}
	as := make([]float64, len(points))
	bs := make([]float64, len(points))
	for i, p := range points {
		as[i], bs[i] = p.A, p.B
	}
	medA, _ := stats.Median(as)
	medB, _ := stats.Median(bs)

	out := make([]Quadrant, len(points))
	for i, p := range points {
		q := Quadrant{Key: p.Key, LevelA: levelOf(p.A, medA), LevelB: levelOf(p.B, medB)}
		q.Label = string(q.LevelA) + " " + nameA + " / " + string(q.LevelB) + " " + nameB
		out[i] = q
	}
	return out
}

func levelOf(v, median float64) Level {
	if v >= median {
		return High
	}
	return Low
}

// Scored pairs a group with one value, e.g. a trend residual.
type Scored struct {
	Key   Key     `json:"key"`
	Value float64 `json:"value"`
}

// Largest returns up to n items by value descending, ties by key.
func Largest(items []Scored, n int) []Scored {
	return topBy(items, n, func(a, b float64) bool { return a > b })
}

// Smallest returns up to n items by value ascending, ties by key.
func Smallest(items []Scored, n int) []Scored {
	return topBy(items, n, func(a, b float64) bool { return a < b })
}

func topBy(items []Scored, n int, better func(a, b float64) bool) []Scored {
	if n <= 0 {
		return nil
	}
	out := make([]Scored, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return better(out[i].Value, out[j].Value)
		}
		return out[i].Key.less(out[j].Key)
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// TradeoffOutliers returns the topN largest and smallest residuals. With
// fewer than two items there is no fit to deviate from and both lists are
// the input unchanged.
func TradeoffOutliers(residuals []Scored, topN int) (positive, negative []Scored) {
	if len(residuals) < 2 {
		positive = append([]Scored(nil), residuals...)
		negative = append([]Scored(nil), residuals...)
		return positive, negative
	}
	return Largest(residuals, topN), Smallest(residuals, topN)
}

type focusStat struct {
	label   string
	sumZ    float64
	n       int
	periods map[int]bool
}

// SelectFocusGroups picks the groups to follow over time. An explicit focus
// list is filtered to labels present in scores, keeping its order. Otherwise
// groups seen in at least minPeriods periods are ordered by mean z-score,
// then by periods present (both descending), then by label, and the first
// topK are returned.
func SelectFocusGroups(scores []NormalizedScore, topK, minPeriods int, focus []string) []string {
	byLabel := make(map[string]*focusStat)
	for _, s := range scores {
		label := s.Key.String()
		fs, ok := byLabel[label]
		if !ok {
			fs = &focusStat{label: label, periods: make(map[int]bool)}
			byLabel[label] = fs
		}
		fs.sumZ += s.ZScore
		fs.n++
		fs.periods[s.Period] = true
	}

	if focus = cleanList(focus); len(focus) > 0 {
		out := make([]string, 0, len(focus))
		for _, f := range focus {
			if _, ok := byLabel[f]; ok {
				out = append(out, f)
			}
		}
		return out
	}

	candidates := make([]*focusStat, 0, len(byLabel))
	for _, fs := range byLabel {
		if len(fs.periods) >= minPeriods {
			candidates = append(candidates, fs)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		zi := candidates[i].sumZ / float64(candidates[i].n)
		zj := candidates[j].sumZ / float64(candidates[j].n)
		if zi != zj {
			return zi > zj
		}
		if len(candidates[i].periods) != len(candidates[j].periods) {
			return len(candidates[i].periods) > len(candidates[j].periods)
		}
		return candidates[i].label < candidates[j].label
	})
	if topK < 0 {
		topK = 0
	}
	if topK < len(candidates) {
		candidates = candidates[:topK]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.label
	}
	return out
}
