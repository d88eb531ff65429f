// Package engine implements the statistical core of the analytics: grouping,
// per-period normalization, ranking, correlation, trend fitting and
// classification. Every function is pure; results never alias inputs.
package engine

import (
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
)

// NoPeriod is the period of groups aggregated across all years.
const NoPeriod = 0

// keySep never occurs in survey values.
const keySep = "\x1f"

// Key identifies a group by its group-by column values, in GroupBy order.
type Key []string

// String renders the key for display and for lookups by name.
func (k Key) String() string { return strings.Join(k, " | ") }

func (k Key) id() string { return strings.Join(k, keySep) }

func (k Key) less(o Key) bool {
	for i := 0; i < len(k) && i < len(o); i++ {
		if k[i] != o[i] {
			return k[i] < o[i]
		}
	}
	return len(k) < len(o)
}

// Summary is the mean and population standard deviation of one metric.
type Summary struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// AggregateQuery describes one grouping request.
type AggregateQuery struct {
	// GroupBy lists the key columns that identify a group.
	GroupBy []string
	// Metric is the primary metric summarised into Mean/Std.
	Metric string
	// Extra metrics are summarised as well; a record must carry all of them.
	Extra []string
	// Attach lists key columns whose modal value is attached to each group.
	// Columns absent from the schema are skipped.
	Attach []string
	// ByYear adds the record year to the group identity.
	ByYear bool
	// MinCount drops groups with fewer contributing records.
	MinCount int
}

// AggregateGroup is one (key, period) group.
type AggregateGroup struct {
	Key        Key                `json:"key"`
	Period     int                `json:"period"`
	Count      int                `json:"count"`
	Mean       float64            `json:"mean_value"`
	Std        float64            `json:"std_value"`
	Metrics    map[string]Summary `json:"metrics,omitempty"`
	Attributes map[string]string  `json:"attributes,omitempty"`
}

// AggregateResult holds the groups plus exclusion diagnostics.
type AggregateResult struct {
	Groups []AggregateGroup
	// RowsUsed counts records that contributed to some group, before the
	// MinCount cut.
	RowsUsed int
	// Dropped counts, per column, the records missing that column's value.
	Dropped map[string]int
}

type bucket struct {
	key     Key
	period  int
	values  map[string][]float64
	attrs   map[string]map[string]int
	records int
}

// Aggregate groups ds by q. It fails only when a requested column is
// absent from the schema.
func Aggregate(ds model.Dataset, q AggregateQuery) (AggregateResult, error) {
	metrics := cleanList(append([]string{q.Metric}, q.Extra...))
	required := append(append([]string{}, q.GroupBy...), metrics...)
	if err := RequireColumns(ds, required...); err != nil {
		return AggregateResult{}, err
	}
	var attach []string
	for _, a := range q.Attach {
		if ds.HasColumn(a) {
			attach = append(attach, a)
		}
	}

	res := AggregateResult{Dropped: make(map[string]int)}
	buckets := make(map[string]*bucket)
	var order []*bucket

	for _, r := range ds.Records {
		key := make(Key, len(q.GroupBy))
		complete := true
		for i, col := range q.GroupBy {
			v, ok := r.Key(col)
			if !ok {
				res.Dropped[col]++
				complete = false
			}
			key[i] = v
		}
		vals := make([]float64, len(metrics))
		for i, m := range metrics {
			v, ok := r.Metric(m)
			if !ok {
				res.Dropped[m]++
				complete = false
			}
			vals[i] = v
		}
		if !complete {
			continue
		}
		res.RowsUsed++

		period := NoPeriod
		if q.ByYear {
			period = r.Year
		}
		id := key.id()
		if q.ByYear {
			id = id + keySep + strconv.Itoa(period)
		}
		b, ok := buckets[id]
		if !ok {
			b = &bucket{key: key, period: period, values: make(map[string][]float64), attrs: make(map[string]map[string]int)}
			buckets[id] = b
			order = append(order, b)
		}
		b.records++
		for i, m := range metrics {
			b.values[m] = append(b.values[m], vals[i])
		}
		for _, a := range attach {
			if v, ok := r.Key(a); ok {
				if b.attrs[a] == nil {
					b.attrs[a] = make(map[string]int)
				}
				b.attrs[a][v]++
			}
		}
	}

	for _, b := range order {
		if b.records < q.MinCount {
			continue
		}
		g := AggregateGroup{
			Key:     b.key,
			Period:  b.period,
			Count:   b.records,
			Metrics: make(map[string]Summary, len(metrics)),
		}
		for _, m := range metrics {
			g.Metrics[m] = summarize(b.values[m])
		}
		primary := g.Metrics[q.Metric]
		g.Mean, g.Std = primary.Mean, primary.Std
		if len(b.attrs) > 0 {
			g.Attributes = make(map[string]string, len(b.attrs))
			for a, counts := range b.attrs {
				g.Attributes[a] = mode(counts)
			}
		}
		res.Groups = append(res.Groups, g)
	}
	sortGroups(res.Groups)
	return res, nil
}

// summarize returns the mean and population std of a non-empty sample.
func summarize(values []float64) Summary {
	mean, err := stats.Mean(values)
	if err != nil {
		return Summary{}
	}
	std, err := stats.StandardDeviationPopulation(values)
	if err != nil {
		return Summary{Mean: mean}
	}
	return Summary{Mean: mean, Std: std}
}

// WeightedMeanStd returns the weighted mean and weighted population standard
// deviation. Without usable weights (mismatched length or Σw ≤ 0) it falls
// back to the unweighted mean and population std.
func WeightedMeanStd(values, weights []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	if len(weights) != len(values) || !(floats.Sum(weights) > 0) {
		s := summarize(values)
		return s.Mean, s.Std
	}
	if isConstant(values, weights) {
		return stat.Mean(values, weights), 0
	}
	return stat.PopMeanStdDev(values, weights)
}

// mode returns the most frequent value, the smallest one on ties.
func mode(counts map[string]int) string {
	best, bestN := "", 0
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	return best
}

func sortGroups(groups []AggregateGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Period != groups[j].Period {
			return groups[i].Period < groups[j].Period
		}
		return groups[i].Key.less(groups[j].Key)
	})
}

// isConstant reports whether every value with a positive weight (or every
// value, when weights is nil) is identical.
func isConstant(values, weights []float64) bool {
	first, seen := 0.0, false
	for i, v := range values {
		if weights != nil && !(weights[i] > 0) {
			continue
		}
		if !seen {
			first, seen = v, true
			continue
		}
		if v != first {
			return false
		}
	}
	return true
}
