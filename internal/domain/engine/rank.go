package engine

import "sort"

// DenseRank assigns rank 1 to the best score and increments by one per
// distinct value, so ties share a rank and no gaps appear. Higher scores are
// better unless ascending is set.
func DenseRank(scores []float64, ascending bool) []int {
	distinct := make([]float64, 0, len(scores))
	seen := make(map[float64]bool, len(scores))
	for _, s := range scores {
		if !seen[s] {
			seen[s] = true
			distinct = append(distinct, s)
		}
	}
	if ascending {
		sort.Float64s(distinct)
	} else {
		sort.Sort(sort.Reverse(sort.Float64Slice(distinct)))
	}
	rankOf := make(map[float64]int, len(distinct))
	for i, v := range distinct {
		rankOf[v] = i + 1
	}
	out := make([]int, len(scores))
	for i, s := range scores {
		out[i] = rankOf[s]
	}
	return out
}

// PercentileRank places each score within its population on (0, 100) using
// the mid-rank of its tie block: (avgRank - 0.5) / n * 100. Higher scores get
// higher percentiles and identical scores share a percentile.
func PercentileRank(scores []float64) []float64 {
	n := len(scores)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] < scores[idx[b]] })
	for start := 0; start < n; {
		end := start
		for end+1 < n && scores[idx[end+1]] == scores[idx[start]] {
			end++
		}
		avg := float64(start+1+end+1) / 2
		pct := (avg - 0.5) / float64(n) * 100
		for k := start; k <= end; k++ {
			out[idx[k]] = pct
		}
		start = end + 1
	}
	return out
}

// RankPeriods ranks scores by z-score within each period and returns a copy
// ordered by period, then rank, then key.
func RankPeriods(scores []NormalizedScore) []NormalizedScore {
	out := make([]NormalizedScore, len(scores))
	copy(out, scores)

	byPeriod := make(map[int][]int)
	for i, s := range out {
		byPeriod[s.Period] = append(byPeriod[s.Period], i)
	}
	for _, members := range byPeriod {
		z := make([]float64, len(members))
		for j, i := range members {
			z[j] = out[i].ZScore
		}
		ranks := DenseRank(z, false)
		pcts := PercentileRank(z)
		for j, i := range members {
			out[i].Rank = ranks[j]
			out[i].Percentile = pcts[j]
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Period != out[j].Period {
			return out[i].Period < out[j].Period
		}
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].Key.less(out[j].Key)
	})
	return out
}
