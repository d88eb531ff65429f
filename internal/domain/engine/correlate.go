package engine

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/types"
)

// Pearson returns the correlation of x and y. It is undefined for fewer than
// two points or when either side has no variance.
func Pearson(x, y []float64) types.Value {
	switch {
	case len(x) != len(y):
		return types.Undefined(types.ReasonLengthMismatch)
	case len(x) < 2:
		return types.Undefined(types.ReasonTooFewPoints)
	case isConstant(x, nil) || isConstant(y, nil):
		return types.Undefined(types.ReasonZeroVariance)
	}
	r, err := stats.Pearson(x, y)
	if err != nil {
		return types.Undefined(types.ReasonTooFewPoints)
	}
	return types.Defined(clampUnit(r))
}

// WeightedPearson is Pearson with per-point weights. Entries with zero
// weight do not count towards the variance check.
func WeightedPearson(x, y, w []float64) types.Value {
	switch {
	case len(x) != len(y) || len(x) != len(w):
		return types.Undefined(types.ReasonLengthMismatch)
	case len(x) < 2:
		return types.Undefined(types.ReasonTooFewPoints)
	case !(floats.Sum(w) > 0):
		return types.Undefined(types.ReasonNonPositiveWeight)
	case isConstant(x, w) || isConstant(y, w):
		return types.Undefined(types.ReasonZeroVariance)
	}
	return types.Defined(clampUnit(stat.Correlation(x, y, w)))
}

// clampUnit absorbs rounding that pushes a correlation just past ±1.
func clampUnit(r float64) float64 {
	return math.Max(-1, math.Min(1, r))
}
