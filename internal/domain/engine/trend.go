package engine

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/types"
)

// TrendFit is an ordinary least squares line y = Intercept + Slope*x.
type TrendFit struct {
	Slope     float64     `json:"slope"`
	Intercept float64     `json:"intercept"`
	R2        types.Value `json:"r2"`
	N         int         `json:"n"`
	// Residuals holds y - fitted per input point, in input order.
	Residuals []float64 `json:"-"`
}

// Predict evaluates the line at x.
func (f TrendFit) Predict(x float64) float64 { return f.Intercept + f.Slope*x }

// LinearFit fits y on x. It reports false for fewer than two points,
// mismatched lengths or a constant x. R2 is undefined when y is constant.
func LinearFit(x, y []float64) (TrendFit, bool) {
	if len(x) != len(y) || len(x) < 2 || isConstant(x, nil) {
		return TrendFit{}, false
	}
	intercept, slope := stat.LinearRegression(x, y, nil, false)
	fit := TrendFit{Slope: slope, Intercept: intercept, N: len(x), Residuals: make([]float64, len(x))}

	meanY, _ := stats.Mean(y)
	var ssRes, ssTot float64
	for i := range x {
		r := y[i] - fit.Predict(x[i])
		fit.Residuals[i] = r
		ssRes += r * r
		d := y[i] - meanY
		ssTot += d * d
	}
	if isConstant(y, nil) || ssTot == 0 {
		fit.R2 = types.Undefined(types.ReasonZeroVariance)
	} else {
		fit.R2 = types.Defined(1 - ssRes/ssTot)
	}
	return fit, true
}
