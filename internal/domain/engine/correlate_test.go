package engine_test

import (
	"math"
	"testing"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/engine"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPearson(t *testing.T) {
	Convey("Given two categories in one period", t, func() {
		employment := []float64{90, 80}
		salary := []float64{4000, 5000}

		Convey("Then the correlation is exactly negative one", func() {
			r, ok := engine.Pearson(employment, salary).Float64()
			So(ok, ShouldBeTrue)
			So(r, ShouldAlmostEqual, -1.0, 1e-12)
		})
	})

	Convey("Given degenerate series", t, func() {
		Convey("Then a single point is undefined", func() {
			v := engine.Pearson([]float64{1}, []float64{2})
			So(v.IsDefined(), ShouldBeFalse)
			So(v.Reason(), ShouldEqual, types.ReasonTooFewPoints)
		})

		Convey("Then a constant series is undefined", func() {
			v := engine.Pearson([]float64{1, 2, 3}, []float64{5, 5, 5})
			So(v.IsDefined(), ShouldBeFalse)
			So(v.Reason(), ShouldEqual, types.ReasonZeroVariance)
		})

		Convey("Then mismatched lengths are undefined", func() {
			v := engine.Pearson([]float64{1, 2, 3}, []float64{5, 6})
			So(v.Reason(), ShouldEqual, types.ReasonLengthMismatch)
		})
	})
}

func TestWeightedPearson(t *testing.T) {
	Convey("Given paired series", t, func() {
		x := []float64{71.2, 88.5, 93.1, 79.4, 85.0}
		y := []float64{3200, 4100, 5200, 3650, 3900}

		Convey("When all weights are equal", func() {
			plain, _ := engine.Pearson(x, y).Float64()
			weighted, ok := engine.WeightedPearson(x, y, []float64{4, 4, 4, 4, 4}).Float64()

			Convey("Then the weighted coefficient matches the plain one", func() {
				So(ok, ShouldBeTrue)
				So(weighted, ShouldAlmostEqual, plain, 1e-12)
			})
		})

		Convey("When weights differ", func() {
			v := engine.WeightedPearson(x, y, []float64{10, 1, 30, 5, 2})

			Convey("Then the coefficient stays within [-1, 1]", func() {
				r, ok := v.Float64()
				So(ok, ShouldBeTrue)
				So(math.Abs(r), ShouldBeLessThanOrEqualTo, 1)
			})
		})

		Convey("When all weights are zero", func() {
			v := engine.WeightedPearson(x, y, []float64{0, 0, 0, 0, 0})

			Convey("Then the coefficient is undefined", func() {
				So(v.Reason(), ShouldEqual, types.ReasonNonPositiveWeight)
			})
		})

		Convey("When only one point carries weight", func() {
			v := engine.WeightedPearson(x, y, []float64{0, 0, 7, 0, 0})

			Convey("Then there is no weighted variance", func() {
				So(v.Reason(), ShouldEqual, types.ReasonZeroVariance)
			})
		})
	})
}

func TestLinearFit(t *testing.T) {
	Convey("Given points on a line through the origin", t, func() {
		fit, ok := engine.LinearFit([]float64{1, 2, 3}, []float64{2, 4, 6})

		Convey("Then slope, intercept and R2 are exact", func() {
			So(ok, ShouldBeTrue)
			So(fit.Slope, ShouldAlmostEqual, 2.0, 1e-12)
			So(fit.Intercept, ShouldAlmostEqual, 0.0, 1e-12)
			r2, defined := fit.R2.Float64()
			So(defined, ShouldBeTrue)
			So(r2, ShouldAlmostEqual, 1.0, 1e-12)
			So(fit.N, ShouldEqual, 3)
		})

		Convey("Then every residual is zero and no outlier stands out", func() {
			items := make([]engine.Scored, len(fit.Residuals))
			for i, r := range fit.Residuals {
				So(r, ShouldAlmostEqual, 0.0, 1e-12)
				items[i] = engine.Scored{Key: engine.Key{string(rune('a' + i))}, Value: r}
			}
			pos, neg := engine.TradeoffOutliers(items, 5)
			for _, s := range append(pos, neg...) {
				So(s.Value, ShouldAlmostEqual, 0.0, 1e-12)
			}
		})
	})

	Convey("Given a constant dependent series", t, func() {
		fit, ok := engine.LinearFit([]float64{1, 2, 3}, []float64{4, 4, 4})

		Convey("Then the fit exists but R2 is undefined", func() {
			So(ok, ShouldBeTrue)
			So(fit.Slope, ShouldAlmostEqual, 0, 1e-12)
			So(fit.R2.IsDefined(), ShouldBeFalse)
			So(fit.R2.Reason(), ShouldEqual, types.ReasonZeroVariance)
		})
	})

	Convey("Given too few or degenerate points", t, func() {
		_, ok := engine.LinearFit([]float64{1}, []float64{2})
		So(ok, ShouldBeFalse)
		_, ok = engine.LinearFit([]float64{2, 2}, []float64{1, 3})
		So(ok, ShouldBeFalse)
	})
}
