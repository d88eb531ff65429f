package model_test

import (
	"math"
	"testing"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecord(t *testing.T) {
	Convey("Given a record with blank and invalid values", t, func() {
		r := model.Record{
			Year: 2019,
			Keys: map[string]string{model.ColCourse: "  Law ", model.ColUniversity: "   "},
			Metrics: map[string]float64{
				model.ColEmploymentRate:  93.4,
				model.ColGrossMonthlyMed: math.NaN(),
			},
		}

		Convey("Then keys are trimmed and blanks are missing", func() {
			v, ok := r.Key(model.ColCourse)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "Law")
			_, ok = r.Key(model.ColUniversity)
			So(ok, ShouldBeFalse)
			_, ok = r.Key(model.ColCategory)
			So(ok, ShouldBeFalse)
		})

		Convey("Then NaN and absent metrics are missing", func() {
			v, ok := r.Metric(model.ColEmploymentRate)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 93.4)
			_, ok = r.Metric(model.ColGrossMonthlyMed)
			So(ok, ShouldBeFalse)
			_, ok = r.Metric(model.ColGrossMonthlyMean)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestDataset(t *testing.T) {
	Convey("Given a dataset", t, func() {
		ds := model.NewDataset(
			[]string{model.ColUniversity, model.ColCourse, model.ColCourse, " "},
			[]model.Record{
				{Year: 2021, Keys: map[string]string{model.ColUniversity: "SMU", model.ColCourse: "Law"}},
				{Year: 2018, Keys: map[string]string{model.ColUniversity: "NUS", model.ColCourse: "Law"}},
				{Year: 2021, Keys: map[string]string{model.ColUniversity: "NTU"}},
			},
		)

		Convey("Then the schema always carries the year once", func() {
			So(ds.Columns, ShouldResemble, []string{model.ColYear, model.ColUniversity, model.ColCourse})
			So(ds.HasColumn(model.ColYear), ShouldBeTrue)
		})

		Convey("Then missing columns are listed in request order", func() {
			missing := ds.MissingColumns(model.ColSchool, model.ColCourse, model.ColDegree, model.ColSchool)
			So(missing, ShouldResemble, []string{model.ColSchool, model.ColDegree})
			So(ds.MissingColumns(model.ColCourse), ShouldBeEmpty)
		})

		Convey("Then distinct values and years are sorted", func() {
			So(ds.Distinct(model.ColUniversity), ShouldResemble, []string{"NTU", "NUS", "SMU"})
			So(ds.Distinct(model.ColCourse), ShouldResemble, []string{"Law"})
			So(ds.Years(), ShouldResemble, []int{2018, 2021})
		})

		Convey("Then the year range spans the records", func() {
			lo, hi, ok := ds.YearRange()
			So(ok, ShouldBeTrue)
			So(lo, ShouldEqual, 2018)
			So(hi, ShouldEqual, 2021)
		})

		Convey("Then Where returns a new dataset", func() {
			recent := ds.Where(func(r model.Record) bool { return r.Year > 2020 })
			So(recent.Len(), ShouldEqual, 2)
			So(ds.Len(), ShouldEqual, 3)
		})

		Convey("Then an empty dataset has no year range", func() {
			_, _, ok := model.NewDataset(nil, nil).YearRange()
			So(ok, ShouldBeFalse)
		})
	})
}
