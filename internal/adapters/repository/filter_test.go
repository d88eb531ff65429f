package repository_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/adapters/repository"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
)

func filterDataset() model.Dataset {
	mk := func(year int, uni, cat, course string) model.Record {
		return model.Record{Year: year, Keys: map[string]string{
			model.ColUniversity: uni, model.ColCategory: cat, model.ColCourse: course,
		}}
	}
	return model.NewDataset(model.KeyColumns, []model.Record{
		mk(2018, "NUS", "Law", "LLB"),
		mk(2019, "NUS", "IT", "CS"),
		mk(2020, "NUS", "IT", "CS"),
		mk(2019, "NTU", "IT", "CS"),
		mk(2020, "SMU", "Law", "JD"),
		mk(2021, "SMU", "Law", "JD"),
	})
}

func TestFilterApply(t *testing.T) {
	Convey("Given a small survey", t, func() {
		ds := filterDataset()

		Convey("A zero filter returns everything", func() {
			So(repository.Filter{}.Apply(ds).Len(), ShouldEqual, 6)
		})

		Convey("Year bounds are inclusive", func() {
			out := repository.Filter{YearStart: 2019, YearEnd: 2020}.Apply(ds)
			So(out.Years(), ShouldResemble, []int{2019, 2020})
			So(out.Len(), ShouldEqual, 4)
		})

		Convey("Membership lists combine", func() {
			out := repository.Filter{Universities: []string{" NUS ", "SMU"}, Categories: []string{"Law"}}.Apply(ds)
			So(out.Len(), ShouldEqual, 3)
			So(out.Distinct(model.ColCourse), ShouldResemble, []string{"JD", "LLB"})
		})

		Convey("The per-university minimum applies after other restrictions", func() {
			out := repository.Filter{Categories: []string{"IT"}, MinRecordsPerUniversity: 2}.Apply(ds)
			So(out.Distinct(model.ColUniversity), ShouldResemble, []string{"NUS"})
			So(out.Len(), ShouldEqual, 2)
		})
	})
}
