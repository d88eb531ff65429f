package testsurvey_test

import (
	"bytes"
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/adapters/repository"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/testsurvey"
)

func TestGenerate(t *testing.T) {
	Convey("Given the default generator config", t, func() {
		cfg := testsurvey.DefaultConfig()
		ds := testsurvey.Generate(cfg)

		Convey("It covers every year and university", func() {
			So(ds.Years(), ShouldHaveLength, cfg.LastYear-cfg.FirstYear+1)
			So(ds.Distinct(model.ColUniversity), ShouldHaveLength, cfg.Universities)
			So(ds.MissingColumns(model.MetricColumns...), ShouldBeEmpty)
		})

		Convey("The same seed gives the same survey", func() {
			again := testsurvey.Generate(cfg)
			So(again.Len(), ShouldEqual, ds.Len())
			So(again.Records[10], ShouldResemble, ds.Records[10])
		})

		Convey("Written CSV reads back", func() {
			var buf bytes.Buffer
			So(testsurvey.WriteCSV(&buf, ds), ShouldBeNil)

			back, skipped, err := repository.ReadCSV(context.Background(), &buf)
			So(err, ShouldBeNil)
			So(skipped, ShouldEqual, 0)
			So(back.Len(), ShouldEqual, ds.Len())
			So(back.Distinct(model.ColCategory), ShouldResemble, ds.Distinct(model.ColCategory))
		})
	})
}
