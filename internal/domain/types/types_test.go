package types_test

import (
	"encoding/json"
	"math"
	"testing"

	types "github.com/Divaprk/DAaaS-Platform-G36/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestValue(t *testing.T) {
	Convey("Given a defined value", t, func() {
		v := types.Defined(-0.75)

		Convey("Then it should expose the number", func() {
			f, ok := v.Float64()
			So(ok, ShouldBeTrue)
			So(f, ShouldEqual, -0.75)
			So(v.IsDefined(), ShouldBeTrue)
			So(v.Reason(), ShouldEqual, types.Reason(""))
			So(v.Or(99), ShouldEqual, -0.75)
		})

		Convey("And it should encode as a JSON number", func() {
			b, err := json.Marshal(v)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "-0.75")
		})
	})

	Convey("Given an undefined value", t, func() {
		v := types.Undefined(types.ReasonTooFewPoints)

		Convey("Then it should not read as zero", func() {
			f, ok := v.Float64()
			So(ok, ShouldBeFalse)
			So(f, ShouldEqual, 0)
			So(v.Reason(), ShouldEqual, types.ReasonTooFewPoints)
			So(v.Or(42), ShouldEqual, 42)
		})

		Convey("And it should encode as JSON null", func() {
			b, err := json.Marshal(struct {
				R types.Value `json:"r"`
			}{R: v})
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `{"r":null}`)
		})
	})

	Convey("Given the zero Value", t, func() {
		var v types.Value

		Convey("Then it should be undefined", func() {
			So(v.IsDefined(), ShouldBeFalse)
		})
	})

	Convey("Given a NaN", t, func() {
		v := types.Defined(math.NaN())

		Convey("Then it should be undefined", func() {
			So(v.IsDefined(), ShouldBeFalse)
			So(v.Reason(), ShouldEqual, types.ReasonZeroVariance)
		})
	})

	Convey("Given JSON input", t, func() {
		var got struct {
			A types.Value `json:"a"`
			B types.Value `json:"b"`
		}
		err := json.Unmarshal([]byte(`{"a":1.5,"b":null}`), &got)

		Convey("Then numbers and nulls should round through", func() {
			So(err, ShouldBeNil)
			So(got.A.Or(0), ShouldEqual, 1.5)
			So(got.B.IsDefined(), ShouldBeFalse)
		})
	})
}
