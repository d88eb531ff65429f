package api

import (
	"errors"
	"net/url"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParams(t *testing.T) {
	Convey("Given query values", t, func() {
		q := url.Values{
			"n":     {"12"},
			"bad":   {"x"},
			"f":     {"0.5"},
			"yes":   {"Y"},
			"no":    {"off"},
			"list":  {" a, b ,,", "c"},
			"blank": {""},
		}

		Convey("Integers fall back on absence or junk", func() {
			So(intParam(q, "n", 1), ShouldEqual, 12)
			So(intParam(q, "bad", 1), ShouldEqual, 1)
			So(intParam(q, "blank", 7), ShouldEqual, 7)
			So(intParam(q, "absent", 3), ShouldEqual, 3)
		})

		Convey("Floats parse", func() {
			So(floatParam(q, "f", 1), ShouldEqual, 0.5)
			So(floatParam(q, "bad", 1), ShouldEqual, 1)
		})

		Convey("Booleans accept the truthy spellings", func() {
			So(boolParam(q, "yes", false), ShouldBeTrue)
			So(boolParam(q, "no", true), ShouldBeFalse)
			So(boolParam(q, "absent", true), ShouldBeTrue)
		})

		Convey("Lists are trimmed and joined", func() {
			So(listParam(q, "list"), ShouldResemble, []string{"a", "b", "c"})
			So(listParam(q, "absent"), ShouldBeNil)
		})

		Convey("Filters validate the year range", func() {
			f, err := filterParams(url.Values{"year_start": {"2018"}, "categories": {"Law"}}, false)
			So(err, ShouldBeNil)
			So(f.YearStart, ShouldEqual, 2018)
			So(f.Categories, ShouldBeNil)

			_, err = filterParams(url.Values{"year_start": {"2020"}, "year_end": {"2019"}}, true)
			So(errors.Is(err, ErrBadRequest), ShouldBeTrue)
		})
	})
}

func TestOpError(t *testing.T) {
	Convey("Operation errors keep their kind and cause", t, func() {
		cause := errors.New("cause")
		err := WrapKind("api.x", ErrBadRequest, cause)
		So(errors.Is(err, ErrBadRequest), ShouldBeTrue)
		So(errors.Is(err, cause), ShouldBeTrue)
		So(err.Error(), ShouldEqual, "api.x: bad request: cause")
		So(NewKind("api.y", ErrMethodNotAllowed).Error(), ShouldEqual, "api.y: method not allowed")
		So(Wrap("api.z", nil), ShouldBeNil)
	})
}
