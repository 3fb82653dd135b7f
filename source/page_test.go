package source

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewPageState(t *testing.T) {
	Convey("PageState", t, func() {
		Convey("Rounds partial pages up", func() {
			p := NewPageState(1, 20, 45)
			So(p.TotalPages, ShouldEqual, 3)
			So(p.TotalCount, ShouldEqual, 45)
			So(p.HasNext(), ShouldBeTrue)
			So(p.HasPrevious(), ShouldBeFalse)
		})

		Convey("Exact multiple does not round", func() {
			p := NewPageState(2, 20, 40)
			So(p.TotalPages, ShouldEqual, 2)
			So(p.HasNext(), ShouldBeFalse)
			So(p.HasPrevious(), ShouldBeTrue)
		})

		Convey("Empty result set still has one page", func() {
			p := NewPageState(1, 20, 0)
			So(p.TotalPages, ShouldEqual, 1)
			So(p.HasNext(), ShouldBeFalse)
			So(p.HasPrevious(), ShouldBeFalse)
		})

		Convey("Single record is a single page", func() {
			p := NewPageState(1, 20, 1)
			So(p.TotalPages, ShouldEqual, 1)
		})
	})
}

func TestValidatePageArgs(t *testing.T) {
	Convey("ValidatePageArgs", t, func() {
		So(ValidatePageArgs(1, 20), ShouldBeNil)
		So(ValidatePageArgs(1, 100), ShouldBeNil)
		So(ValidatePageArgs(0, 20), ShouldNotBeNil)
		So(ValidatePageArgs(-3, 20), ShouldNotBeNil)
		So(ValidatePageArgs(1, 0), ShouldNotBeNil)
		So(ValidatePageArgs(1, 101), ShouldNotBeNil)
	})
}
