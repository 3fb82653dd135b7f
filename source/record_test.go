package source

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRecord(t *testing.T) {
	Convey("Record", t, func() {
		r := &Record{Platform: "量子资源", ID: "4821", Title: "沧元图"}

		Convey("String", func() {
			So(r.String(), ShouldEqual, "沧元图")
		})

		Convey("Valid requires id and title", func() {
			So(r.Valid(), ShouldBeTrue)
			So((&Record{Title: "沧元图"}).Valid(), ShouldBeFalse)
			So((&Record{ID: "4821"}).Valid(), ShouldBeFalse)
		})
	})
}

func TestOutcome(t *testing.T) {
	Convey("Outcome", t, func() {
		Convey("Success mirrors Err", func() {
			So(Outcome{}.Success(), ShouldBeTrue)
			So(Outcome{Err: context.DeadlineExceeded}.Success(), ShouldBeFalse)
		})
	})
}
