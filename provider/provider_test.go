package provider

import (
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vodhound/vodhound/config"
	"github.com/vodhound/vodhound/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
	lo.Must0(config.Setup())
}

func TestGet(t *testing.T) {
	Convey("When trying to get an invalid provider", t, func() {
		_, ok := Get("kek")
		Convey("Then ok should be false", func() {
			So(ok, ShouldBeFalse)
		})
	})

	Convey("When resolving a builtin provider", t, func() {
		Convey("Then lookup by id should succeed", func() {
			p, ok := Get("ruyi")
			So(ok, ShouldBeTrue)
			So(p.IsCustom, ShouldBeFalse)
		})

		Convey("Then lookup should ignore case", func() {
			_, ok := Get("RUYI")
			So(ok, ShouldBeTrue)
		})

		Convey("Then lookup by display name should succeed", func() {
			p, ok := Get("如意资源")
			So(ok, ShouldBeTrue)
			So(p.ID, ShouldEqual, "ruyi")
		})
	})
}

func TestBuiltins(t *testing.T) {
	Convey("Builtins", t, func() {
		providers := Builtins()

		Convey("Should expose every enabled registry site", func() {
			So(len(providers), ShouldBeGreaterThan, 0)

			for _, p := range providers {
				So(p.CreateSource, ShouldNotBeNil)
				So(p.IsCustom, ShouldBeFalse)
			}
		})

		Convey("Should create working sources", func() {
			src, err := providers[0].CreateSource()
			So(err, ShouldBeNil)
			So(src.ID(), ShouldEqual, providers[0].ID)
		})
	})
}
