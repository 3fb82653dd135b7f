package custom

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	lua "github.com/yuin/gopher-lua"
)

func TestRecordFromTable(t *testing.T) {
	Convey("recordFromTable", t, func() {
		L := lua.NewState()
		defer L.Close()

		Convey("Should extract record from valid Lua table", func() {
			tbl := L.NewTable()
			tbl.RawSetString("id", lua.LString("42"))
			tbl.RawSetString("title", lua.LString("流浪地球"))
			tbl.RawSetString("thumbnail", lua.LString("https://example.com/cover.jpg"))
			tbl.RawSetString("category", lua.LString("科幻片"))
			tbl.RawSetString("year", lua.LString("2019"))
			tbl.RawSetString("region", lua.LString("中国大陆"))

			record, err := recordFromTable(tbl, "demo")
			So(err, ShouldBeNil)
			So(record.Platform, ShouldEqual, "demo")
			So(record.ID, ShouldEqual, "42")
			So(record.Title, ShouldEqual, "流浪地球")
			So(record.Thumbnail, ShouldEqual, "https://example.com/cover.jpg")
			So(record.TypeName, ShouldEqual, "科幻片")
			So(record.Year, ShouldEqual, "2019")
			So(record.Area, ShouldEqual, "中国大陆")
		})

		Convey("Should stringify a numeric id", func() {
			tbl := L.NewTable()
			tbl.RawSetString("id", lua.LNumber(42))
			tbl.RawSetString("title", lua.LString("The Wandering Earth"))
			tbl.RawSetString("views", lua.LNumber(1234))

			record, err := recordFromTable(tbl, "demo")
			So(err, ShouldBeNil)
			So(record.ID, ShouldEqual, "42")
			So(record.ViewCount, ShouldEqual, 1234)
		})

		Convey("Should fail when required field 'title' is missing", func() {
			tbl := L.NewTable()
			tbl.RawSetString("id", lua.LString("42"))

			_, err := recordFromTable(tbl, "demo")
			So(err, ShouldNotBeNil)
		})

		Convey("Should handle actor given as comma-separated string", func() {
			tbl := L.NewTable()
			tbl.RawSetString("id", lua.LString("1"))
			tbl.RawSetString("title", lua.LString("三体"))
			tbl.RawSetString("actor", lua.LString("张鲁一, 于和伟"))

			record, err := recordFromTable(tbl, "demo")
			So(err, ShouldBeNil)
			So(record.Actor, ShouldEqual, "张鲁一, 于和伟")
		})
	})
}

func TestPlaySourcesFromTable(t *testing.T) {
	Convey("playSourcesFromTable", t, func() {
		L := lua.NewState()
		defer L.Close()

		Convey("Should extract episodes grouped by play source name", func() {
			episodes := L.NewTable()
			ep := L.NewTable()
			ep.RawSetString("name", lua.LString("第01集"))
			ep.RawSetString("url", lua.LString("https://cdn.example.com/1.m3u8"))
			episodes.Append(ep)

			entry := L.NewTable()
			entry.RawSetString("name", lua.LString("m3u8"))
			entry.RawSetString("episodes", episodes)

			play := L.NewTable()
			play.Append(entry)

			tbl := L.NewTable()
			tbl.RawSetString("play", play)

			sources := playSourcesFromTable(tbl)
			So(sources.Total(), ShouldEqual, 1)
			So(sources["m3u8"], ShouldHaveLength, 1)
			So(sources["m3u8"][0].Name, ShouldEqual, "第01集")
			So(sources["m3u8"][0].URL, ShouldEqual, "https://cdn.example.com/1.m3u8")
		})

		Convey("Should skip episodes without a url", func() {
			episodes := L.NewTable()
			ep := L.NewTable()
			ep.RawSetString("name", lua.LString("第01集"))
			episodes.Append(ep)

			entry := L.NewTable()
			entry.RawSetString("name", lua.LString("m3u8"))
			entry.RawSetString("episodes", episodes)

			play := L.NewTable()
			play.Append(entry)

			tbl := L.NewTable()
			tbl.RawSetString("play", play)

			So(playSourcesFromTable(tbl).Total(), ShouldEqual, 0)
		})

		Convey("Should split the packed play_from/play_url pair", func() {
			tbl := L.NewTable()
			tbl.RawSetString("play_from", lua.LString("m3u8"))
			tbl.RawSetString("play_url", lua.LString("第01集$https://cdn.example.com/1.m3u8#第02集$https://cdn.example.com/2.m3u8"))

			sources := playSourcesFromTable(tbl)
			So(sources.Total(), ShouldEqual, 2)
			So(sources["m3u8"][1].Name, ShouldEqual, "第02集")
		})
	})
}

func TestPageStateFromTable(t *testing.T) {
	Convey("pageStateFromTable", t, func() {
		L := lua.NewState()
		defer L.Close()

		Convey("Should prefer upstream pagecount", func() {
			tbl := L.NewTable()
			tbl.RawSetString("page", lua.LNumber(2))
			tbl.RawSetString("total", lua.LNumber(48))
			tbl.RawSetString("pagecount", lua.LNumber(3))

			state := pageStateFromTable(tbl, 2, 20)
			So(state, ShouldNotBeNil)
			So(state.CurrentPage, ShouldEqual, 2)
			So(state.TotalCount, ShouldEqual, 48)
			So(state.TotalPages, ShouldEqual, 3)
		})

		Convey("Should derive pagecount from total", func() {
			tbl := L.NewTable()
			tbl.RawSetString("total", lua.LNumber(45))

			state := pageStateFromTable(tbl, 1, 20)
			So(state, ShouldNotBeNil)
			So(state.CurrentPage, ShouldEqual, 1)
			So(state.TotalPages, ShouldEqual, 3)
		})

		Convey("Should return nil when the table carries neither", func() {
			tbl := L.NewTable()
			tbl.RawSetString("page", lua.LNumber(1))

			So(pageStateFromTable(tbl, 1, 20), ShouldBeNil)
		})
	})
}
