package query

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vodhound/vodhound/filesystem"
	"github.com/vodhound/vodhound/key"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given query history", t, func() {
		Convey("When remembering keywords", func() {
			So(Remember("三体", 1), ShouldBeNil)
			So(Remember("三国演义", 10), ShouldBeNil)

			Convey("Then suggestions come back heaviest first", func() {
				// Drop the in-memory layer to force a read from the persisted history
				memo = make(map[string][]*entry)

				s := SuggestMany("三")
				So(len(s), ShouldBeGreaterThanOrEqualTo, 2)
				So(s[0], ShouldEqual, "三国演义")
			})

			Convey("Then Suggest picks the top match", func() {
				memo = make(map[string][]*entry)

				So(Suggest("三国").MustGet(), ShouldEqual, "三国演义")
				So(Suggest("zzz-no-such-query").IsAbsent(), ShouldBeTrue)
			})

			Convey("Then repeat keywords climb the ranking", func() {
				So(Remember("三体", 1000), ShouldBeNil)
				memo = make(map[string][]*entry)

				s := SuggestMany("三")
				So(s[0], ShouldEqual, "三体")
			})
		})

		Convey("When suggestions are disabled", func() {
			viper.Set(key.SearchShowQuerySuggestions, false)
			defer viper.Set(key.SearchShowQuerySuggestions, true)

			So(SuggestMany("三"), ShouldBeEmpty)
		})

		Convey("It normalizes input", func() {
			So(normalize("  The Wandering Earth  "), ShouldEqual, "the wandering earth")
		})
	})
}
