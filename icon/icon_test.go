package icon

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vodhound/vodhound/key"
)

func TestGet(t *testing.T) {
	Convey("Icon rendering", t, func() {
		symbols := []Icon{Success, Fail, Progress, Question, Search, Site, Video, Clock, Lua}

		Convey("every variant has a form for every symbol", func() {
			for _, variant := range AvailableVariants() {
				Convey("variant "+variant, func() {
					viper.Set(key.IconsVariant, variant)
					for _, symbol := range symbols {
						So(Get(symbol), ShouldNotBeEmpty)
					}
				})
			}
		})

		Convey("the plain variant stays ASCII", func() {
			viper.Set(key.IconsVariant, "plain")
			So(Get(Success), ShouldEqual, "[ok]")
			So(Get(Fail), ShouldEqual, "[fail]")
		})

		Convey("an unknown variant renders nothing", func() {
			viper.Set(key.IconsVariant, "morse")
			So(Get(Success), ShouldBeEmpty)
		})
	})
}
