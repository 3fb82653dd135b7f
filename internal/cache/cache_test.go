package cache

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vodhound/vodhound/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

type payload struct {
	Value string `json:"value"`
}

func TestCache(t *testing.T) {
	Convey("Response cache", t, func() {
		Convey("Key is deterministic and case-insensitive on the keyword", func() {
			So(Key("ruyi", "Dragon Ball", 1, 20), ShouldEqual, Key("ruyi", "dragonball", 1, 20))
			So(Key("ruyi", "dragon", 1, 20), ShouldNotEqual, Key("ruyi", "dragon", 2, 20))
			So(Key("ruyi", "dragon", 1, 20), ShouldNotEqual, Key("bfzy", "dragon", 1, 20))
		})

		Convey("Write then Read round-trips", func() {
			key := Key("ruyi", "roundtrip", 1, 20)
			So(Write(key, payload{Value: "hit"}), ShouldBeNil)

			var got payload
			So(Read(key, &got), ShouldBeTrue)
			So(got.Value, ShouldEqual, "hit")
		})

		Convey("Read misses on an absent key", func() {
			var got payload
			So(Read(Key("ruyi", "absent", 1, 20), &got), ShouldBeFalse)
		})
	})
}
