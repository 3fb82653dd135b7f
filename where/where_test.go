package where

import (
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vodhound/vodhound/filesystem"
)

func init() {
	// Tests must not create real directories.
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Directory resolvers", t, func() {
		dirs := map[string]func() string{
			"config":  Config,
			"cache":   Cache,
			"logs":    Logs,
			"sources": Sources,
			"temp":    Temp,
		}

		for name, resolve := range dirs {
			Convey("the "+name+" directory exists after resolving", func() {
				path := resolve()
				So(path, ShouldNotBeEmpty)
				So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			})
		}
	})

	Convey("File resolvers", t, func() {
		Convey("the sites registry lives under the config dir", func() {
			So(Sites(), ShouldEqual, filepath.Join(Config(), "sites.json"))
		})

		Convey("the session snapshot lives under the cache dir", func() {
			So(Session(), ShouldEqual, filepath.Join(Cache(), "session.json"))
		})

		Convey("the query history lives under the cache dir", func() {
			So(Queries(), ShouldEqual, filepath.Join(Cache(), "queries.json"))
		})
	})
}
