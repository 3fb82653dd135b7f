package site

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vodhound/vodhound/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func writeRegistry(path string, file File) {
	raw := lo.Must(json.Marshal(file))
	lo.Must0(filesystem.API().WriteFile(path, raw, 0644))
}

func TestSite(t *testing.T) {
	Convey("Site", t, func() {
		Convey("Decoding fills defaults", func() {
			var s Site
			err := json.Unmarshal([]byte(`{"site_id":"x","name":"X","base_url":"https://x.example/api"}`), &s)

			So(err, ShouldBeNil)
			So(s.Enabled, ShouldBeTrue)
			So(s.Timeout, ShouldEqual, DefaultTimeout)
			So(s.SearchParam, ShouldEqual, "wd")
			So(s.PageParam, ShouldEqual, "pg")
			So(s.ActionParam, ShouldEqual, "ac")
		})

		Convey("Decoding keeps an explicit enabled=false", func() {
			var s Site
			err := json.Unmarshal([]byte(`{"site_id":"x","name":"X","base_url":"https://x.example/api","enabled":false}`), &s)

			So(err, ShouldBeNil)
			So(s.Enabled, ShouldBeFalse)
		})

		Convey("Validate rejects missing name and base_url", func() {
			So(errors.Is((&Site{BaseURL: "https://x"}).Validate(), ErrInvalidSite), ShouldBeTrue)
			So(errors.Is((&Site{Name: "X"}).Validate(), ErrInvalidSite), ShouldBeTrue)
			So((&Site{Name: "X", BaseURL: "https://x"}).Validate(), ShouldBeNil)
		})

		Convey("Duration converts seconds", func() {
			So((&Site{Timeout: 8}).Duration(), ShouldEqual, 8*time.Second)
			So((&Site{}).Duration(), ShouldEqual, DefaultTimeout*time.Second)
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Registry", t, func() {
		Convey("Seeds defaults when the file is absent", func() {
			r, err := openAt("/absent/sites.json")

			So(err, ShouldBeNil)
			So(len(r.List()), ShouldBeGreaterThan, 0)

			exists := lo.Must(filesystem.API().Exists("/absent/sites.json"))
			So(exists, ShouldBeTrue)
		})

		Convey("Loads sites in file order", func() {
			writeRegistry("/ordered.json", File{Sites: []*Site{
				{ID: "b", Name: "B", BaseURL: "https://b"},
				{ID: "a", Name: "A", BaseURL: "https://a"},
			}})

			r := lo.Must(openAt("/ordered.json"))
			sites := r.List()

			So(len(sites), ShouldEqual, 2)
			So(sites[0].ID, ShouldEqual, "b")
			So(sites[1].ID, ShouldEqual, "a")
		})

		Convey("Rejects entries missing required fields", func() {
			writeRegistry("/broken.json", File{Sites: []*Site{
				{ID: "a", Name: "A"},
			}})

			_, err := openAt("/broken.json")
			So(errors.Is(err, ErrInvalidSite), ShouldBeTrue)
		})

		Convey("Skips entries without a site id", func() {
			writeRegistry("/noid.json", File{Sites: []*Site{
				{Name: "ghost", BaseURL: "https://ghost"},
				{ID: "a", Name: "A", BaseURL: "https://a"},
			}})

			r := lo.Must(openAt("/noid.json"))
			So(len(r.List()), ShouldEqual, 1)
		})

		Convey("Enabled filters disabled sites", func() {
			writeRegistry("/mixed.json", File{Sites: []*Site{
				{ID: "on", Name: "On", BaseURL: "https://on", Enabled: true},
				{ID: "off", Name: "Off", BaseURL: "https://off", Enabled: false},
			}})

			r := lo.Must(openAt("/mixed.json"))
			enabled := r.Enabled()

			So(len(enabled), ShouldEqual, 1)
			So(enabled[0].ID, ShouldEqual, "on")
		})

		Convey("Lookup", func() {
			writeRegistry("/lookup.json", File{Sites: []*Site{
				{ID: "on", Name: "On", BaseURL: "https://on", Enabled: true},
				{ID: "off", Name: "Off", BaseURL: "https://off", Enabled: false},
			}})

			r := lo.Must(openAt("/lookup.json"))

			Convey("Resolves an enabled site", func() {
				s, err := r.Lookup("on")
				So(err, ShouldBeNil)
				So(s.Name, ShouldEqual, "On")
			})

			Convey("Rejects an empty id", func() {
				_, err := r.Lookup("  ")
				So(errors.Is(err, ErrUnknownSite), ShouldBeTrue)
			})

			Convey("Rejects an unknown id", func() {
				_, err := r.Lookup("nope")
				So(errors.Is(err, ErrUnknownSite), ShouldBeTrue)
			})

			Convey("Rejects a disabled site", func() {
				_, err := r.Lookup("off")
				So(errors.Is(err, ErrSiteDisabled), ShouldBeTrue)
			})
		})

		Convey("Toggle flips and persists", func() {
			writeRegistry("/toggle.json", File{Sites: []*Site{
				{ID: "a", Name: "A", BaseURL: "https://a", Enabled: true},
			}})

			r := lo.Must(openAt("/toggle.json"))

			enabled, err := r.Toggle("a")
			So(err, ShouldBeNil)
			So(enabled, ShouldBeFalse)

			reread := lo.Must(openAt("/toggle.json"))
			s, _ := reread.Get("a")
			So(s.Enabled, ShouldBeFalse)
		})

		Convey("Toggle on an unknown id fails", func() {
			writeRegistry("/toggle2.json", File{Sites: []*Site{
				{ID: "a", Name: "A", BaseURL: "https://a"},
			}})

			r := lo.Must(openAt("/toggle2.json"))
			_, err := r.Toggle("ghost")
			So(errors.Is(err, ErrUnknownSite), ShouldBeTrue)
		})
	})
}
