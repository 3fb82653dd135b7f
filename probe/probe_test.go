package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vodhound/vodhound/config"
	"github.com/vodhound/vodhound/filesystem"
	"github.com/vodhound/vodhound/site"
)

func init() {
	filesystem.SetMemMapFs()
	lo.Must0(config.Setup())
}

func probeSite(id, baseURL string, timeout int) *site.Site {
	return &site.Site{
		ID:          id,
		Name:        id,
		BaseURL:     baseURL,
		Enabled:     true,
		Timeout:     timeout,
		SearchParam: "wd",
		PageParam:   "pg",
		ActionParam: "ac",
	}
}

// healthyBody is a plausible first page, padded past the minimum size check.
func healthyBody() string {
	return fmt.Sprintf(`{"code":1,"msg":"ok","page":1,"pagecount":1,"total":1,"list":[{"vod_id":1,"vod_name":"%s"}]}`,
		strings.Repeat("电影", 40))
}

func TestValidate(t *testing.T) {
	Convey("Response validation", t, func() {
		Convey("Accepts a healthy envelope", func() {
			So(validate([]byte(healthyBody())), ShouldBeNil)
		})

		Convey("Rejects an empty body", func() {
			So(validate(nil), ShouldNotBeNil)
		})

		Convey("Rejects a body under the minimum size", func() {
			So(validate([]byte(`{"code":1,"list":[]}`)), ShouldNotBeNil)
		})

		Convey("Rejects anti-bot interception pages", func() {
			body := `{"code":1,"list":[],"msg":"` + strings.Repeat("x", 120) + ` captcha required"}`
			err := validate([]byte(body))

			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "anti-bot")
		})

		Convey("Rejects an error code", func() {
			body := `{"code":-1,"msg":"` + strings.Repeat("x", 120) + `","list":[]}`
			err := validate([]byte(body))

			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "error code")
		})

		Convey("Rejects an envelope without a data field", func() {
			body := `{"code":1,"msg":"` + strings.Repeat("x", 120) + `"}`
			err := validate([]byte(body))

			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "no data field")
		})

		Convey("Accepts non-object JSON without markers", func() {
			body := `["` + strings.Repeat("x", 120) + `"]`
			So(validate([]byte(body)), ShouldBeNil)
		})

		Convey("Rejects non-JSON bodies", func() {
			body := "<html>" + strings.Repeat("x", 120) + "</html>"
			So(validate([]byte(body)), ShouldNotBeNil)
		})
	})
}

func TestOne(t *testing.T) {
	Convey("One", t, func() {
		Convey("Succeeds against a live API", func() {
			var query map[string]string

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				query = map[string]string{
					"ac": r.URL.Query().Get("ac"),
					"wd": r.URL.Query().Get("wd"),
					"pg": r.URL.Query().Get("pg"),
				}
				fmt.Fprint(w, healthyBody())
			}))
			defer server.Close()

			result := One(context.Background(), probeSite("up", server.URL, 5))

			So(result.OK, ShouldBeTrue)
			So(result.Err, ShouldBeNil)
			So(result.ResponseSize, ShouldBeGreaterThan, 100)
			So(result.Elapsed, ShouldBeGreaterThan, 0)

			So(query["ac"], ShouldEqual, "detail")
			So(query["wd"], ShouldNotBeEmpty)
			// Probes carry no page parameter.
			So(query["pg"], ShouldBeEmpty)
		})

		Convey("Caps elapsed at the deadline on timeout", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				time.Sleep(2 * time.Second)
				fmt.Fprint(w, healthyBody())
			}))
			defer server.Close()

			result := One(context.Background(), probeSite("slow", server.URL, 1))

			So(result.OK, ShouldBeFalse)
			So(errors.Is(result.Err, ErrTimeout), ShouldBeTrue)
			So(result.Elapsed, ShouldEqual, time.Second)
		})

		Convey("Fails on a block page", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprintf(w, `{"msg":"%s 人机验证"}`, strings.Repeat("x", 120))
			}))
			defer server.Close()

			result := One(context.Background(), probeSite("blocked", server.URL, 5))

			So(result.OK, ShouldBeFalse)
			So(result.Err, ShouldNotBeNil)
		})
	})
}

func TestAll(t *testing.T) {
	Convey("All", t, func() {
		up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, healthyBody())
		}))
		defer up.Close()

		down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer down.Close()

		report := All(context.Background(), []*site.Site{
			probeSite("one", up.URL, 5),
			probeSite("two", down.URL, 5),
			probeSite("three", up.URL, 5),
		})

		Convey("Joins on every site and keeps input order", func() {
			So(report.Total, ShouldEqual, 3)
			So(len(report.Results), ShouldEqual, 3)
			So(report.Results[0].SiteID, ShouldEqual, "one")
			So(report.Results[1].SiteID, ShouldEqual, "two")
			So(report.Results[2].SiteID, ShouldEqual, "three")
		})

		Convey("Counts successes and failures", func() {
			So(report.Succeeded, ShouldEqual, 2)
			So(report.Failed, ShouldEqual, 1)
		})
	})
}
