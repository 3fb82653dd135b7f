package maccms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vodhound/vodhound/config"
	"github.com/vodhound/vodhound/filesystem"
	"github.com/vodhound/vodhound/site"
	"github.com/vodhound/vodhound/source"
)

func init() {
	filesystem.SetMemMapFs()
	lo.Must0(config.Setup())
}

func testSite(baseURL string) *site.Site {
	return &site.Site{
		ID:          "test",
		Name:        "测试资源",
		BaseURL:     baseURL,
		Enabled:     true,
		Timeout:     site.DefaultTimeout,
		SearchParam: "wd",
		PageParam:   "pg",
		ActionParam: "ac",
	}
}

func TestDecodeEnvelope(t *testing.T) {
	Convey("Envelope decoding", t, func() {
		Convey("Top-level list shape", func() {
			env, err := decodeEnvelope([]byte(`{"code":1,"page":"2","pagecount":3,"limit":"20","total":48,"list":[{"vod_id":7}]}`))

			So(err, ShouldBeNil)

			items, pagination := env.extract(2, 20)
			So(len(items), ShouldEqual, 1)
			So(pagination, ShouldNotBeNil)
			So(pagination.CurrentPage, ShouldEqual, 2)
			So(pagination.PageSize, ShouldEqual, 20)
			So(pagination.TotalCount, ShouldEqual, 48)
			So(pagination.TotalPages, ShouldEqual, 3)
		})

		Convey("Nested data.list shape", func() {
			env, err := decodeEnvelope([]byte(`{"code":1,"data":{"list":[{"vod_id":1},{"vod_id":2}],"page":1,"pagecount":5,"total":90,"limit":20}}`))

			So(err, ShouldBeNil)

			items, pagination := env.extract(1, 20)
			So(len(items), ShouldEqual, 2)
			So(pagination.TotalPages, ShouldEqual, 5)
			So(env.totalCount(), ShouldEqual, 90)
		})

		Convey("Bare data array shape", func() {
			env, err := decodeEnvelope([]byte(`{"code":1,"data":[{"vod_id":1}]}`))

			So(err, ShouldBeNil)

			items, pagination := env.extract(1, 20)
			So(len(items), ShouldEqual, 1)
			So(pagination, ShouldBeNil)
		})

		Convey("Total without a page count computes pagination locally", func() {
			env := lo.Must(decodeEnvelope([]byte(`{"code":1,"total":45,"list":[]}`)))

			_, pagination := env.extract(1, 20)
			So(pagination, ShouldNotBeNil)
			So(pagination.TotalPages, ShouldEqual, 3)
		})

		Convey("Garbage fails", func() {
			_, err := decodeEnvelope([]byte(`<!DOCTYPE html><html></html>`))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestMapRecord(t *testing.T) {
	Convey("Record mapping", t, func() {
		Convey("Maps the maccms schema", func() {
			record := mapRecord("测试资源", map[string]any{
				"vod_id":        float64(42),
				"vod_name":      "三体",
				"vod_blurb":     "<p>地球往事&nbsp;三部曲</p>",
				"vod_pic":       "https://img.example/42.jpg",
				"vod_hits":      "1024",
				"vod_pubdate":   "2023-01-15",
				"vod_class":     "科幻",
				"vod_actor":     "张鲁一",
				"vod_area":      "中国大陆",
				"vod_lang":      "国语",
				"vod_year":      "2023",
				"vod_remarks":   "全30集",
				"type_name":     "国产剧",
				"vod_play_from": "m3u8",
				"vod_play_url":  "第01集$https://cdn.example/1.m3u8#第02集$https://cdn.example/2.m3u8",
			})

			So(record.ID, ShouldEqual, "42")
			So(record.Title, ShouldEqual, "三体")
			So(record.Description, ShouldEqual, "地球往事 三部曲")
			So(record.ViewCount, ShouldEqual, 1024)
			So(record.Year, ShouldEqual, "2023")
			So(record.Status, ShouldEqual, "全30集")
			So(record.PlaySources.Total(), ShouldEqual, 2)
			So(record.Valid(), ShouldBeTrue)
		})

		Convey("Falls back to vod_content and vod_time", func() {
			record := mapRecord("x", map[string]any{
				"vod_id":      "1",
				"vod_name":    "t",
				"vod_content": "desc",
				"vod_time":    "2024-05-01 10:00:00",
			})

			So(record.Description, ShouldEqual, "desc")
			So(record.UploadDate, ShouldEqual, "2024-05-01 10:00:00")
		})

		Convey("Missing identity fields make the record invalid", func() {
			So(mapRecord("x", map[string]any{"vod_name": "t"}).Valid(), ShouldBeFalse)
			So(mapRecord("x", map[string]any{"vod_id": "1"}).Valid(), ShouldBeFalse)
		})
	})
}

func TestSearch(t *testing.T) {
	Convey("Search", t, func() {
		Convey("Queries with the configured params and normalizes the page", func() {
			var gotQuery map[string]string

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = map[string]string{
					"ac": r.URL.Query().Get("ac"),
					"wd": r.URL.Query().Get("wd"),
					"pg": r.URL.Query().Get("pg"),
				}

				fmt.Fprint(w, `{
					"code": 1, "page": 1, "pagecount": 1, "limit": "20", "total": 3,
					"list": [
						{"vod_id": 1, "vod_name": "三体", "type_name": "国产剧"},
						{"vod_id": 2, "vod_name": "三体预告", "type_name": "预告片"},
						{"vod_id": "", "vod_name": "无编号"}
					]
				}`)
			}))
			defer server.Close()

			reply, err := New(testSite(server.URL)).Search(context.Background(), "三体", 1, 20)

			So(err, ShouldBeNil)
			So(gotQuery["ac"], ShouldEqual, "detail")
			So(gotQuery["wd"], ShouldEqual, "三体")
			So(gotQuery["pg"], ShouldEqual, "1")

			So(reply.SiteName, ShouldEqual, "测试资源")
			// The trailer category and the id-less record are dropped.
			So(len(reply.Records), ShouldEqual, 1)
			So(reply.Records[0].Title, ShouldEqual, "三体")
			So(reply.Pagination, ShouldNotBeNil)
			So(reply.TotalCount, ShouldEqual, 3)
		})

		Convey("An HTML block page is a typed error", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `<!DOCTYPE html><html><body>Access denied</body></html>`)
			}))
			defer server.Close()

			_, err := New(testSite(server.URL)).Search(context.Background(), "html-body", 1, 20)
			So(errors.Is(err, ErrNotJSON), ShouldBeTrue)
		})

		Convey("Rejects invalid page arguments", func() {
			_, err := New(testSite("https://unused.example")).Search(context.Background(), "x", 0, 20)
			So(err, ShouldNotBeNil)

			_, err = New(testSite("https://unused.example")).Search(context.Background(), "x", 1, source.MaxPageSize+1)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestDetail(t *testing.T) {
	Convey("Detail", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{
				"code": 1, "page": 1, "pagecount": 1, "limit": "50", "total": 2,
				"list": [
					{"vod_id": 10, "vod_name": "庆余年"},
					{"vod_id": 11, "vod_name": "庆余年 第二季"}
				]
			}`)
		}))
		defer server.Close()

		adapter := New(testSite(server.URL))

		Convey("Matches by id", func() {
			record, err := adapter.Detail(context.Background(), "庆余年", "11")

			So(err, ShouldBeNil)
			So(record.Title, ShouldEqual, "庆余年 第二季")
		})

		Convey("Falls back to the closest title when the id is gone", func() {
			record, err := adapter.Detail(context.Background(), "庆余年", "999")

			So(err, ShouldBeNil)
			So(record.Title, ShouldEqual, "庆余年")
		})
	})
}
