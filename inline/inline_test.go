package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vodhound/vodhound/config"
	"github.com/vodhound/vodhound/filesystem"
	"github.com/vodhound/vodhound/source"
)

func init() {
	filesystem.SetMemMapFs()
	lo.Must0(config.Setup())
}

type stubSource struct {
	id      string
	name    string
	records []*source.Record
	err     error
}

func (s *stubSource) ID() string   { return s.id }
func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Search(_ context.Context, _ string, _, _ int) (*source.Reply, error) {
	if s.err != nil {
		return nil, s.err
	}

	return &source.Reply{
		SiteName:   s.name,
		Records:    s.records,
		Pagination: lo.ToPtr(source.NewPageState(1, 20, len(s.records))),
	}, nil
}

func (s *stubSource) Detail(_ context.Context, _, id string) (*source.Record, error) {
	return &source.Record{
		Platform: s.name,
		ID:       id,
		Title:    "detailed",
		PlaySources: source.PlaySources{
			"m3u8": {{Name: "第01集", URL: "https://cdn.example.com/" + id + ".m3u8"}},
		},
	}, nil
}

func stubRecords(site string, n int) []*source.Record {
	records := make([]*source.Record, n)
	for i := range records {
		records[i] = &source.Record{
			Platform: site,
			ID:       fmt.Sprintf("%s-%d", site, i+1),
			Title:    fmt.Sprintf("%s 影片 %d", site, i+1),
		}
	}
	return records
}

func TestRun(t *testing.T) {
	Convey("Inline run", t, func() {
		up := &stubSource{id: "up", name: "稳定资源", records: stubRecords("稳定资源", 3)}
		down := &stubSource{id: "down", name: "离线资源", err: errors.New("connection refused")}

		Convey("Should emit machine-readable output with failures listed", func() {
			var buf bytes.Buffer
			err := Run(context.Background(), &Options{
				Out:     &buf,
				Sources: []source.Source{up, down},
				Keyword: "影片",
				Json:    true,
			})
			So(err, ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Query, ShouldEqual, "影片")
			So(output.Page, ShouldEqual, 1)
			So(output.Buckets, ShouldHaveLength, 1)
			So(output.Buckets[0].Site, ShouldEqual, "稳定资源")
			So(output.Buckets[0].SiteID, ShouldEqual, "up")
			So(output.Buckets[0].Count, ShouldEqual, 3)
			So(output.Failed, ShouldHaveLength, 1)
			So(output.Failed[0].Site, ShouldEqual, "离线资源")
		})

		Convey("Should honor the picker and resolve play sources", func() {
			picker, err := ParseRecordPicker("first", "")
			So(err, ShouldBeNil)

			var buf bytes.Buffer
			err = Run(context.Background(), &Options{
				Out:          &buf,
				Sources:      []source.Source{up},
				Keyword:      "影片",
				Json:         true,
				IncludePlay:  true,
				RecordPicker: mo.Some(picker),
			})
			So(err, ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Picked, ShouldNotBeNil)
			So(output.Picked.Title, ShouldEqual, "detailed")
			So(output.Picked.PlaySources.Total(), ShouldEqual, 1)
		})

		Convey("Should print play URLs in plain mode", func() {
			picker, err := ParseRecordPicker("index", "1")
			So(err, ShouldBeNil)

			var buf bytes.Buffer
			err = Run(context.Background(), &Options{
				Out:          &buf,
				Sources:      []source.Source{up},
				Keyword:      "影片",
				IncludePlay:  true,
				RecordPicker: mo.Some(picker),
			})
			So(err, ShouldBeNil)
			So(strings.TrimSpace(buf.String()), ShouldEqual, "https://cdn.example.com/稳定资源-2.m3u8")
		})

		Convey("Should fail on an empty keyword", func() {
			err := Run(context.Background(), &Options{Sources: []source.Source{up}, Keyword: "  "})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestParseRecordPicker(t *testing.T) {
	Convey("ParseRecordPicker", t, func() {
		records := stubRecords("demo", 3)

		Convey("first and last", func() {
			first := lo.Must(ParseRecordPicker("first", ""))
			last := lo.Must(ParseRecordPicker("last", ""))

			So(first(records).ID, ShouldEqual, "demo-1")
			So(last(records).ID, ShouldEqual, "demo-3")
			So(first(nil), ShouldBeNil)
		})

		Convey("exact matches titles case-insensitively", func() {
			records[1].Title = "The Wandering Earth"
			exact := lo.Must(ParseRecordPicker("exact", "the wandering earth"))

			So(exact(records).ID, ShouldEqual, "demo-2")
			So(exact(records[:1]), ShouldBeNil)
		})

		Convey("index clamps to the result set", func() {
			pick := lo.Must(ParseRecordPicker("index", "99"))
			So(pick(records).ID, ShouldEqual, "demo-3")

			_, err := ParseRecordPicker("index", "-1")
			So(err, ShouldNotBeNil)
		})

		Convey("unknown kinds are rejected", func() {
			_, err := ParseRecordPicker("middle", "")
			So(err, ShouldNotBeNil)
		})
	})
}
