package session

import (
	"errors"
	"fmt"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vodhound/vodhound/config"
	"github.com/vodhound/vodhound/filesystem"
	"github.com/vodhound/vodhound/source"
)

func init() {
	filesystem.SetMemMapFs()
	lo.Must0(config.Setup())
}

func records(platform string, n int) []*source.Record {
	out := make([]*source.Record, n)
	for i := range out {
		out[i] = &source.Record{
			Platform: platform,
			ID:       fmt.Sprintf("%s-%d", platform, i),
			Title:    fmt.Sprintf("title %d", i),
		}
	}
	return out
}

func outcome(id, name string, epoch uint64, recs []*source.Record) source.Outcome {
	return source.Outcome{
		SourceID:    id,
		DisplayName: name,
		Epoch:       epoch,
		Records:     recs,
	}
}

func TestApplyOutcome(t *testing.T) {
	Convey("ApplyOutcome", t, func() {
		store := New()
		epoch := store.StartSearch("dragon")

		Convey("Append materializes a bucket only for non-empty records", func() {
			So(store.ApplyOutcome(outcome("a", "A", epoch, nil), ModeAppend), ShouldBeNil)
			So(len(store.AvailableBuckets()), ShouldEqual, 0)
			So(store.Active(), ShouldBeEmpty)

			So(store.ApplyOutcome(outcome("a", "A", epoch, records("A", 3)), ModeAppend), ShouldBeNil)
			So(len(store.AvailableBuckets()), ShouldEqual, 1)
			So(store.Active(), ShouldEqual, "A")
		})

		Convey("Append extends an existing bucket and recomputes local pagination", func() {
			lo.Must0(store.ApplyOutcome(outcome("a", "A", epoch, records("A", 15)), ModeAppend))
			lo.Must0(store.ApplyOutcome(outcome("a", "A", epoch, records("A", 30)), ModeAppend))

			bucket, ok := store.Bucket("A")
			So(ok, ShouldBeTrue)
			So(len(bucket.Records), ShouldEqual, 45)
			So(bucket.Page.CurrentPage, ShouldEqual, 1)
			So(bucket.Page.TotalPages, ShouldEqual, 3)
		})

		Convey("Append keeps upstream pagination verbatim", func() {
			upstream := source.PageState{CurrentPage: 1, PageSize: 20, TotalCount: 200, TotalPages: 10}

			out := outcome("a", "A", epoch, records("A", 20))
			out.Pagination = &upstream

			lo.Must0(store.ApplyOutcome(out, ModeAppend))

			bucket, _ := store.Bucket("A")
			So(bucket.Page, ShouldResemble, upstream)
		})

		Convey("Failed outcomes mutate nothing", func() {
			failed := outcome("a", "A", epoch, records("A", 5))
			failed.Err = errors.New("timeout")

			So(store.ApplyOutcome(failed, ModeAppend), ShouldBeNil)
			So(len(store.AvailableBuckets()), ShouldEqual, 0)
		})

		Convey("Stale-epoch outcomes are dropped unconditionally", func() {
			stale := outcome("a", "A", epoch, records("A", 5))

			store.StartSearch("tiger")

			So(store.ApplyOutcome(stale, ModeAppend), ShouldBeNil)
			So(len(store.AvailableBuckets()), ShouldEqual, 0)
		})

		Convey("Replace swaps records wholesale", func() {
			lo.Must0(store.ApplyOutcome(outcome("a", "A", epoch, records("A", 45)), ModeAppend))

			page2 := outcome("a", "A", epoch, records("A2", 20))
			page2.Pagination = &source.PageState{CurrentPage: 2, PageSize: 20, TotalCount: 45, TotalPages: 3}

			So(store.ApplyOutcome(page2, ModeReplace), ShouldBeNil)

			bucket, _ := store.Bucket("A")
			So(len(bucket.Records), ShouldEqual, 20)
			So(bucket.Mode, ShouldEqual, ModeReplace)
			So(bucket.Page.CurrentPage, ShouldEqual, 2)
		})

		Convey("Replace is idempotent", func() {
			out := outcome("a", "A", epoch, records("A", 20))
			out.Pagination = &source.PageState{CurrentPage: 2, PageSize: 20, TotalCount: 45, TotalPages: 3}

			So(store.ApplyOutcome(out, ModeReplace), ShouldBeNil)
			first, _ := store.Bucket("A")

			So(store.ApplyOutcome(out, ModeReplace), ShouldBeNil)
			second, _ := store.Bucket("A")

			So(second, ShouldResemble, first)
		})

		Convey("Replace without pagination fails and leaves the bucket untouched", func() {
			lo.Must0(store.ApplyOutcome(outcome("a", "A", epoch, records("A", 10)), ModeAppend))
			before, _ := store.Bucket("A")

			err := store.ApplyOutcome(outcome("a", "A", epoch, records("A2", 20)), ModeReplace)

			So(errors.Is(err, ErrMissingPagination), ShouldBeTrue)

			after, _ := store.Bucket("A")
			So(after, ShouldResemble, before)
		})

		Convey("Partial failure yields exactly the succeeding buckets", func() {
			for i := 0; i < 5; i++ {
				out := outcome(fmt.Sprintf("s%d", i), fmt.Sprintf("S%d", i), epoch, records("S", 1))
				if i%2 == 1 {
					out.Err = errors.New("down")
					out.Records = nil
				}

				lo.Must0(store.ApplyOutcome(out, ModeAppend))
			}

			So(len(store.AvailableBuckets()), ShouldEqual, 3)
		})

		Convey("Buckets keep arrival order", func() {
			lo.Must0(store.ApplyOutcome(outcome("c", "C", epoch, records("C", 1)), ModeAppend))
			lo.Must0(store.ApplyOutcome(outcome("a", "A", epoch, records("A", 1)), ModeAppend))

			names := lo.Map(store.AvailableBuckets(), func(b BucketInfo, _ int) string { return b.Name })
			So(names, ShouldResemble, []string{"C", "A"})
		})

		Convey("Name identity is recorded for reverse resolution", func() {
			lo.Must0(store.ApplyOutcome(outcome("ruyi", "如意资源", epoch, records("r", 1)), ModeAppend))

			id, ok := store.ResolveSource("如意资源")
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, "ruyi")
		})
	})
}

func TestDragonScenario(t *testing.T) {
	Convey("Two sources, one times out", t, func() {
		store := New()
		epoch := store.StartSearch("dragon")

		lo.Must0(store.ApplyOutcome(outcome("a", "A", epoch, records("A", 25)), ModeAppend))

		timedOut := outcome("b", "B", epoch, nil)
		timedOut.Err = errors.New("context deadline exceeded")
		lo.Must0(store.ApplyOutcome(timedOut, ModeAppend))

		Convey("Bucket A is present with two pages", func() {
			bucket, ok := store.Bucket("A")
			So(ok, ShouldBeTrue)
			So(bucket.Page.TotalPages, ShouldEqual, 2)
		})

		Convey("Bucket B is absent", func() {
			_, ok := store.Bucket("B")
			So(ok, ShouldBeFalse)
		})

		Convey("A is the active bucket", func() {
			So(store.Active(), ShouldEqual, "A")
		})
	})
}

func TestNavigation(t *testing.T) {
	Convey("Navigation", t, func() {
		store := New()
		epoch := store.StartSearch("dragon")

		lo.Must0(store.ApplyOutcome(outcome("a", "A", epoch, records("A", 45)), ModeAppend))
		lo.Must0(store.ApplyOutcome(outcome("b", "B", epoch, records("B", 5)), ModeAppend))

		Convey("VisibleSlice returns the first 20 of 45 on page 1", func() {
			slice := store.VisibleSlice()

			So(len(slice), ShouldEqual, 20)
			So(slice[0].ID, ShouldEqual, "A-0")
			So(slice[19].ID, ShouldEqual, "A-19")
		})

		Convey("VisibleSlice windows the middle page", func() {
			lo.Must0(store.SetPage("A", 2))

			slice := store.VisibleSlice()
			So(len(slice), ShouldEqual, 20)
			So(slice[0].ID, ShouldEqual, "A-20")
		})

		Convey("VisibleSlice never exceeds the page size on the last page", func() {
			lo.Must0(store.SetPage("A", 3))
			So(len(store.VisibleSlice()), ShouldEqual, 5)
		})

		Convey("VisibleSlice returns a replace-tagged bucket as-is", func() {
			page3 := outcome("a", "A", epoch, records("A3", 7))
			page3.Pagination = &source.PageState{CurrentPage: 3, PageSize: 20, TotalCount: 47, TotalPages: 3}
			lo.Must0(store.ApplyOutcome(page3, ModeReplace))

			slice := store.VisibleSlice()
			So(len(slice), ShouldEqual, 7)
			So(slice[0].ID, ShouldEqual, "A3-0")
		})

		Convey("SetPage clamps to the valid range", func() {
			lo.Must0(store.SetPage("A", 99))
			page, _ := store.CurrentPagination()
			So(page.CurrentPage, ShouldEqual, 3)

			lo.Must0(store.SetPage("A", -4))
			page, _ = store.CurrentPagination()
			So(page.CurrentPage, ShouldEqual, 1)
		})

		Convey("SwitchActiveBucket moves the cursor", func() {
			So(store.SwitchActiveBucket("B", false), ShouldBeNil)
			So(store.Active(), ShouldEqual, "B")
			So(len(store.VisibleSlice()), ShouldEqual, 5)
		})

		Convey("SwitchActiveBucket with resetPage rewinds to page one", func() {
			lo.Must0(store.SetPage("A", 2))
			So(store.SwitchActiveBucket("A", true), ShouldBeNil)

			page, _ := store.CurrentPagination()
			So(page.CurrentPage, ShouldEqual, 1)
			So(page.TotalPages, ShouldEqual, 3)
		})

		Convey("SwitchActiveBucket on an unknown name fails and keeps the cursor", func() {
			err := store.SwitchActiveBucket("ghost", false)

			So(errors.Is(err, ErrUnknownBucket), ShouldBeTrue)
			So(store.Active(), ShouldEqual, "A")
		})

		Convey("Clear empties the session but keeps the epoch monotonic", func() {
			before := store.Epoch()
			store.Clear()

			So(store.Keyword(), ShouldBeEmpty)
			So(store.Active(), ShouldBeEmpty)
			So(len(store.AvailableBuckets()), ShouldEqual, 0)
			So(store.Epoch(), ShouldBeGreaterThan, before)
		})
	})
}

func TestStatistics(t *testing.T) {
	Convey("Statistics", t, func() {
		store := New()
		epoch := store.StartSearch("dragon")

		recs := records("A", 3)
		recs[0].TypeName = "国产剧"
		recs[1].TypeName = "国产剧"
		recs[2].TypeName = "动作片"

		out := outcome("a", "A", epoch, recs)
		out.Pagination = &source.PageState{CurrentPage: 1, PageSize: 20, TotalCount: 80, TotalPages: 4}
		lo.Must0(store.ApplyOutcome(out, ModeAppend))

		stats := store.Statistics()

		So(stats.Buckets, ShouldEqual, 1)
		So(stats.Records, ShouldEqual, 3)
		So(stats.Total, ShouldEqual, 80)
		So(stats.PerBucket[0].Categories["国产剧"], ShouldEqual, 2)
	})
}
