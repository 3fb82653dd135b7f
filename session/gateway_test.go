package session

import (
	"testing"
	"time"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vodhound/vodhound/filesystem"
	"github.com/vodhound/vodhound/where"
)

func sampleSnapshot() *Snapshot {
	store := New()
	epoch := store.StartSearch("dragon")
	lo.Must0(store.ApplyOutcome(outcome("a", "A", epoch, records("A", 25)), ModeAppend))
	return store.Snapshot()
}

func TestGateway(t *testing.T) {
	Convey("Gateway", t, func() {
		base := time.Now()
		gateway := NewGateway()
		gateway.now = func() time.Time { return base }

		Convey("Load on a fresh cache reports absent", func() {
			lo.Must0(gateway.Clear())

			_, ok := gateway.Load()
			So(ok, ShouldBeFalse)
		})

		Convey("Save then Load round-trips within the TTL", func() {
			So(gateway.Save(sampleSnapshot()), ShouldBeNil)

			loaded, ok := gateway.Load()
			So(ok, ShouldBeTrue)
			So(loaded.Keyword, ShouldEqual, "dragon")
			So(len(loaded.Buckets), ShouldEqual, 1)
			So(len(loaded.Buckets[0].Records), ShouldEqual, 25)
			So(loaded.PersistedAt, ShouldEqual, base.UnixMilli())
		})

		Convey("A snapshot one millisecond inside the TTL survives", func() {
			So(gateway.Save(sampleSnapshot()), ShouldBeNil)

			gateway.now = func() time.Time { return base.Add(TTL - time.Millisecond) }

			_, ok := gateway.Load()
			So(ok, ShouldBeTrue)
		})

		Convey("A snapshot one millisecond past the TTL is absent and deleted", func() {
			So(gateway.Save(sampleSnapshot()), ShouldBeNil)

			gateway.now = func() time.Time { return base.Add(TTL + time.Millisecond) }

			_, ok := gateway.Load()
			So(ok, ShouldBeFalse)

			// The expiry also deleted the snapshot, so a load back inside
			// the window still misses.
			gateway.now = func() time.Time { return base }
			_, ok = gateway.Load()
			So(ok, ShouldBeFalse)
		})

		Convey("Saves are last-write-wins", func() {
			first := sampleSnapshot()
			So(gateway.Save(first), ShouldBeNil)

			second := sampleSnapshot()
			second.Keyword = "tiger"
			So(gateway.Save(second), ShouldBeNil)

			loaded, ok := gateway.Load()
			So(ok, ShouldBeTrue)
			So(loaded.Keyword, ShouldEqual, "tiger")
		})

		Convey("A corrupt snapshot is a cache miss", func() {
			lo.Must0(filesystem.API().WriteFile(where.Session(), []byte("{ not json"), 0644))

			fresh := NewGateway()
			fresh.now = func() time.Time { return base }

			_, ok := fresh.Load()
			So(ok, ShouldBeFalse)
		})
	})
}

func TestRestore(t *testing.T) {
	Convey("Restore", t, func() {
		Convey("Rehydrates an empty store", func() {
			snapshot := sampleSnapshot()

			store := New()
			So(store.Restore(snapshot), ShouldBeTrue)

			So(store.Keyword(), ShouldEqual, "dragon")
			So(store.Active(), ShouldEqual, "A")
			So(len(store.VisibleSlice()), ShouldEqual, 20)

			id, ok := store.ResolveSource("A")
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, "a")
		})

		Convey("Refuses a store that already holds a session", func() {
			store := New()
			epoch := store.StartSearch("tiger")
			lo.Must0(store.ApplyOutcome(outcome("b", "B", epoch, records("B", 1)), ModeAppend))

			So(store.Restore(sampleSnapshot()), ShouldBeFalse)
			So(store.Keyword(), ShouldEqual, "tiger")
		})

		Convey("Drops empty buckets and dangling active cursors", func() {
			snapshot := sampleSnapshot()
			snapshot.Buckets = append(snapshot.Buckets, &Bucket{DisplayName: "Empty"})
			snapshot.Active = "Empty"

			store := New()
			So(store.Restore(snapshot), ShouldBeTrue)

			So(len(store.AvailableBuckets()), ShouldEqual, 1)
			So(store.Active(), ShouldBeEmpty)
		})
	})
}
