package repository_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/adapters/repository"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
)

type fakeSource struct {
	loads atomic.Int32
	fail  atomic.Bool
	size  int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Load(context.Context) (model.Dataset, error) {
	f.loads.Add(1)
	if f.fail.Load() {
		return model.Dataset{}, errors.New("boom")
	}
	records := make([]model.Record, f.size)
	for i := range records {
		records[i] = model.Record{Year: 2018 + i}
	}
	return model.NewDataset(nil, records), nil
}

func TestSnapshotStore(t *testing.T) {
	Convey("Given a snapshot store over a fake source", t, func() {
		src := &fakeSource{size: 3}
		stamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		store := repository.NewSnapshotStore(src, repository.WithClock(func() time.Time { return stamp }))

		Convey("Reads before the first load report not loaded", func() {
			_, err := store.Snapshot()
			So(errors.Is(err, repository.ErrNotLoaded), ShouldBeTrue)
			So(store.Count(), ShouldEqual, 0)
			So(store.LoadedAt().IsZero(), ShouldBeTrue)
		})

		Convey("Load publishes the dataset", func() {
			snap, err := store.Load(context.Background())
			So(err, ShouldBeNil)
			So(snap.Source, ShouldEqual, "fake")
			So(store.Count(), ShouldEqual, 3)
			So(store.LoadedAt(), ShouldEqual, stamp)

			Convey("A failed reload keeps the previous snapshot", func() {
				src.fail.Store(true)
				_, err := store.Load(context.Background())
				So(err, ShouldNotBeNil)

				current, err := store.Snapshot()
				So(err, ShouldBeNil)
				So(current, ShouldEqual, snap)
			})
		})
	})
}

func TestSnapshotStoreRefresh(t *testing.T) {
	Convey("Given a store refreshing every few milliseconds", t, func() {
		src := &fakeSource{size: 1}
		store := repository.NewSnapshotStore(src, repository.WithRefreshInterval(5*time.Millisecond))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		store.StartRefresh(ctx)
		deadline := time.Now().Add(2 * time.Second)
		for src.loads.Load() < 2 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}

		So(store.Close(), ShouldBeNil)
		So(src.loads.Load(), ShouldBeGreaterThanOrEqualTo, 2)
		So(store.Count(), ShouldEqual, 1)

		Convey("Close is idempotent", func() {
			So(store.Close(), ShouldBeNil)
		})
	})
}
