package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/rinkstats/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new InMemoryDeduper", t, func() {
		d := dedupe.NewInMemoryDeduper()
		So(d.Size(), ShouldEqual, 0)

		Convey("When a game is submitted for the first time", func() {
			seen := d.SeenAndRecord(ctx, "2021030415")

			Convey("Then it is new and recorded", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the same game is submitted twice", func() {
			d.SeenAndRecord(ctx, "2021030415")
			seen := d.SeenAndRecord(ctx, "2021030415")

			Convey("Then the second submission is a duplicate", func() {
				So(seen, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a recorded game is forgotten", func() {
			d.SeenAndRecord(ctx, "2021030415")
			d.SeenAndRecord(ctx, "2021030416")
			d.Forget(ctx, "2021030415")
			d.Forget(ctx, "2021030499")

			Convey("Then it can be submitted again", func() {
				So(d.Size(), ShouldEqual, 1)
				So(d.SeenAndRecord(ctx, "2021030415"), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "2021030416"), ShouldBeTrue)
			})
		})
	})

	Convey("Given a bounded deduper at capacity", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for _, id := range []string{"g1", "g2", "g3"} {
			So(d.SeenAndRecord(ctx, id), ShouldBeFalse)
		}

		Convey("When another game arrives", func() {
			So(d.SeenAndRecord(ctx, "g4"), ShouldBeFalse)

			Convey("Then the oldest game is evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "g2"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "g3"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "g4"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "g1"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 3)
			})
		})

		Convey("When a forgotten slot is reused", func() {
			d.Forget(ctx, "g1")
			So(d.SeenAndRecord(ctx, "g4"), ShouldBeFalse)

			Convey("Then nothing else is evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "g2"), ShouldBeTrue)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		for _, size := range []int{0, -1} {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(size))
			const games = 1000
			for i := 0; i < games; i++ {
				So(d.SeenAndRecord(ctx, fmt.Sprintf("g-%d", i)), ShouldBeFalse)
			}

			So(d.Size(), ShouldEqual, games)
			So(d.SeenAndRecord(ctx, "g-0"), ShouldBeTrue)
		}
	})
}

func TestDedupeConcurrency(t *testing.T) {
	Convey("Given many goroutines submitting overlapping games", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))

		const goroutines, games = 10, 100
		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			fresh int
		)
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < games; j++ {
					if !d.SeenAndRecord(ctx, fmt.Sprintf("g-%d", j)) {
						mu.Lock()
						fresh++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then each game is new exactly once", func() {
			So(fresh, ShouldEqual, games)
			So(d.Size(), ShouldEqual, games)
		})
	})
}
