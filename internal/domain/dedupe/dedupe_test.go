package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/skillboard/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		ctx := context.Background()

		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should be empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording team ids", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the id is new", func() {
				seen := d.SeenAndRecord(ctx, "121849")

				Convey("Then it should return false and record the id", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the id was already seen", func() {
				d.SeenAndRecord(ctx, "121849")
				seen := d.SeenAndRecord(ctx, "121849")

				Convey("Then it should return true", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the id is unrecorded", func() {
				d.SeenAndRecord(ctx, "46465")
				d.Unrecord(ctx, "46465")

				Convey("Then it can be recorded again", func() {
					So(d.Size(), ShouldEqual, 0)
					So(d.SeenAndRecord(ctx, "46465"), ShouldBeFalse)
				})
			})

			Convey("And an unknown id is unrecorded", func() {
				d.SeenAndRecord(ctx, "1")
				d.Unrecord(ctx, "2")

				Convey("Then the size is unchanged", func() {
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the deduper is reset", func() {
				d.SeenAndRecord(ctx, "1")
				d.SeenAndRecord(ctx, "2")
				d.Reset(ctx)

				Convey("Then every id is forgotten", func() {
					So(d.Size(), ShouldEqual, 0)
					So(d.SeenAndRecord(ctx, "1"), ShouldBeFalse)
				})
			})
		})

		Convey("When the deduper is bounded", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
			for _, id := range []string{"a", "b", "c", "d"} {
				So(d.SeenAndRecord(ctx, id), ShouldBeFalse)
			}

			Convey("Then the oldest id is evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "d"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
			})
		})

		Convey("When the deduper is unbounded", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
			for i := 0; i < 500; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("team-%d", i))
			}

			Convey("Then nothing is evicted", func() {
				So(d.Size(), ShouldEqual, 500)
				So(d.SeenAndRecord(ctx, "team-0"), ShouldBeTrue)
			})
		})

		Convey("When recording concurrently", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
			var wg sync.WaitGroup
			var mu sync.Mutex
			fresh := 0
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if !d.SeenAndRecord(ctx, "shared") {
						mu.Lock()
						fresh++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			Convey("Then exactly one caller records the id", func() {
				So(fresh, ShouldEqual, 1)
				So(d.Size(), ShouldEqual, 1)
			})
		})
	})
}
