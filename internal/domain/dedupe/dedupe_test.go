package dedupe

import (
	"context"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRingDeduper(t *testing.T) {
	Convey("Given a bounded deduper", t, func() {
		ctx := context.Background()
		d := NewRingDeduper(WithMaxSize(3))

		Convey("When an id is recorded for the first time", func() {
			seen := d.SeenAndRecord(ctx, "d1")

			Convey("Then it is not a duplicate", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And a repeat is", func() {
				So(d.SeenAndRecord(ctx, "d1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the bound overflows", func() {
			for i := 0; i < 4; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("d%d", i))
			}

			Convey("Then the oldest id was evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "d0"), ShouldBeFalse)
			})

			Convey("And recent ids are still tracked", func() {
				So(d.SeenAndRecord(ctx, "d3"), ShouldBeTrue)
			})
		})
	})
}
