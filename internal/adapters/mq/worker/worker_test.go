package worker_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	queue "github.com/kelsall/accolade/internal/adapters/mq/queue"
	worker "github.com/kelsall/accolade/internal/adapters/mq/worker"
	"github.com/kelsall/accolade/internal/domain/award"
	"github.com/kelsall/accolade/internal/domain/model"
	logging "github.com/kelsall/accolade/pkg/logger"
)

// stubDispatcher records evaluated persons and grants a fixed set of awards
// for persons listed in grants.
type stubDispatcher struct {
	mu      sync.Mutex
	persons []string
	grants  map[string][]award.ID
}

func newStubDispatcher() *stubDispatcher {
	return &stubDispatcher{grants: make(map[string][]award.ID)}
}

func (d *stubDispatcher) Evaluate(ctx context.Context, trig queue.Trigger) []award.ID {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.persons = append(d.persons, trig.Person())
	return d.grants[trig.Person()]
}

func (d *stubDispatcher) seen(personID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.persons {
		if p == personID {
			return true
		}
	}
	return false
}

func TestPool(t *testing.T) {
	convey.Convey("Given a sweep worker pool", t, func() {
		_ = logging.Init()

		dispatcher := newStubDispatcher()

		convey.Convey("When creating a pool with a non-positive count", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(4))
			pool := worker.NewPool(0, q, dispatcher)

			convey.Convey("Then it should still be usable", func() {
				convey.So(pool, convey.ShouldNotBeNil)

				_ = q.Enqueue(context.Background(), model.ScheduledTrigger{PersonID: "mem_1"})
				_ = q.Close()
				pool.Run(context.Background())

				convey.So(pool.Processed(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When draining a closed queue", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(16))
			pool := worker.NewPool(4, q, dispatcher)

			dispatcher.grants["mem_2"] = []award.ID{"first_dip", "back_to_back"}

			for i := 1; i <= 10; i++ {
				ok := q.Enqueue(context.Background(), model.ScheduledTrigger{
					PersonID: fmt.Sprintf("mem_%d", i),
				})
				convey.So(ok, convey.ShouldBeTrue)
			}
			convey.So(q.Close(), convey.ShouldBeNil)

			pool.Run(context.Background())

			convey.Convey("Then every trigger is evaluated exactly once", func() {
				convey.So(pool.Processed(), convey.ShouldEqual, 10)
				for i := 1; i <= 10; i++ {
					convey.So(dispatcher.seen(fmt.Sprintf("mem_%d", i)), convey.ShouldBeTrue)
				}
			})

			convey.Convey("And the awarded counter sums dispatcher grants", func() {
				convey.So(pool.Awarded(), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When the context is cancelled mid-run", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(4))
			pool := worker.NewPool(2, q, dispatcher)

			ctx, cancel := context.WithCancel(context.Background())

			done := make(chan struct{})
			go func() {
				pool.Run(ctx)
				close(done)
			}()

			// Queue stays open and empty; only cancellation can stop the pool.
			time.Sleep(10 * time.Millisecond)
			cancel()

			convey.Convey("Then the pool stops without draining", func() {
				select {
				case <-done:
				case <-time.After(time.Second):
					convey.So("pool did not stop", convey.ShouldBeBlank)
				}
				convey.So(pool.Processed(), convey.ShouldEqual, 0)
			})
		})
	})
}
