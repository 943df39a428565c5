package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/mindthegap/internal/adapters/mq/queue"
	worker "github.com/okian/mindthegap/internal/adapters/mq/worker"
	chart "github.com/okian/mindthegap/internal/domain/chart"
	model "github.com/okian/mindthegap/internal/domain/model"
	logging "github.com/okian/mindthegap/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockWarmer struct {
	mu     sync.Mutex
	seen   []string
	errors map[string]error
}

func newMockWarmer() *mockWarmer {
	return &mockWarmer{errors: make(map[string]error)}
}

func (m *mockWarmer) Bundle(_ context.Context, fs model.FilterState) (chart.Bundle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = append(m.seen, fs.Key())
	if err, ok := m.errors[fs.Key()]; ok {
		return chart.Bundle{}, err
	}
	return chart.Bundle{Filter: fs}, nil
}

func (m *mockWarmer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seen)
}

func job(lo, hi int, countries ...string) queue.Job {
	return model.FilterState{YearMin: lo, YearMax: hi, Countries: countries}
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker reading a closed queue of jobs", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		warmer := newMockWarmer()
		convey.So(q.Enqueue(context.Background(), job(1900, 2000)), convey.ShouldBeTrue)
		convey.So(q.Enqueue(context.Background(), job(1900, 2000, "FRA")), convey.ShouldBeTrue)
		convey.So(q.Enqueue(context.Background(), job(1900, 2000, "USA")), convey.ShouldBeTrue)
		convey.So(q.Close(), convey.ShouldBeNil)

		convey.Convey("When one job fails", func() {
			bad := job(1900, 2000, "USA")
			warmer.errors[bad.Key()] = errors.New("boom")

			w := worker.NewInMemoryWorker(q, warmer, worker.WithName("w1"))
			w.Run(context.Background())

			convey.Convey("Then every job is attempted and counted", func() {
				convey.So(warmer.count(), convey.ShouldEqual, 3)
				convey.So(w.Processed(), convey.ShouldEqual, 2)
				convey.So(w.Failed(), convey.ShouldEqual, 1)
			})

			convey.Convey("Then Shutdown returns immediately", func() {
				convey.So(w.Shutdown(context.Background()), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a worker on an open, empty queue", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue()
		w := worker.NewInMemoryWorker(q, newMockWarmer(), worker.WithLogger(logging.Get()))

		go w.Run(context.Background())

		convey.Convey("When it is shut down", func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			convey.Convey("Then it exits without error", func() {
				convey.So(w.Shutdown(ctx), convey.ShouldBeNil)
				convey.So(w.Shutdown(ctx), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a worker whose context is canceled", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue()
		w := worker.NewInMemoryWorker(q, newMockWarmer())
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			w.Run(ctx)
			close(done)
		}()
		cancel()

		convey.Convey("Then Run returns", func() {
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("worker did not stop")
			}
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool of workers", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		warmer := newMockWarmer()
		for y := 1900; y < 1940; y++ {
			convey.So(q.Enqueue(context.Background(), job(y, y)), convey.ShouldBeTrue)
		}

		pool := worker.NewPool(3, q, warmer)
		pool.Start(context.Background())

		convey.Convey("When the queue is closed", func() {
			convey.So(q.Close(), convey.ShouldBeNil)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			convey.So(pool.Wait(ctx), convey.ShouldBeNil)

			convey.Convey("Then every job is warmed exactly once", func() {
				convey.So(warmer.count(), convey.ShouldEqual, 40)
				convey.So(pool.Processed(), convey.ShouldEqual, 40)
				convey.So(pool.Failed(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the pool is shut down", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			convey.So(pool.Shutdown(ctx), convey.ShouldBeNil)

			convey.Convey("Then the queue is closed and workers exit", func() {
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
				convey.So(pool.Wait(ctx), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a pool with a non-positive worker count", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue()
		pool := worker.NewPool(0, q, newMockWarmer())
		pool.Start(context.Background())

		convey.Convey("Then it still drains and stops", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			convey.So(pool.Shutdown(ctx), convey.ShouldBeNil)
			convey.So(pool.Wait(ctx), convey.ShouldBeNil)
		})
	})
}
