package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/rinkstats/internal/adapters/mq/queue"
	"github.com/okian/rinkstats/internal/adapters/mq/worker"
	"github.com/okian/rinkstats/internal/domain/gamestats"
	"github.com/okian/rinkstats/internal/domain/model"
	logging "github.com/okian/rinkstats/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	jobs chan queue.Job
	once sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan queue.Job, 128)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan queue.Job { return mq.jobs }

func (mq *mockQueue) Close() error {
	mq.once.Do(func() { close(mq.jobs) })
	return nil
}

func (mq *mockQueue) add(gameID string) {
	mq.jobs <- model.GameJob{ID: "job-" + gameID, GameID: gameID}
}

type mockComputer struct {
	mu     sync.RWMutex
	errors map[string]error
}

func newMockComputer() *mockComputer {
	return &mockComputer{errors: make(map[string]error)}
}

func (mc *mockComputer) Compute(_ context.Context, in gamestats.Input) (*gamestats.Report, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	if err, ok := mc.errors[in.GameID]; ok {
		return nil, err
	}
	return &gamestats.Report{GameID: in.GameID}, nil
}

func (mc *mockComputer) setError(gameID string, err error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.errors[gameID] = err
}

type mockSaver struct {
	mu      sync.RWMutex
	reports map[string]*gamestats.Report
	errors  map[string]error
}

func newMockSaver() *mockSaver {
	return &mockSaver{reports: make(map[string]*gamestats.Report), errors: make(map[string]error)}
}

func (ms *mockSaver) Put(_ context.Context, r *gamestats.Report) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if err, ok := ms.errors[r.GameID]; ok {
		return err
	}
	ms.reports[r.GameID] = r
	return nil
}

func (ms *mockSaver) setError(gameID string, err error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.errors[gameID] = err
}

func (ms *mockSaver) has(gameID string) bool {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	_, ok := ms.reports[gameID]
	return ok
}

func (ms *mockSaver) count() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.reports)
}

type failures struct {
	mu   sync.Mutex
	errs map[string]error
}

func (f *failures) record(_ context.Context, j queue.Job, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[j.GameID] = err
}

func (f *failures) get(gameID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[gameID]
}

// eventually polls cond until it holds or a second passes.
func eventually(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a running worker", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		computer := newMockComputer()
		saver := newMockSaver()
		failed := &failures{errs: make(map[string]error)}

		w := worker.NewInMemoryWorker(q, computer, saver,
			worker.WithName("test-worker"),
			worker.WithFailureHandler(failed.record),
		)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a game computes", func() {
			q.add("2021030415")

			convey.Convey("Then its report is stored", func() {
				convey.So(eventually(func() bool { return saver.has("2021030415") }), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the engine rejects a game", func() {
			computer.setError("2021030416", model.ErrNoEvents)
			q.add("2021030416")

			convey.Convey("Then nothing is stored and the failure is reported", func() {
				convey.So(eventually(func() bool { return failed.get("2021030416") != nil }), convey.ShouldBeTrue)
				convey.So(errors.Is(failed.get("2021030416"), model.ErrNoEvents), convey.ShouldBeTrue)
				convey.So(saver.has("2021030416"), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the store fails", func() {
			boom := errors.New("disk full")
			saver.setError("2021030417", boom)
			q.add("2021030417")

			convey.Convey("Then the failure is reported", func() {
				convey.So(eventually(func() bool { return failed.get("2021030417") != nil }), convey.ShouldBeTrue)
				convey.So(errors.Is(failed.get("2021030417"), boom), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()

			err := w.Shutdown(shutdownCtx)

			convey.Convey("Then it stops, and a second shutdown is harmless", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a worker whose queue closes", t, func() {
		q := newMockQueue()
		w := worker.NewInMemoryWorker(q, newMockComputer(), newMockSaver())
		done := make(chan struct{})
		go func() {
			w.Run(context.Background())
			close(done)
		}()

		_ = q.Close()

		convey.Convey("Then Run returns", func() {
			select {
			case <-done:
				convey.So(true, convey.ShouldBeTrue)
			case <-time.After(time.Second):
				convey.So("worker still running", convey.ShouldBeEmpty)
			}
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a worker pool", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		saver := newMockSaver()

		convey.Convey("When created with a non-positive count", func() {
			pool := worker.NewPool(0, q, newMockComputer(), saver)

			convey.Convey("Then it has at least one worker", func() {
				convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When processing many games concurrently", func() {
			pool := worker.NewPool(4, q, newMockComputer(), saver)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			pool.Start(ctx)

			const games = 100
			var wg sync.WaitGroup
			for i := 0; i < 5; i++ {
				wg.Add(1)
				go func(p int) {
					defer wg.Done()
					for j := 0; j < games/5; j++ {
						q.add(fmt.Sprintf("20210300%d%02d", p, j))
					}
				}(i)
			}
			wg.Wait()

			convey.Convey("Then every report is stored", func() {
				convey.So(eventually(func() bool { return saver.count() == games }), convey.ShouldBeTrue)
			})

			convey.Convey("Then shutdown drains and returns cleanly", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
				defer shutdownCancel()
				convey.So(pool.Shutdown(shutdownCtx), convey.ShouldBeNil)
				convey.So(saver.count(), convey.ShouldEqual, games)
			})
		})

		convey.Convey("When stopped", func() {
			pool := worker.NewPool(2, q, newMockComputer(), saver)
			pool.Start(context.Background())

			stopped := make(chan struct{})
			go func() {
				pool.Stop()
				close(stopped)
			}()

			convey.Convey("Then every worker exits", func() {
				select {
				case <-stopped:
					convey.So(true, convey.ShouldBeTrue)
				case <-time.After(time.Second):
					convey.So("pool still running", convey.ShouldBeEmpty)
				}
			})
		})
	})
}
