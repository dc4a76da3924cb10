package debate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// fanOut runs fn for every index in [0, n) as concurrent tasks bounded
// by sem, and waits for all of them to settle. fn must not panic and
// reports nothing here: each stage records outcomes by index, so no
// task's failure can cancel a sibling.
func fanOut(ctx context.Context, sem *semaphore.Weighted, n int, fn func(ctx context.Context, i int)) {
	var wg sync.WaitGroup
	wg.Add(n)

	for i := range n {
		go func(i int) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				// Run context cancelled while queued; the task never starts.
				slog.Warn("Task cancelled before dispatch", "task", i, "error", err)
				return
			}
			defer sem.Release(1)

			fn(ctx, i)
		}(i)
	}

	wg.Wait()
}

// startHeartbeat logs progress for one in-flight agent call at the
// given interval. The returned stop function must be called on every
// exit path so no ticker outlives its call.
func startHeartbeat(interval time.Duration, agentID, problemID, method string) (stop func()) {
	if interval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	start := time.Now()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				slog.Info("Agent call in progress",
					"agent", agentID,
					"problem", problemID,
					"method", method,
					"elapsed_sec", int(time.Since(start).Seconds()))
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
