// Package watcher contains the polling loops that turn the stateless local
// API into edge-triggered events: direct messages, group messages, lobby
// and queue transitions, ready checks, and champion select. Each watcher
// owns its cursor state exclusively and treats every read failure as "no
// data this cycle".
package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// runner is the shared Start/Stop scaffolding for a polling loop. Safe to
// start and stop more than once; only the first call of each does anything.
type runner struct {
	interval  time.Duration
	log       zerolog.Logger
	done      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

func newRunner(interval time.Duration, log zerolog.Logger) runner {
	return runner{
		interval: interval,
		log:      log,
		done:     make(chan struct{}),
	}
}

// start launches the loop, invoking cycle once per interval until the
// context is cancelled or stop is called.
func (r *runner) start(ctx context.Context, cycle func(context.Context)) {
	r.startOnce.Do(func() {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()

			ticker := time.NewTicker(r.interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					r.log.Debug().Msg("context cancelled, watcher shutting down")
					return
				case <-r.done:
					r.log.Debug().Msg("stop requested, watcher shutting down")
					return
				case <-ticker.C:
					cycle(ctx)
				}
			}
		}()
		r.log.Info().Dur("interval", r.interval).Msg("watcher started")
	})
}

// stop shuts the loop down and waits for the goroutine to exit. Cursor
// state is memory-only and intentionally discarded.
func (r *runner) stop() {
	r.stopOnce.Do(func() {
		close(r.done)
		r.wg.Wait()
		r.log.Info().Msg("watcher stopped")
	})
}

// sleep waits for d while staying responsive to cancellation.
func (r *runner) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-r.done:
		return false
	case <-t.C:
		return true
	}
}

// ActiveGroup is the shared handle to the currently followed group
// conversation. The lobby-chat follower writes it; the group watcher and
// the console read it.
type ActiveGroup struct {
	mu sync.RWMutex
	id string
}

// Get returns the followed conversation id, or "" when none is selected.
func (a *ActiveGroup) Get() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.id
}

// Set changes the followed conversation id.
func (a *ActiveGroup) Set(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.id = id
}
