package internal

import (
	"context"
	"sync"
	"time"
)

// DefaultRefreshInterval is how often the chat view refreshes unread counts
const DefaultRefreshInterval = 10 * time.Second

// Refresher calls a function on a fixed interval until stopped
type Refresher struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// StartRefresher runs fn every interval until Stop is called or ctx ends.
func StartRefresher(ctx context.Context, interval time.Duration, fn func()) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	r := &Refresher{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				// Stop may race with a tick; it wins.
				select {
				case <-r.stop:
					return
				default:
				}
				fn()
			}
		}
	}()

	return r
}

// Stop cancels the timer and waits for the loop to exit. fn is never called
// after Stop returns. Calling Stop more than once is fine.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
}

// Done is closed once the loop has exited
func (r *Refresher) Done() <-chan struct{} {
	return r.done
}
