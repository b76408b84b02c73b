// Package watch notifies when the tally store is changed by another process.
package watch

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a burst of writes is reported.
const DefaultDebounce = 150 * time.Millisecond

// burst runs fire once per burst of touches, after quiet has passed with no
// further touch. A stopped burst ignores touches.
type burst struct {
	mu      sync.Mutex
	quiet   time.Duration
	fire    func()
	timer   *time.Timer
	stopped bool
}

func newBurst(quiet time.Duration, fire func()) *burst {
	return &burst{quiet: quiet, fire: fire}
}

func (b *burst) touch() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}
	if b.timer == nil {
		b.timer = time.AfterFunc(b.quiet, b.fire)
		return
	}
	b.timer.Reset(b.quiet)
}

// stop drops any pending fire.
func (b *burst) stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	if b.timer != nil {
		b.timer.Stop()
	}
}
