package draft

import (
	"sync"
	"time"
)

// SaveDelay is how long after the last edit a draft write fires.
const SaveDelay = 600 * time.Millisecond

// Debouncer coalesces rapid edits into one deferred save. Every Trigger
// cancels the previous timer; Stop cancels a pending save outright, so a
// save is best-effort if the owner goes away first.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = SaveDelay
	}
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
