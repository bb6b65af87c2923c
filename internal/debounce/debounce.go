// Package debounce collapses bursts of filesystem events into single calls.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs the last triggered function once no trigger arrived for delay.
type Debouncer struct {
	keyed *Keyed
}

// New returns a Debouncer waiting delay after the last trigger.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{keyed: NewKeyed(delay)}
}

// Trigger schedules fn, replacing any pending call.
func (d *Debouncer) Trigger(fn func()) {
	d.keyed.Trigger("", fn)
}

// Stop cancels a pending call and waits for a running one to finish.
// Triggers after Stop are ignored.
func (d *Debouncer) Stop() {
	d.keyed.Stop()
}

// Keyed debounces independently per key.
type Keyed struct {
	mu      sync.Mutex
	delay   time.Duration
	timers  map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

// NewKeyed returns a Keyed debouncer waiting delay after the last trigger of each key.
func NewKeyed(delay time.Duration) *Keyed {
	return &Keyed{delay: delay, timers: make(map[string]*time.Timer)}
}

// Trigger schedules fn for key, replacing the call pending for that key.
func (k *Keyed) Trigger(key string, fn func()) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.stopped {
		return
	}
	if t, ok := k.timers[key]; ok && t.Stop() {
		k.wg.Done()
	}

	k.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(k.delay, func() {
		defer k.wg.Done()
		k.mu.Lock()
		if k.timers[key] == t {
			delete(k.timers, key)
		}
		k.mu.Unlock()
		fn()
	})
	k.timers[key] = t
}

// Pending returns the number of keys waiting to fire.
func (k *Keyed) Pending() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.timers)
}

// Stop cancels pending calls and waits for running ones to finish.
func (k *Keyed) Stop() {
	k.mu.Lock()
	k.stopped = true
	for key, t := range k.timers {
		if t.Stop() {
			k.wg.Done()
		}
		delete(k.timers, key)
	}
	k.mu.Unlock()
	k.wg.Wait()
}
