package loading

import (
	"sync"
)

// Tracker is the global busy signal: a reference count of in-flight work.
// Busy is reported on 0->1 and idle on 1->0.
type Tracker struct {
	mu      sync.Mutex
	count   int
	epoch   uint64
	message string
	nextID  int
	subs    map[int]func(busy bool)
}

func NewTracker() *Tracker {
	return &Tracker{subs: make(map[int]func(bool))}
}

// Guard is released exactly once no matter how many times Release is called.
// A guard acquired before a Reset no longer counts.
type Guard struct {
	once    sync.Once
	tracker *Tracker
	epoch   uint64
}

func (t *Tracker) Acquire() *Guard {
	return &Guard{tracker: t, epoch: t.show("")}
}

func (g *Guard) Release() {
	g.once.Do(func() { g.tracker.hide(&g.epoch) })
}

func (t *Tracker) Show(message string) {
	t.show(message)
}

func (t *Tracker) Hide() {
	t.hide(nil)
}

// show counts one unit of work and returns the epoch it belongs to.
func (t *Tracker) show(message string) uint64 {
	t.mu.Lock()
	t.count++
	if message != "" {
		t.message = message
	}
	epoch := t.epoch
	transition := t.count == 1
	subs := t.snapshot()
	t.mu.Unlock()

	if transition {
		notifyAll(subs, true)
	}
	return epoch
}

// hide drops one unit of work. With epoch set, work counted before the last
// Reset is ignored.
func (t *Tracker) hide(epoch *uint64) {
	t.mu.Lock()
	if t.count == 0 || (epoch != nil && *epoch != t.epoch) {
		t.mu.Unlock()
		return
	}
	t.count--
	transition := t.count == 0
	if transition {
		t.message = ""
	}
	subs := t.snapshot()
	t.mu.Unlock()

	if transition {
		notifyAll(subs, false)
	}
}

// Reset forces the tracker idle and starts a new epoch; guards acquired
// before it release nothing.
func (t *Tracker) Reset() {
	t.mu.Lock()
	wasBusy := t.count > 0
	t.count = 0
	t.epoch++
	t.message = ""
	subs := t.snapshot()
	t.mu.Unlock()

	if wasBusy {
		notifyAll(subs, false)
	}
}

func (t *Tracker) Busy() bool {
	return t.Count() > 0
}

func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

func (t *Tracker) Message() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.message
}

func (t *Tracker) Subscribe(fn func(busy bool)) func() {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.subs[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}
}

func (t *Tracker) snapshot() []func(bool) {
	out := make([]func(bool), 0, len(t.subs))
	for _, fn := range t.subs {
		out = append(out, fn)
	}
	return out
}

func notifyAll(subs []func(bool), busy bool) {
	for _, fn := range subs {
		fn(busy)
	}
}
