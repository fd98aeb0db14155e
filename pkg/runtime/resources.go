package runtime

import (
	"sync"
	"time"
)

// HandleTable maps integer ids to host resources. Ids are never reused.
type HandleTable[T any] struct {
	mu      sync.Mutex
	name    string
	next    int64
	entries map[int64]T
}

func NewHandleTable[T any](name string) *HandleTable[T] {
	return &HandleTable[T]{name: name, entries: make(map[int64]T)}
}

// Open registers value and returns its id.
func (t *HandleTable[T]) Open(value T) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.entries[t.next] = value
	return t.next
}

func (t *HandleTable[T]) Get(id int64) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	value, ok := t.entries[id]
	if !ok {
		var zero T
		return zero, Errorf(InvalidHandle, "%s handle %d is closed or unknown", t.name, id)
	}
	return value, nil
}

// Close releases id; the returned value is the resource that was open.
func (t *HandleTable[T]) Close(id int64) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	value, ok := t.entries[id]
	if !ok {
		var zero T
		return zero, Errorf(InvalidHandle, "%s handle %d is closed or unknown", t.name, id)
	}
	delete(t.entries, id)
	return value, nil
}

func (t *HandleTable[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

type Timer struct {
	ID      int64
	Started time.Time
}

// Resources is the per-interpreter resource manager handed to natives.
type Resources struct {
	Timers *HandleTable[*Timer]
	now    func() time.Time
}

func NewResources() *Resources {
	return &Resources{Timers: NewHandleTable[*Timer]("timer"), now: time.Now}
}

// Now returns the current time from the manager's clock.
func (r *Resources) Now() time.Time {
	return r.now()
}

// SetClock replaces the clock; tests use it to make timers deterministic.
func (r *Resources) SetClock(now func() time.Time) {
	r.now = now
}

// StartTimer opens a timer at the current time.
func (r *Resources) StartTimer() *Timer {
	timer := &Timer{Started: r.now()}
	timer.ID = r.Timers.Open(timer)
	return timer
}

// Elapsed returns the milliseconds since the timer started.
func (r *Resources) Elapsed(id int64) (float64, error) {
	timer, err := r.Timers.Get(id)
	if err != nil {
		return 0, err
	}
	return float64(r.now().Sub(timer.Started).Microseconds()) / 1000, nil
}

// StopTimer closes the timer and returns its final elapsed milliseconds.
func (r *Resources) StopTimer(id int64) (float64, error) {
	timer, err := r.Timers.Close(id)
	if err != nil {
		return 0, err
	}
	return float64(r.now().Sub(timer.Started).Microseconds()) / 1000, nil
}
