package booking

import "sync"

// slotLocks serializes the conflict-scan-then-write sequence per
// (doctorID, date) so two concurrent bookings cannot both pass the scan
// and double-book the same slot.
type slotLocks struct {
	mu   sync.Mutex
	held map[string]*slotLock
}

type slotLock struct {
	mu   sync.Mutex
	refs int
}

func newSlotLocks() *slotLocks {
	return &slotLocks{held: make(map[string]*slotLock)}
}

// lock blocks until the (doctorID, date) key is free and returns the
// release func. Entries are dropped once the last holder releases.
func (l *slotLocks) lock(doctorID, date string) func() {
	key := doctorID + "|" + date

	l.mu.Lock()
	entry, ok := l.held[key]
	if !ok {
		entry = &slotLock{}
		l.held[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.held, key)
		}
		l.mu.Unlock()
	}
}
