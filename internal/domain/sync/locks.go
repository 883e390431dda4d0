package sync

import "sync"

// itemLocks serializes sync work per item so overlapping triggers for the
// same item cannot race on the cursor read-modify-write. Locks are created
// on first use and kept for the life of the process; the item population
// is small enough that they are never reaped.
type itemLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newItemLocks() *itemLocks {
	return &itemLocks{locks: make(map[int64]*sync.Mutex)}
}

// lock blocks until the item's lock is held and returns the unlock func.
func (l *itemLocks) lock(itemID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[itemID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[itemID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
