package service

import "sync"

// screeningLocks hands out one mutex per screening id so admissions against
// the same screening serialize while different screenings admit in
// parallel. Locks are never evicted; a screening costs one mutex for the
// process lifetime.
type screeningLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newScreeningLocks() *screeningLocks {
	return &screeningLocks{locks: make(map[int64]*sync.Mutex)}
}

func (l *screeningLocks) Lock(screeningID int64) {
	l.mu.Lock()
	lock, ok := l.locks[screeningID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[screeningID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
}

func (l *screeningLocks) Unlock(screeningID int64) {
	l.mu.Lock()
	lock := l.locks[screeningID]
	l.mu.Unlock()

	lock.Unlock()
}
