package recognition

import (
	"bytes"
	"context"
	"sync"

	"github.com/google/uuid"
)

// pairLocks is a keyed mutex over unordered participant pairs. {A, B} and
// {B, A} share one lock. Entries are dropped once nobody holds or waits.
type pairLocks struct {
	mu    sync.Mutex
	locks map[pairKey]*pairLock
}

type pairKey [2]uuid.UUID

type pairLock struct {
	ch   chan struct{}
	refs int
}

func newPairLocks() *pairLocks {
	return &pairLocks{locks: make(map[pairKey]*pairLock)}
}

func newPairKey(a, b uuid.UUID) pairKey {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Lock blocks until the pair is free or ctx is done.
func (l *pairLocks) Lock(ctx context.Context, a, b uuid.UUID) (unlock func(), err error) {
	key := newPairKey(a, b)

	l.mu.Lock()
	pl, ok := l.locks[key]
	if !ok {
		pl = &pairLock{ch: make(chan struct{}, 1)}
		l.locks[key] = pl
	}
	pl.refs++
	l.mu.Unlock()

	select {
	case pl.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-pl.ch
				l.release(key, pl)
			})
		}, nil
	case <-ctx.Done():
		l.release(key, pl)
		return nil, ctx.Err()
	}
}

func (l *pairLocks) release(key pairKey, pl *pairLock) {
	l.mu.Lock()
	pl.refs--
	if pl.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}

// size reports the number of live lock entries.
func (l *pairLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
