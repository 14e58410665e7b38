// Package lock provides per-key mutual exclusion for distribution groups.
// At most one distribution per group key is in flight; later callers for the
// same key wait in FIFO order. Different keys never contend.
package lock

import (
	"context"
	"sync"
	"time"

	"paygate/pkg/errdomain"
)

type state struct {
	held    bool
	waiters []chan struct{}
}

// KeyedLock is a registry of per-key locks. Keys are created on first
// acquisition and dropped once released with no waiters, so the registry
// does not grow with the number of historical groups.
type KeyedLock struct {
	mu      sync.Mutex
	locks   map[string]*state
	maxWait time.Duration
}

// Option customises the lock registry.
type Option func(*KeyedLock)

// WithMaxWait bounds how long Acquire waits for the current holder. Zero
// waits until the context is done.
func WithMaxWait(d time.Duration) Option {
	return func(l *KeyedLock) { l.maxWait = d }
}

// New creates an empty lock registry.
func New(opts ...Option) *KeyedLock {
	l := &KeyedLock{locks: make(map[string]*state)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Acquire takes the lock for key, waiting FIFO behind the current holder.
// The returned release function is idempotent and must be invoked on every
// exit path (defer it). Fails with lock_timeout when the wait bound elapses.
func (l *KeyedLock) Acquire(ctx context.Context, key string) (release func(), err error) {
	l.mu.Lock()
	st := l.locks[key]
	if st == nil {
		st = &state{}
		l.locks[key] = st
	}
	if !st.held {
		st.held = true
		l.mu.Unlock()
		return l.releaseFunc(key), nil
	}
	grant := make(chan struct{}, 1)
	st.waiters = append(st.waiters, grant)
	l.mu.Unlock()

	var timeoutC <-chan time.Time
	if l.maxWait > 0 {
		timer := time.NewTimer(l.maxWait)
		defer timer.Stop()
		timeoutC = timer.C
	}

	select {
	case <-grant:
		return l.releaseFunc(key), nil
	case <-ctx.Done():
		l.abandon(key, grant)
		return nil, errdomain.Wrap(ctx.Err(), errdomain.CodeLockTimeout, "lock wait canceled")
	case <-timeoutC:
		l.abandon(key, grant)
		return nil, errdomain.Newf(errdomain.CodeLockTimeout, "timed out waiting for lock %q", key)
	}
}

// abandon removes a waiter that gave up. If the grant already arrived in the
// race window it is passed on to the next waiter instead of being lost.
func (l *KeyedLock) abandon(key string, grant chan struct{}) {
	l.mu.Lock()
	if st := l.locks[key]; st != nil {
		for i, w := range st.waiters {
			if w == grant {
				st.waiters = append(st.waiters[:i], st.waiters[i+1:]...)
				l.mu.Unlock()
				return
			}
		}
	}
	l.mu.Unlock()

	select {
	case <-grant:
		l.release(key)
	default:
	}
}

func (l *KeyedLock) releaseFunc(key string) func() {
	var once sync.Once
	return func() {
		once.Do(func() { l.release(key) })
	}
}

func (l *KeyedLock) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.locks[key]
	if st == nil {
		return
	}
	if len(st.waiters) > 0 {
		next := st.waiters[0]
		st.waiters = st.waiters[1:]
		next <- struct{}{}
		return
	}
	delete(l.locks, key)
}

// Held reports whether key is currently locked, for status endpoints.
func (l *KeyedLock) Held(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.locks[key]
	return st != nil && st.held
}
