package cache

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// InMemoryKeyLocker serializes callers on named keys within one process.
// Suitable for single-instance deployments and tests.
type InMemoryKeyLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	held chan struct{}
	refs int
}

// NewInMemoryKeyLocker creates an empty in-memory locker
func NewInMemoryKeyLocker() *InMemoryKeyLocker {
	return &InMemoryKeyLocker{locks: make(map[string]*keyLock)}
}

// Acquire blocks until every key is held or ctx is done. Keys are taken in
// sorted order so overlapping key sets cannot deadlock.
func (l *InMemoryKeyLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = normalizeKeys(keys)
	held := make([]string, 0, len(keys))
	for _, key := range keys {
		if err := l.lock(ctx, key); err != nil {
			l.unlockAll(held)
			return nil, err
		}
		held = append(held, key)
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.unlockAll(held) })
	}, nil
}

func (l *InMemoryKeyLocker) lock(ctx context.Context, key string) error {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{held: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.held <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.drop(key, kl)
		return fmt.Errorf("failed to acquire lock %q: %w", key, ctx.Err())
	}
}

func (l *InMemoryKeyLocker) unlockAll(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.mu.Lock()
		kl := l.locks[keys[i]]
		l.mu.Unlock()
		<-kl.held
		l.drop(keys[i], kl)
	}
}

func (l *InMemoryKeyLocker) drop(key string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}

// size reports how many keys have holders or waiters
func (l *InMemoryKeyLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// normalizeKeys sorts and de-duplicates keys
func normalizeKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
