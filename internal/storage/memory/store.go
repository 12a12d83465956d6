package memory

import (
	"bytes"
	"log/slog"
	"sync"
	"time"
)

// Observer receives store events. It is called outside the store lock.
type Observer interface {
	// KeysExpired is called with the number of keys removed because their
	// deadline passed, either by the reaper or by a read.
	KeysExpired(n int)

	// ReaperWoke is called every time the reaper wakes up.
	ReaperWoke()
}

type nopObserver struct{}

func (nopObserver) KeysExpired(int) {}
func (nopObserver) ReaperWoke()     {}

// entry is one stored value. A zero expiresAt means no expiry.
type entry struct {
	data      []byte
	expiresAt time.Time
}

func (e entry) hasExpiry() bool {
	return !e.expiresAt.IsZero()
}

func (e entry) expiredAt(now time.Time) bool {
	return e.hasExpiry() && !now.Before(e.expiresAt)
}

// Store is an in-memory key-value map with per-key expiry.
type Store struct {
	mu          sync.Mutex
	entries     map[string]entry
	expirations *expirationIndex

	now      func() time.Time
	logger   *slog.Logger
	observer Observer

	// wake has capacity one: pending signals coalesce and are never lost.
	wake      chan struct{}
	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
}

// Option configures the Store.
type Option func(*Store)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used by the reaper.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics registers an Observer for expiry events.
func WithMetrics(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

// New creates a store and starts its reaper goroutine.
// Call Close to stop the reaper.
func New(opts ...Option) *Store {
	s := &Store{
		entries:     make(map[string]entry),
		expirations: newExpirationIndex(),
		now:         time.Now,
		logger:      slog.Default(),
		observer:    nopObserver{},
		wake:        make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	go s.reap()

	return s
}

// Set stores a copy of value under key, replacing any previous value and
// its expiry. A ttl <= 0 means the key never expires.
func (s *Store) Set(key string, value []byte, ttl time.Duration) {
	e := entry{data: bytes.Clone(value)}
	if e.data == nil {
		e.data = []byte{}
	}

	notify := false

	s.mu.Lock()
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
		earliest, ok := s.expirations.earliest()
		notify = !ok || e.expiresAt.Before(earliest)
		s.expirations.insert(e.expiresAt, key)
	}
	prev, existed := s.entries[key]
	s.entries[key] = e
	if existed && prev.hasExpiry() && !(e.hasExpiry() && prev.expiresAt.Equal(e.expiresAt)) {
		s.expirations.remove(prev.expiresAt, key)
	}
	s.mu.Unlock()

	if notify {
		s.signal()
	}
}

// Get returns a copy of the value stored under key.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	e, ok, expired := s.lookup(key)
	s.mu.Unlock()

	if expired {
		s.observer.KeysExpired(1)
	}
	if !ok {
		return nil, false
	}
	return bytes.Clone(e.data), true
}

// Delete removes the given keys and returns how many existed.
func (s *Store) Delete(keys ...string) int {
	removed, expired := 0, 0

	s.mu.Lock()
	for _, key := range keys {
		_, ok, dropped := s.lookup(key)
		if dropped {
			expired++
		}
		if !ok {
			continue
		}
		s.remove(key)
		removed++
	}
	s.mu.Unlock()

	if expired > 0 {
		s.observer.KeysExpired(expired)
	}
	return removed
}

// Exists counts how many of the given keys are present.
// A key listed twice is counted twice.
func (s *Store) Exists(keys ...string) int {
	n, expired := 0, 0

	s.mu.Lock()
	for _, key := range keys {
		_, ok, dropped := s.lookup(key)
		if dropped {
			expired++
		}
		if ok {
			n++
		}
	}
	s.mu.Unlock()

	if expired > 0 {
		s.observer.KeysExpired(expired)
	}
	return n
}

// TTL reports the time left before key expires.
// hasExpiry is false for keys without a deadline; found is false for
// missing or expired keys.
func (s *Store) TTL(key string) (remaining time.Duration, hasExpiry, found bool) {
	s.mu.Lock()
	e, ok, expired := s.lookup(key)
	if ok && e.hasExpiry() {
		remaining = e.expiresAt.Sub(s.now())
	}
	s.mu.Unlock()

	if expired {
		s.observer.KeysExpired(1)
	}
	if !ok {
		return 0, false, false
	}
	return remaining, e.hasExpiry(), true
}

// Len returns the number of stored keys, including expired keys the
// reaper has not removed yet.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the reaper and waits for it to exit. The store remains
// usable afterwards; expired keys are then only removed on access.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopCh)
	})
	<-s.doneCh
	return nil
}

// lookup returns the live entry for key. An entry whose deadline has
// passed is removed and reported through expired. Callers must hold s.mu.
func (s *Store) lookup(key string) (e entry, ok, expired bool) {
	e, ok = s.entries[key]
	if !ok {
		return entry{}, false, false
	}
	if e.expiredAt(s.now()) {
		s.remove(key)
		return entry{}, false, true
	}
	return e, true, false
}

// remove deletes key from the map and the index. Callers must hold s.mu.
func (s *Store) remove(key string) {
	e, ok := s.entries[key]
	if !ok {
		return
	}
	delete(s.entries, key)
	if e.hasExpiry() {
		s.expirations.remove(e.expiresAt, key)
	}
}

func (s *Store) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
