package cache

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultSize is the default maximum number of entries.
const DefaultSize = 10_000

// ErrInvalidTTL is returned by Set for non-positive TTLs.
var ErrInvalidTTL = errors.New("cache: ttl must be positive")

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Store is a size-bounded, concurrency-safe in-process byte cache with
// per-entry expiry. Least recently used entries are evicted first.
//
// Store never fails: the error returns exist so that it satisfies the same
// contract as network backends.
type Store struct {
	lru    *lru.LRU[string, entry]
	maxTTL time.Duration
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithMaxTTL caps the lifetime of any entry regardless of the TTL passed to Set.
func WithMaxTTL(d time.Duration) Option {
	return func(s *Store) { s.maxTTL = d }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Store holding at most size entries. Non-positive sizes use DefaultSize.
func New(size int, opts ...Option) *Store {
	if size <= 0 {
		size = DefaultSize
	}
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	// the LRU's own TTL is a backstop; per-entry expiry is checked on read
	s.lru = lru.NewLRU[string, entry](size, nil, s.maxTTL)
	return s
}

// Get returns a copy of the value, or nil when the key is absent or expired.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := s.lru.Get(key)
	if !ok {
		return nil, nil
	}
	if !s.now().Before(e.expiresAt) {
		s.lru.Remove(key)
		return nil, nil
	}
	return slices.Clone(e.value), nil
}

// Set stores a copy of value for ttl.
func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	if s.maxTTL > 0 && ttl > s.maxTTL {
		ttl = s.maxTTL
	}
	s.lru.Add(key, entry{value: slices.Clone(value), expiresAt: s.now().Add(ttl)})
	return nil
}

// Delete removes key. Removing an absent key is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	s.lru.Remove(key)
	return nil
}

// DeletePrefix removes every key starting with prefix. It scans all keys,
// which is acceptable for the bounded sizes this store is used with.
func (s *Store) DeletePrefix(_ context.Context, prefix string) error {
	for _, k := range s.lru.Keys() {
		if strings.HasPrefix(k, prefix) {
			s.lru.Remove(k)
		}
	}
	return nil
}

// Len returns the number of entries, including expired ones not yet evicted.
func (s *Store) Len() int {
	return s.lru.Len()
}

// Purge drops every entry.
func (s *Store) Purge() {
	s.lru.Purge()
}
