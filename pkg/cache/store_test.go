package cache_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekeeper/pkg/cache"
)

type fakeClock struct{ now atomic.Int64 }

func newFakeClock() *fakeClock {
	c := &fakeClock{}
	c.now.Store(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).UnixNano())
	return c
}

func (c *fakeClock) Now() time.Time          { return time.Unix(0, c.now.Load()).UTC() }
func (c *fakeClock) Advance(d time.Duration) { c.now.Add(int64(d)) }

func TestStore_Basic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()
		s := cache.New(10)
		require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Minute))

		v, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), v)
	})

	t.Run("miss is nil without error", func(t *testing.T) {
		t.Parallel()
		s := cache.New(10)
		v, err := s.Get(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("values are copied", func(t *testing.T) {
		t.Parallel()
		s := cache.New(10)
		buf := []byte("allow")
		require.NoError(t, s.Set(ctx, "a", buf, time.Minute))
		buf[0] = 'X'

		v, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, []byte("allow"), v)

		v[0] = 'Y'
		again, _ := s.Get(ctx, "a")
		assert.Equal(t, []byte("allow"), again)
	})

	t.Run("non-positive ttl rejected", func(t *testing.T) {
		t.Parallel()
		s := cache.New(10)
		assert.ErrorIs(t, s.Set(ctx, "a", []byte("1"), 0), cache.ErrInvalidTTL)
		assert.ErrorIs(t, s.Set(ctx, "a", []byte("1"), -time.Second), cache.ErrInvalidTTL)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		s := cache.New(10)
		require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Minute))
		require.NoError(t, s.Delete(ctx, "a"))
		require.NoError(t, s.Delete(ctx, "never-set"))

		v, _ := s.Get(ctx, "a")
		assert.Nil(t, v)
	})
}

func TestStore_Expiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	clock := newFakeClock()
	s := cache.New(10, cache.WithClock(clock.Now), cache.WithMaxTTL(time.Minute))

	require.NoError(t, s.Set(ctx, "short", []byte("1"), 10*time.Second))
	require.NoError(t, s.Set(ctx, "capped", []byte("2"), time.Hour))

	clock.Advance(9 * time.Second)
	v, _ := s.Get(ctx, "short")
	assert.NotNil(t, v)

	clock.Advance(time.Second)
	v, _ = s.Get(ctx, "short")
	assert.Nil(t, v, "entry must expire exactly at its ttl")

	clock.Advance(50 * time.Second)
	v, _ = s.Get(ctx, "capped")
	assert.Nil(t, v, "ttl must be capped by max ttl")
}

func TestStore_Eviction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := cache.New(2)
	require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, s.Set(ctx, "b", []byte("2"), time.Minute))

	// touch a so b becomes least recently used
	_, _ = s.Get(ctx, "a")
	require.NoError(t, s.Set(ctx, "c", []byte("3"), time.Minute))

	assert.Equal(t, 2, s.Len())
	b, _ := s.Get(ctx, "b")
	assert.Nil(t, b)
	a, _ := s.Get(ctx, "a")
	assert.NotNil(t, a)
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := cache.New(100)
	for _, k := range []string{
		"authz:d:t1:u1:document:~:read",
		"authz:d:t1:u1:document:doc_42:delete",
		"authz:d:t1:u10:document:~:read",
		"authz:d:t2:u1:document:~:read",
	} {
		require.NoError(t, s.Set(ctx, k, []byte("x"), time.Minute))
	}

	require.NoError(t, s.DeletePrefix(ctx, "authz:d:t1:u1:"))

	assert.Equal(t, 2, s.Len())
	v, _ := s.Get(ctx, "authz:d:t1:u10:document:~:read")
	assert.NotNil(t, v, "sibling principal with shared prefix must survive")
	v, _ = s.Get(ctx, "authz:d:t2:u1:document:~:read")
	assert.NotNil(t, v, "other tenant must survive")

	s.Purge()
	assert.Zero(t, s.Len())
}

func TestStore_Concurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := cache.New(1000)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k:%d:%d", id, j%10)
				assert.NoError(t, s.Set(ctx, key, []byte("v"), time.Minute))
				_, err := s.Get(ctx, key)
				assert.NoError(t, err)
				if j%50 == 0 {
					assert.NoError(t, s.DeletePrefix(ctx, fmt.Sprintf("k:%d:", id)))
				}
			}
		}(i)
	}
	wg.Wait()
}
