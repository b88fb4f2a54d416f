// Package cache provides an in-process byte cache used as the local
// decision-cache backend.
//
// Store wraps the expirable LRU from github.com/hashicorp/golang-lru/v2 and
// adds per-entry TTLs and prefix deletion, matching the operations the
// authorization engine expects from any cache backend (Get, Set, Delete,
// DeletePrefix). A miss is reported as a nil value and a nil error.
//
//	store := cache.New(10_000, cache.WithMaxTTL(5*time.Minute))
//	_ = store.Set(ctx, "authz:d:t1:u1:document:~:read", payload, time.Minute)
//	b, _ := store.Get(ctx, "authz:d:t1:u1:document:~:read")
//	_ = store.DeletePrefix(ctx, "authz:d:t1:u1:")
//
// Values are copied on the way in and out, so callers may reuse buffers.
package cache
