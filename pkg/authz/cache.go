package authz

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/gatekeeper/pkg/logger"
)

const (
	// DefaultCacheTTL bounds how long a decision may be served from cache.
	DefaultCacheTTL = 60 * time.Second
	// MaxCacheTTL is the upper clamp for WithCacheTTL.
	MaxCacheTTL = 5 * time.Minute

	decisionKeyPrefix   = "authz:d:"
	generationKeyPrefix = "authz:g:"
	// collectionScope stands in for an omitted resource ID.
	collectionScope = "~"
)

// CacheBackend stores opaque values with a TTL. Get returns nil, nil on a
// miss. Any error means the backend is unavailable; the engine then treats
// reads as misses and writes as no-ops.
type CacheBackend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// DecisionKey returns the cache key of a request. Identifiers are validated
// before use, so they never contain the ':' separator.
func DecisionKey(req Request) string {
	rid := req.ResourceID
	if rid == "" {
		rid = collectionScope
	}
	return PrincipalPrefix(req.TenantID, req.PrincipalID) +
		req.ResourceType + ":" + rid + ":" + req.Action
}

// PrincipalPrefix returns the key prefix shared by all cached decisions of
// one principal in one tenant.
func PrincipalPrefix(tenantID, principalID string) string {
	return decisionKeyPrefix + tenantID + ":" + principalID + ":"
}

func generationKey(tenantID, principalID string) string {
	return generationKeyPrefix + tenantID + ":" + principalID
}

// cacheEntry is the JSON payload of a cached decision.
type cacheEntry struct {
	Decision   Decision  `json:"decision"`
	Reason     Reason    `json:"reason"`
	Role       string    `json:"role,omitempty"`
	ComputedAt time.Time `json:"computed_at"`
	TTLSeconds int       `json:"ttl_seconds"`
	Generation string    `json:"generation,omitempty"`
}

// decisionCache is the read-through layer over a CacheBackend.
// Every method degrades to miss or no-op on backend errors; only the
// invalidation methods report them.
type decisionCache struct {
	backend  CacheBackend
	ttl      time.Duration
	stamping bool
	log      *slog.Logger
	metrics  *metrics
	now      func() time.Time
}

func (c *decisionCache) enabled() bool { return c != nil && c.backend != nil }

// generationTTL outlives every entry that could carry the token.
func (c *decisionCache) generationTTL() time.Duration { return 2 * MaxCacheTTL }

// generation returns the current token of a principal. A missing token reads
// as "". ok is false when the backend failed and the cache must be bypassed.
func (c *decisionCache) generation(ctx context.Context, tenantID, principalID string) (gen string, ok bool) {
	if !c.stamping {
		return "", true
	}
	b, err := c.backend.Get(ctx, generationKey(tenantID, principalID))
	if err != nil {
		c.degraded(ctx, "generation", err)
		return "", false
	}
	return string(b), true
}

func (c *decisionCache) get(ctx context.Context, key, gen string) (cacheEntry, bool) {
	b, err := c.backend.Get(ctx, key)
	if err != nil {
		c.degraded(ctx, "get", err)
		c.metrics.cacheRequest("error")
		return cacheEntry{}, false
	}
	if b == nil {
		c.metrics.cacheRequest("miss")
		return cacheEntry{}, false
	}

	var e cacheEntry
	if err := json.Unmarshal(b, &e); err != nil {
		c.degraded(ctx, "decode", err)
		c.metrics.cacheRequest("miss")
		return cacheEntry{}, false
	}
	if e.Generation != gen {
		c.metrics.cacheRequest("stale")
		return cacheEntry{}, false
	}

	c.metrics.cacheRequest("hit")
	return e, true
}

// put stores res for the configured TTL, shortened to validUntil when a grant
// behind the decision expires sooner. Nothing is stored once validUntil has passed.
func (c *decisionCache) put(ctx context.Context, key, gen string, res Result, validUntil time.Time) {
	now := c.now()
	ttl := c.ttl
	if !validUntil.IsZero() {
		ttl = min(ttl, validUntil.Sub(now))
	}
	if ttl <= 0 {
		return
	}

	b, err := json.Marshal(cacheEntry{
		Decision:   res.Decision,
		Reason:     res.Reason,
		Role:       res.Role,
		ComputedAt: now.UTC(),
		TTLSeconds: int(ttl / time.Second),
		Generation: gen,
	})
	if err != nil {
		c.degraded(ctx, "encode", err)
		return
	}
	if err := c.backend.Set(ctx, key, b, ttl); err != nil {
		c.degraded(ctx, "set", err)
	}
}

// rotate replaces the principal's generation token, turning every entry
// stamped with the previous token into a miss.
func (c *decisionCache) rotate(ctx context.Context, tenantID, principalID string) error {
	if !c.stamping {
		return nil
	}
	return c.backend.Set(ctx, generationKey(tenantID, principalID), []byte(uuid.NewString()), c.generationTTL())
}

// invalidatePrincipal rotates the generation and drops every cached decision
// of the principal. Both steps run even if the first fails.
func (c *decisionCache) invalidatePrincipal(ctx context.Context, tenantID, principalID string) error {
	return errors.Join(
		c.rotate(ctx, tenantID, principalID),
		c.backend.DeletePrefix(ctx, PrincipalPrefix(tenantID, principalID)),
	)
}

func (c *decisionCache) invalidateKey(ctx context.Context, key string) error {
	return c.backend.Delete(ctx, key)
}

func (c *decisionCache) degraded(ctx context.Context, op string, err error) {
	c.metrics.cacheError(op)
	c.log.DebugContext(ctx, "authz: cache degraded to store lookup",
		slog.String("op", op),
		logger.Error(err),
	)
}
