package authz

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/gatekeeper/pkg/audit"
)

// DefaultTimeout bounds a decision when the caller's context has no deadline.
const DefaultTimeout = 2 * time.Second

// DefaultMutatingActions are the actions whose denials are always audited.
var DefaultMutatingActions = []string{
	"create", "update", "delete", "write", "assign", "invite", "remove", "publish",
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache sets the decision cache backend. A nil backend disables caching.
func WithCache(backend CacheBackend) Option {
	return func(e *Engine) {
		e.cache.backend = backend
	}
}

// WithCacheTTL sets the lifetime of cached decisions, allow and deny alike.
// Non-positive values fall back to DefaultCacheTTL; values above MaxCacheTTL
// are clamped.
func WithCacheTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		switch {
		case ttl <= 0:
			ttl = DefaultCacheTTL
		case ttl > MaxCacheTTL:
			ttl = MaxCacheTTL
		}
		e.cache.ttl = ttl
	}
}

// WithVersionStamping toggles per-principal generation tokens. Enabled by default.
func WithVersionStamping(enabled bool) Option {
	return func(e *Engine) {
		e.cache.stamping = enabled
	}
}

// WithTimeout sets the bound applied to calls whose context has no deadline.
// Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithLogger sets the engine logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMetrics registers the engine collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		if reg != nil {
			e.metrics = newMetrics(reg)
		}
	}
}

// WithAudit sets where audit events go.
func WithAudit(emitter audit.Emitter) Option {
	return func(e *Engine) {
		e.audit = emitter
	}
}

// WithAuditAllows also audits allowed mutating actions.
func WithAuditAllows(enabled bool) Option {
	return func(e *Engine) {
		e.auditAllows = enabled
	}
}

// WithMutatingActions replaces DefaultMutatingActions.
func WithMutatingActions(actions ...string) Option {
	return func(e *Engine) {
		e.mutating = make(map[string]struct{}, len(actions))
		for _, a := range actions {
			e.mutating[a] = struct{}{}
		}
	}
}

// WithClock overrides time.Now, mostly for grant expiry in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}
