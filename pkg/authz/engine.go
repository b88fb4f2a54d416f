package authz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/gatekeeper/pkg/audit"
	"github.com/dmitrymomot/gatekeeper/pkg/logger"
	"github.com/dmitrymomot/gatekeeper/pkg/rbac"
	"github.com/dmitrymomot/gatekeeper/pkg/requestid"
	"github.com/dmitrymomot/gatekeeper/pkg/tenant"
)

// Engine answers "may principal P perform action A on resource R in tenant T".
// It is safe for concurrent use. All shared state lives in the store and the
// cache backend.
type Engine struct {
	store   Store
	catalog rbac.Catalog
	cache   *decisionCache

	timeout     time.Duration
	log         *slog.Logger
	metrics     *metrics
	audit       audit.Emitter
	auditAllows bool
	mutating    map[string]struct{}
	now         func() time.Time
}

// New creates an engine over store and catalog. It panics if either is nil.
func New(store Store, catalog rbac.Catalog, opts ...Option) *Engine {
	if store == nil {
		panic("authz: store cannot be nil")
	}
	if catalog == nil {
		panic("authz: catalog cannot be nil")
	}

	e := &Engine{
		store:   store,
		catalog: catalog,
		cache: &decisionCache{
			ttl:      DefaultCacheTTL,
			stamping: true,
		},
		timeout: DefaultTimeout,
		log:     logger.Nop(),
		now:     time.Now,
	}
	WithMutatingActions(DefaultMutatingActions...)(e)

	for _, opt := range opts {
		opt(e)
	}

	e.log = e.log.With(logger.Component("authz"))
	e.cache.log = e.log
	e.cache.metrics = e.metrics
	e.cache.now = e.now
	return e
}

// Authorize returns the decision for req. The error is non-nil only when no
// decision could be reached; it then wraps ErrIndeterminate and the returned
// Decision must be ignored.
func (e *Engine) Authorize(ctx context.Context, req Request) (Decision, error) {
	res, err := e.Evaluate(ctx, req)
	if err != nil {
		return Deny, err
	}
	return res.Decision, nil
}

// Evaluate is Authorize with the reasoning behind the decision.
// Malformed input and unknown roles resolve to Deny without an error.
func (e *Engine) Evaluate(ctx context.Context, req Request) (Result, error) {
	start := e.now()

	if !req.valid() {
		res := Result{Decision: Deny, Reason: ReasonInvalidInput}
		e.log.DebugContext(ctx, "authz: malformed request denied",
			logger.TenantID(req.TenantID),
			logger.PrincipalID(req.PrincipalID),
		)
		e.finish(ctx, req, res, start)
		return res, nil
	}

	if _, ok := ctx.Deadline(); !ok && e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var (
		key      string
		gen      string
		useCache = e.cache.enabled()
	)
	if useCache {
		key = DecisionKey(req)
		// read before the store so a concurrent role change is detected
		gen, useCache = e.cache.generation(ctx, req.TenantID, req.PrincipalID)
	}
	if useCache {
		if entry, ok := e.cache.get(ctx, key, gen); ok {
			res := Result{
				Decision: entry.Decision,
				Reason:   entry.Reason,
				Role:     entry.Role,
				Cached:   true,
			}
			e.finish(ctx, req, res, start)
			return res, nil
		}
	}

	res, validUntil, err := e.resolve(ctx, req)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return Result{Decision: Deny}, e.indeterminate(ctx, req, err)
	}

	if useCache {
		e.cache.put(ctx, key, gen, res, validUntil)
	}
	e.finish(ctx, req, res, start)
	return res, nil
}

// resolve computes a decision from the store:
// explicit deny > explicit allow > role > default deny.
// validUntil is the earliest expiry among the active grants that were
// considered, or zero when none of them expires.
func (e *Engine) resolve(ctx context.Context, req Request) (res Result, validUntil time.Time, err error) {
	role, err := e.effectiveRole(ctx, req.TenantID, req.PrincipalID)
	if err != nil {
		return Result{}, time.Time{}, err
	}
	if role == "" {
		return Result{Decision: Deny, Reason: ReasonNoAssignment}, time.Time{}, nil
	}

	res = Result{Decision: Deny, Reason: ReasonRoleDeny, Role: role}
	switch {
	case e.catalog.VerifyRole(role) != nil:
		res.Reason = ReasonUnknownRole
		e.log.WarnContext(ctx, "authz: role assignment references unknown role",
			logger.TenantID(req.TenantID),
			logger.PrincipalID(req.PrincipalID),
			logger.Role(role),
		)
	case e.catalog.Allows(role, req.ResourceType, req.Action):
		res.Decision = Allow
		res.Reason = ReasonRoleAllow
	}

	grants, err := e.store.LoadResourceGrants(ctx, req.TenantID, req.PrincipalID, req.ResourceType, req.ResourceID)
	if err != nil {
		return Result{}, time.Time{}, err
	}
	grants = ownRows(ctx, e.log, req.TenantID, grants)

	now := e.now()
	var allowGrant, denyGrant bool
	for _, g := range grants {
		if !g.matches(req) {
			continue
		}
		if !g.Active(now) {
			res.ExpiredGrants++
			continue
		}
		if g.ExpiresAt != nil && (validUntil.IsZero() || g.ExpiresAt.Before(validUntil)) {
			validUntil = *g.ExpiresAt
		}
		switch g.Effect {
		case EffectDeny:
			denyGrant = true
		case EffectAllow:
			allowGrant = true
		}
	}

	switch {
	case denyGrant:
		res.Decision, res.Reason = Deny, ReasonGrantDeny
	case allowGrant:
		res.Decision, res.Reason = Allow, ReasonGrantAllow
	}
	return res, validUntil, nil
}

// effectiveRole returns the principal's role in the tenant, or "" when none.
func (e *Engine) effectiveRole(ctx context.Context, tenantID, principalID string) (string, error) {
	if ms, ok := e.store.(MultiRoleStore); ok {
		rows, err := ms.LoadRoleAssignments(ctx, tenantID, principalID)
		if err != nil {
			return "", err
		}
		rows = ownRows(ctx, e.log, tenantID, rows)
		roles := make([]string, 0, len(rows))
		for _, a := range rows {
			if a.PrincipalID == principalID {
				roles = append(roles, a.Role)
			}
		}
		return e.catalog.Highest(roles...), nil
	}

	a, err := e.store.LoadRoleAssignment(ctx, tenantID, principalID)
	if err != nil {
		return "", err
	}
	if a == nil {
		return "", nil
	}
	if !tenant.Belongs(a, tenantID) || a.PrincipalID != principalID {
		e.log.WarnContext(ctx, "authz: store returned assignment of another principal",
			logger.TenantID(tenantID),
			logger.PrincipalID(principalID),
			slog.String("row_tenant_id", a.TenantID),
		)
		return "", nil
	}
	return a.Role, nil
}

// ownRows drops rows of other tenants and logs the store defect.
func ownRows[T tenant.Scoped](ctx context.Context, log *slog.Logger, tenantID string, rows []T) []T {
	kept, dropped := tenant.Filter(tenantID, rows)
	if dropped > 0 {
		log.WarnContext(ctx, "authz: dropped rows of another tenant",
			logger.TenantID(tenantID),
			slog.Int("dropped", dropped),
		)
	}
	return kept
}

// EffectivePermissions lists what the principal's role grants in the tenant,
// ignoring resource grants. It bypasses the decision cache.
func (e *Engine) EffectivePermissions(ctx context.Context, tenantID, principalID string) ([]rbac.Permission, error) {
	if err := validatePrincipal(tenantID, principalID); err != nil {
		return nil, err
	}

	if _, ok := ctx.Deadline(); !ok && e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	role, err := e.effectiveRole(ctx, tenantID, principalID)
	if err != nil {
		return nil, e.indeterminate(ctx, Request{TenantID: tenantID, PrincipalID: principalID}, err)
	}
	if role == "" {
		return []rbac.Permission{}, nil
	}
	return e.catalog.Expand(role), nil
}

func (e *Engine) indeterminate(ctx context.Context, req Request, err error) error {
	cause := ErrStoreUnavailable
	reason := "store_unavailable"
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		cause = err
		reason = "timeout"
	}
	e.metrics.decision("indeterminate", reason)
	e.log.ErrorContext(ctx, "authz: decision indeterminate",
		logger.TenantID(req.TenantID),
		logger.PrincipalID(req.PrincipalID),
		logger.Resource(req.ResourceType, req.ResourceID, req.Action),
		logger.Error(err),
	)
	if cause == err {
		return fmt.Errorf("%w: %w", ErrIndeterminate, err)
	}
	return fmt.Errorf("%w: %w: %w", ErrIndeterminate, cause, err)
}

func (e *Engine) finish(ctx context.Context, req Request, res Result, start time.Time) {
	source := "store"
	if res.Cached {
		source = "cache"
	}
	elapsed := e.now().Sub(start)
	e.metrics.observe(source, elapsed)
	e.metrics.decision(res.Decision.String(), string(res.Reason))
	e.log.DebugContext(ctx, "authz: decision",
		logger.TenantID(req.TenantID),
		logger.PrincipalID(req.PrincipalID),
		logger.Resource(req.ResourceType, req.ResourceID, req.Action),
		logger.Decision(res.Decision.String()),
		logger.Reason(string(res.Reason)),
		logger.Duration(elapsed),
	)
	e.emitAudit(ctx, req, res)
}

func (e *Engine) emitAudit(ctx context.Context, req Request, res Result) {
	if e.audit == nil {
		return
	}
	if _, ok := e.mutating[req.Action]; !ok {
		return
	}
	if res.Allowed() && !e.auditAllows {
		return
	}

	opts := []audit.EventOption{
		audit.WithReason(string(res.Reason)),
		audit.WithRequestID(requestid.FromContext(ctx)),
	}
	if res.Role != "" {
		opts = append(opts, audit.WithMetadata("role", res.Role))
	}
	if res.ExpiredGrants > 0 {
		opts = append(opts, audit.WithMetadata("expired_grants", res.ExpiredGrants))
	}
	if res.Cached {
		opts = append(opts, audit.WithMetadata("cached", true))
	}

	event := audit.NewEvent(req.TenantID, req.PrincipalID, req.ResourceType, req.ResourceID,
		req.Action, res.Decision.String(), opts...)
	if err := e.audit.Emit(event); err != nil {
		e.log.DebugContext(ctx, "authz: audit event dropped", logger.Error(err))
	}
}
