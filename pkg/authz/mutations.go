package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/gatekeeper/pkg/logger"
)

// Mutations write to the store first and invalidate the cache before they
// return. A failed invalidation is logged and counted but does not fail the
// mutation: the write already happened and the TTL bounds any staleness.

// AssignRole sets the principal's single role in the tenant, replacing any
// previous one.
func (e *Engine) AssignRole(ctx context.Context, a RoleAssignment) error {
	if err := validateAssignment(a); err != nil {
		return err
	}
	if err := e.catalog.VerifyRole(a.Role); err != nil {
		return errors.Join(ErrUnknownRole, err)
	}
	if a.AssignedAt.IsZero() {
		a.AssignedAt = e.now().UTC()
	}

	if err := e.store.WriteRoleAssignment(ctx, a); err != nil {
		return fmt.Errorf("authz: assign role: %w", errors.Join(ErrStoreUnavailable, err))
	}
	e.invalidateRole(ctx, a.TenantID, a.PrincipalID)

	e.log.InfoContext(ctx, "authz: role assigned",
		logger.TenantID(a.TenantID),
		logger.PrincipalID(a.PrincipalID),
		logger.Role(a.Role),
	)
	return nil
}

// RemoveRole ends the principal's membership in the tenant.
// Removing a missing assignment is not an error.
func (e *Engine) RemoveRole(ctx context.Context, tenantID, principalID string) error {
	if err := validatePrincipal(tenantID, principalID); err != nil {
		return err
	}

	if err := e.store.DeleteRoleAssignment(ctx, tenantID, principalID); err != nil {
		return fmt.Errorf("authz: remove role: %w", errors.Join(ErrStoreUnavailable, err))
	}
	e.invalidateRole(ctx, tenantID, principalID)

	e.log.InfoContext(ctx, "authz: role removed",
		logger.TenantID(tenantID),
		logger.PrincipalID(principalID),
	)
	return nil
}

// PutGrant creates or replaces a resource grant.
func (e *Engine) PutGrant(ctx context.Context, g ResourceGrant) error {
	if err := validateGrant(g); err != nil {
		return err
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = e.now().UTC()
	}

	if err := e.store.WriteResourceGrant(ctx, g); err != nil {
		return fmt.Errorf("authz: put grant: %w", errors.Join(ErrStoreUnavailable, err))
	}
	e.invalidateGrant(ctx, g.Key())
	return nil
}

// RevokeGrant deletes a resource grant. Revoking a missing grant is not an error.
func (e *Engine) RevokeGrant(ctx context.Context, key GrantKey) error {
	if err := validateGrantKey(key); err != nil {
		return err
	}

	if err := e.store.DeleteResourceGrant(ctx, key); err != nil {
		return fmt.Errorf("authz: revoke grant: %w", errors.Join(ErrStoreUnavailable, err))
	}
	e.invalidateGrant(ctx, key)
	return nil
}

// InvalidatePrincipal drops every cached decision of the principal in the
// tenant. Unlike the mutations it reports cache failures, wrapped in
// ErrCacheUnavailable, since there is nothing else it does.
func (e *Engine) InvalidatePrincipal(ctx context.Context, tenantID, principalID string) error {
	if err := validatePrincipal(tenantID, principalID); err != nil {
		return err
	}
	if !e.cache.enabled() {
		return nil
	}

	if err := e.cache.invalidatePrincipal(ctx, tenantID, principalID); err != nil {
		e.metrics.invalidationFailed("principal")
		return errors.Join(ErrCacheUnavailable, err)
	}
	return nil
}

func (e *Engine) invalidateRole(ctx context.Context, tenantID, principalID string) {
	if !e.cache.enabled() {
		return
	}
	if err := e.cache.invalidatePrincipal(ctx, tenantID, principalID); err != nil {
		e.metrics.invalidationFailed("role")
		e.log.WarnContext(ctx, "authz: cache invalidation failed",
			logger.TenantID(tenantID),
			logger.PrincipalID(principalID),
			logger.Error(err),
		)
	}
}

func (e *Engine) invalidateGrant(ctx context.Context, key GrantKey) {
	if !e.cache.enabled() {
		return
	}
	if err := e.cache.invalidateKey(ctx, DecisionKey(Request(key))); err != nil {
		e.metrics.invalidationFailed("grant")
		e.log.WarnContext(ctx, "authz: cache invalidation failed",
			logger.TenantID(key.TenantID),
			logger.PrincipalID(key.PrincipalID),
			logger.Resource(key.ResourceType, key.ResourceID, key.Action),
			logger.Error(err),
		)
	}
}
