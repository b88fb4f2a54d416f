package authz

import "context"

// Store is the authoritative persistence of role assignments and grants.
// Every error returned by a Store is treated as unavailability.
type Store interface {
	// LoadRoleAssignment returns nil, nil when the principal has no role in the tenant.
	LoadRoleAssignment(ctx context.Context, tenantID, principalID string) (*RoleAssignment, error)
	// LoadResourceGrants returns every grant of the principal on one resource,
	// for all actions. An empty resourceID selects collection-scope grants.
	LoadResourceGrants(ctx context.Context, tenantID, principalID, resourceType, resourceID string) ([]ResourceGrant, error)

	// WriteRoleAssignment inserts or replaces the principal's role in the tenant.
	WriteRoleAssignment(ctx context.Context, a RoleAssignment) error
	// DeleteRoleAssignment is a no-op when no assignment exists.
	DeleteRoleAssignment(ctx context.Context, tenantID, principalID string) error
	// WriteResourceGrant inserts or replaces the grant identified by g.Key().
	WriteResourceGrant(ctx context.Context, g ResourceGrant) error
	// DeleteResourceGrant is a no-op when the grant does not exist.
	DeleteResourceGrant(ctx context.Context, key GrantKey) error
}

// MultiRoleStore is implemented by stores that may hold several roles for
// the same principal in a tenant. The engine then uses the most privileged one.
type MultiRoleStore interface {
	Store
	LoadRoleAssignments(ctx context.Context, tenantID, principalID string) ([]RoleAssignment, error)
}
