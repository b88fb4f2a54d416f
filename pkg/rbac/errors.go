package rbac

import "errors"

// Domain errors for RBAC operations.
var (
	// ErrInvalidRole is returned when a role does not exist.
	ErrInvalidRole = errors.New("rbac.invalid_role")

	// ErrInvalidPermission is returned when a role lists a malformed permission key.
	ErrInvalidPermission = errors.New("rbac.invalid_permission")

	// ErrEmptyRole is returned when a role resolves to no permissions at all.
	ErrEmptyRole = errors.New("rbac.empty_role")

	// ErrCircularInheritance is returned when roles have circular inheritance.
	ErrCircularInheritance = errors.New("rbac.circular_inheritance")

	// ErrRoleSourceFailed is returned when roles cannot be read from a source.
	ErrRoleSourceFailed = errors.New("rbac.role_source_failed")
)
