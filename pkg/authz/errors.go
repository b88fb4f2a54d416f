package authz

import "errors"

var (
	// ErrIndeterminate means no decision could be reached. The caller chooses
	// whether to fail open or closed; the engine never maps it to a decision.
	ErrIndeterminate = errors.New("authz: indeterminate decision")

	// ErrStoreUnavailable wraps any permission store failure.
	ErrStoreUnavailable = errors.New("authz: permission store unavailable")

	// ErrCacheUnavailable is returned by InvalidatePrincipal when the cache
	// backend could not be reached. Reads never surface it.
	ErrCacheUnavailable = errors.New("authz: cache backend unavailable")

	// ErrInvalidInput marks malformed tenant, principal or resource identifiers.
	ErrInvalidInput = errors.New("authz: invalid input")

	// ErrUnknownRole is returned when assigning a role absent from the catalog.
	ErrUnknownRole = errors.New("authz: unknown role")

	// ErrInvalidEffect is returned for grants that are neither allow nor deny.
	ErrInvalidEffect = errors.New("authz: invalid grant effect")
)
