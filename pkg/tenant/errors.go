package tenant

import "errors"

var (
	ErrTenantNotFound    = errors.New("tenant: not found")
	ErrInvalidIdentifier = errors.New("tenant: invalid identifier")
	ErrNoTenantInContext = errors.New("tenant: missing from context")
	ErrInactiveTenant    = errors.New("tenant: inactive")
)
