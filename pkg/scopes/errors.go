package scopes

import "errors"

var (
	// ErrInvalidScope is returned when a scope is not in "resource.action" form.
	ErrInvalidScope = errors.New("scopes: invalid scope format")
	// ErrScopeNotAllowed is returned when a scope is not covered by the allowed patterns.
	ErrScopeNotAllowed = errors.New("scopes: scope not in allowed list")
)
