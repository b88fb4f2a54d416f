// Package scopes parses and matches permission scopes of the form
// "resource.action" used by the role catalog.
//
// A scope names one permission key: "document.read", "organization.delete".
// Patterns may use the wildcard in action position ("document.*" matches every
// action on documents) or alone ("*" matches everything). Wildcards only widen
// a pattern; there is no negation.
//
// # Usage
//
//	import "github.com/dmitrymomot/gatekeeper/pkg/scopes"
//
//	resource, action, err := scopes.Split("document.read")
//	// "document", "read", nil
//
//	scopes.Join("document", "read") // "document.read"
//
//	if scopes.HasScope([]string{"document.*"}, "document.delete") {
//	    // granted
//	}
//
// # Validation
//
// Validate checks that every scope in a list is well formed and, optionally,
// covered by an allow-list of patterns:
//
//	err := scopes.Validate([]string{"document.read"}, []string{"document.*", "user.read"})
//
// Errors wrap ErrInvalidScope or ErrScopeNotAllowed and can be matched with errors.Is.
package scopes
