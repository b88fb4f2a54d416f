package scopes

import (
	"fmt"
	"slices"
	"strings"
)

const (
	// ScopeWildcard matches every action (as "resource.*") or every scope (alone).
	ScopeWildcard = "*"

	// ScopeDelimiter separates the resource type from the action.
	ScopeDelimiter = "."
)

// Join builds the canonical scope string for a resource type and action.
//
// Example:
//
//	scopes.Join("document", "read") // "document.read"
func Join(resource, action string) string {
	return resource + ScopeDelimiter + action
}

// Split parses a scope into its resource type and action.
// The global wildcard "*" splits into ("*", "*").
//
// Example:
//
//	resource, action, err := scopes.Split("organization.delete")
//	// "organization", "delete", nil
func Split(scope string) (resource, action string, err error) {
	scope = strings.TrimSpace(scope)
	if scope == ScopeWildcard {
		return ScopeWildcard, ScopeWildcard, nil
	}

	resource, action, found := strings.Cut(scope, ScopeDelimiter)
	if !found || resource == "" || action == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
	if resource == ScopeWildcard || strings.Contains(action, ScopeDelimiter) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
	if strings.Contains(action, ScopeWildcard) && action != ScopeWildcard {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}

	return resource, action, nil
}

// IsWildcard reports whether the pattern matches more than one scope.
func IsWildcard(pattern string) bool {
	return strings.Contains(pattern, ScopeWildcard)
}

// ScopeMatches checks if a single scope matches a pattern.
//
// Pattern matching rules:
//   - Direct match: "document.read" matches "document.read"
//   - Global wildcard: "*" matches any scope
//   - Action wildcard: "document.*" matches any scope starting with "document."
func ScopeMatches(scope, pattern string) bool {
	if scope == "" {
		return false
	}
	if scope == pattern || pattern == ScopeWildcard {
		return true
	}

	if strings.HasSuffix(pattern, ScopeDelimiter+ScopeWildcard) {
		prefix := strings.TrimSuffix(pattern, ScopeWildcard)
		return strings.HasPrefix(scope, prefix) && len(scope) > len(prefix)
	}

	return false
}

// HasScope checks if any of the patterns grants the scope.
//
// Example:
//
//	scopes.HasScope([]string{"document.*", "user.read"}, "document.delete")
//	// Returns: true
func HasScope(patterns []string, scope string) bool {
	for _, p := range patterns {
		if ScopeMatches(scope, p) {
			return true
		}
	}
	return false
}

// Validate checks that every scope is well formed. When allowed is non-empty,
// every scope must also be covered by one of the allowed patterns.
func Validate(scopes, allowed []string) error {
	for _, s := range scopes {
		if _, _, err := Split(s); err != nil {
			return err
		}
		if len(allowed) > 0 && !HasScope(allowed, s) && !coveredPattern(s, allowed) {
			return fmt.Errorf("%w: %q", ErrScopeNotAllowed, s)
		}
	}
	return nil
}

// coveredPattern reports whether a wildcard scope is itself permitted by an
// allowed pattern, e.g. "document.*" against "document.*" or "*".
func coveredPattern(pattern string, allowed []string) bool {
	if !IsWildcard(pattern) {
		return false
	}
	for _, a := range allowed {
		if a == pattern || a == ScopeWildcard {
			return true
		}
	}
	return false
}

// NormalizeScopes trims, removes empty and duplicate scopes and sorts the result.
// Returns nil for empty input.
//
// Example:
//
//	scopes.NormalizeScopes([]string{"user.read", "document.read", "user.read"})
//	// Returns: []string{"document.read", "user.read"}
func NormalizeScopes(scopes []string) []string {
	if len(scopes) == 0 {
		return nil
	}

	out := make([]string, 0, len(scopes))
	for _, s := range scopes {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}

	slices.Sort(out)
	return slices.Compact(out)
}
