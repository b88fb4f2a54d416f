package rbac

import "github.com/dmitrymomot/gatekeeper/pkg/scopes"

// MaxInheritanceDepth is the maximum allowed depth of role inheritance
// to prevent excessive nesting and potential performance issues.
const MaxInheritanceDepth = 10

// Permission is a (resource type, action) pair, e.g. (document, read).
// Action may be the wildcard "*", and both fields are "*" for the global wildcard.
type Permission struct {
	Resource string
	Action   string
}

// String returns the "resource.action" form of the permission.
func (p Permission) String() string {
	if p.Resource == scopes.ScopeWildcard && p.Action == scopes.ScopeWildcard {
		return scopes.ScopeWildcard
	}
	return scopes.Join(p.Resource, p.Action)
}

// ParsePermission parses a "resource.action" key.
func ParsePermission(key string) (Permission, error) {
	resource, action, err := scopes.Split(key)
	if err != nil {
		return Permission{}, err
	}
	return Permission{Resource: resource, Action: action}, nil
}

// Role represents a set of permissions with optional inheritance.
// Roles can inherit permissions from other roles, creating a hierarchy.
type Role struct {
	// Permissions directly granted to this role, as "resource.action" keys.
	Permissions []string `yaml:"permissions"`

	// Inherits lists role names this role inherits from.
	// All permissions from inherited roles are included.
	Inherits []string `yaml:"inherits"`

	// Rank overrides the precedence derived from the inheritance depth.
	// Lower is more privileged.
	Rank *int `yaml:"rank,omitempty"`
}

// Grants checks if the role has the specified permission directly.
// This does not check inherited permissions.
func (r *Role) Grants(permission string) bool {
	return scopes.HasScope(r.Permissions, permission)
}
