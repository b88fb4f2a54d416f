// Package rbac provides the static role catalog used by the authorization engine.
//
// A catalog maps each role to a set of permission keys and declares a
// precedence order among roles. It is built once at startup and is read-only
// afterwards, so it is safe for concurrent use without locking.
//
// Key concepts:
//
//   - Role: A named set of permissions that can inherit from other roles
//   - Permission: A "resource.action" key (e.g., "document.read")
//   - Wildcards: "document.*" grants every action on documents, "*" grants everything
//   - Precedence: lower rank is more privileged, used only for tie-breaks
//
// Basic usage:
//
//	roles := map[string]rbac.Role{
//	    "viewer": {Permissions: []string{"document.read"}},
//	    "member": {
//	        Permissions: []string{"document.create"},
//	        Inherits:    []string{"viewer"},
//	    },
//	}
//
//	catalog, err := rbac.NewCatalog(ctx, rbac.NewInMemRoleSource(roles))
//
//	catalog.Allows("member", "document", "read")   // true, inherited
//	catalog.Allows("member", "document", "delete") // false
//	catalog.Expand("ghost")                        // empty, unknown role
//	catalog.Highest("viewer", "member")            // "member"
//
// Catalogs can also be loaded from YAML:
//
//	source, err := rbac.LoadYAMLFile("roles.yaml")
//
// Construction fails with ErrCircularInheritance, ErrInvalidPermission,
// ErrInvalidRole or ErrEmptyRole, so a running catalog always maps every role
// to a non-empty permission set.
package rbac
