package rbac

// Static roles shipped with the engine.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

// DefaultRoles returns the built-in catalog: owner > admin > member > viewer.
func DefaultRoles() map[string]Role {
	return map[string]Role{
		RoleViewer: {
			Permissions: []string{"document.read", "organization.read", "user.read"},
		},
		RoleMember: {
			Permissions: []string{"document.create", "document.update", "comment.*"},
			Inherits:    []string{RoleViewer},
		},
		RoleAdmin: {
			Permissions: []string{"document.*", "user.*", "organization.update", "organization.delete"},
			Inherits:    []string{RoleMember},
		},
		RoleOwner: {
			Permissions: []string{"*"},
			Inherits:    []string{RoleAdmin},
		},
	}
}

// DefaultSource returns an in-memory source over DefaultRoles.
func DefaultSource() RoleSource {
	return NewInMemRoleSource(DefaultRoles())
}
