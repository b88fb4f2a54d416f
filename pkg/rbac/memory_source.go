package rbac

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// inMemRoleSource is a simple RoleSource that loads roles from memory.
// It's thread-safe and makes defensive copies to prevent external modifications.
type inMemRoleSource struct {
	mu    sync.RWMutex
	roles map[string]Role
}

// NewInMemRoleSource creates a new in-memory role source from a map of roles.
// It creates a deep copy of the input to prevent external modifications.
func NewInMemRoleSource(roles map[string]Role) RoleSource {
	return &inMemRoleSource{roles: cloneRoles(roles)}
}

// Load returns the map of roles.
// The returned map is safe to read but should not be modified.
func (s *inMemRoleSource) Load(ctx context.Context) (map[string]Role, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.roles, nil
}

func cloneRoles(roles map[string]Role) map[string]Role {
	out := make(map[string]Role, len(roles))
	for name, r := range maps.All(roles) {
		c := Role{
			Permissions: slices.Clone(r.Permissions),
			Inherits:    slices.Clone(r.Inherits),
		}
		if r.Rank != nil {
			rank := *r.Rank
			c.Rank = &rank
		}
		out[name] = c
	}
	return out
}
