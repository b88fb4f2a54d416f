package authz

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

type principalKey struct {
	tenantID    string
	principalID string
}

// MemoryStore is a concurrency-safe in-process Store.
type MemoryStore struct {
	mu          sync.RWMutex
	assignments map[principalKey]RoleAssignment
	grants      map[GrantKey]ResourceGrant
	now         func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		assignments: make(map[principalKey]RoleAssignment),
		grants:      make(map[GrantKey]ResourceGrant),
		now:         time.Now,
	}
}

// LoadRoleAssignment implements Store.
func (s *MemoryStore) LoadRoleAssignment(ctx context.Context, tenantID, principalID string) (*RoleAssignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assignments[principalKey{tenantID, principalID}]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// LoadResourceGrants implements Store.
func (s *MemoryStore) LoadResourceGrants(ctx context.Context, tenantID, principalID, resourceType, resourceID string) ([]ResourceGrant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ResourceGrant
	for k, g := range s.grants {
		if k.TenantID == tenantID && k.PrincipalID == principalID &&
			k.ResourceType == resourceType && k.ResourceID == resourceID {
			out = append(out, g)
		}
	}
	slices.SortFunc(out, func(a, b ResourceGrant) int {
		return strings.Compare(a.Action, b.Action)
	})
	return out, nil
}

// WriteRoleAssignment implements Store.
func (s *MemoryStore) WriteRoleAssignment(ctx context.Context, a RoleAssignment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.AssignedAt.IsZero() {
		a.AssignedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[principalKey{a.TenantID, a.PrincipalID}] = a
	return nil
}

// DeleteRoleAssignment implements Store.
func (s *MemoryStore) DeleteRoleAssignment(ctx context.Context, tenantID, principalID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assignments, principalKey{tenantID, principalID})
	return nil
}

// WriteResourceGrant implements Store.
func (s *MemoryStore) WriteResourceGrant(ctx context.Context, g ResourceGrant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[g.Key()] = g
	return nil
}

// DeleteResourceGrant implements Store.
func (s *MemoryStore) DeleteResourceGrant(ctx context.Context, key GrantKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants, key)
	return nil
}
