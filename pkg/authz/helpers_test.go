package authz_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekeeper/pkg/authz"
	"github.com/dmitrymomot/gatekeeper/pkg/cache"
	"github.com/dmitrymomot/gatekeeper/pkg/rbac"
)

var errBackendDown = errors.New("backend down")

// manualClock is a time source shared by an engine and its cache backend.
type manualClock struct {
	now atomic.Int64
}

func newManualClock(start time.Time) *manualClock {
	c := &manualClock{}
	c.now.Store(start.UnixNano())
	return c
}

func (c *manualClock) Now() time.Time { return time.Unix(0, c.now.Load()).UTC() }

func (c *manualClock) Advance(d time.Duration) { c.now.Add(int64(d)) }

func testCatalog(t *testing.T) rbac.Catalog {
	t.Helper()
	c, err := rbac.NewCatalog(context.Background(), rbac.NewInMemRoleSource(map[string]rbac.Role{
		"member": {Permissions: []string{"document.read"}},
		"admin": {
			Permissions: []string{"document.*", "organization.delete"},
			Inherits:    []string{"member"},
		},
	}))
	require.NoError(t, err)
	return c
}

func newEngine(t *testing.T, store authz.Store, opts ...authz.Option) *authz.Engine {
	t.Helper()
	return authz.New(store, testCatalog(t), opts...)
}

func req(tenantID, principalID, resourceType, resourceID, action string) authz.Request {
	return authz.Request{
		TenantID:     tenantID,
		PrincipalID:  principalID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       action,
	}
}

func assign(t *testing.T, e *authz.Engine, tenantID, principalID, role string) {
	t.Helper()
	require.NoError(t, e.AssignRole(context.Background(), authz.RoleAssignment{
		TenantID:    tenantID,
		PrincipalID: principalID,
		Role:        role,
	}))
}

func authorize(t *testing.T, e *authz.Engine, r authz.Request) authz.Decision {
	t.Helper()
	d, err := e.Authorize(context.Background(), r)
	require.NoError(t, err)
	return d
}

// countingStore counts role lookups so tests can tell cache hits from misses.
type countingStore struct {
	*authz.MemoryStore
	roleLoads atomic.Int64
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: authz.NewMemoryStore()}
}

func (s *countingStore) LoadRoleAssignment(ctx context.Context, tenantID, principalID string) (*authz.RoleAssignment, error) {
	s.roleLoads.Add(1)
	return s.MemoryStore.LoadRoleAssignment(ctx, tenantID, principalID)
}

// MockStore is a testify mock of authz.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) LoadRoleAssignment(ctx context.Context, tenantID, principalID string) (*authz.RoleAssignment, error) {
	args := m.Called(ctx, tenantID, principalID)
	a, _ := args.Get(0).(*authz.RoleAssignment)
	return a, args.Error(1)
}

func (m *MockStore) LoadResourceGrants(ctx context.Context, tenantID, principalID, resourceType, resourceID string) ([]authz.ResourceGrant, error) {
	args := m.Called(ctx, tenantID, principalID, resourceType, resourceID)
	g, _ := args.Get(0).([]authz.ResourceGrant)
	return g, args.Error(1)
}

func (m *MockStore) WriteRoleAssignment(ctx context.Context, a authz.RoleAssignment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockStore) DeleteRoleAssignment(ctx context.Context, tenantID, principalID string) error {
	return m.Called(ctx, tenantID, principalID).Error(0)
}

func (m *MockStore) WriteResourceGrant(ctx context.Context, g authz.ResourceGrant) error {
	return m.Called(ctx, g).Error(0)
}

func (m *MockStore) DeleteResourceGrant(ctx context.Context, key authz.GrantKey) error {
	return m.Called(ctx, key).Error(0)
}

// blockingStore never answers until the context is done.
type blockingStore struct {
	*authz.MemoryStore
}

func (s blockingStore) LoadRoleAssignment(ctx context.Context, _, _ string) (*authz.RoleAssignment, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// flakyBackend is an in-process cache backend that can be switched off.
type flakyBackend struct {
	*cache.Store
	down atomic.Bool
}

func newFlakyBackend() *flakyBackend {
	return &flakyBackend{Store: cache.New(100)}
}

func (b *flakyBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if b.down.Load() {
		return nil, errBackendDown
	}
	return b.Store.Get(ctx, key)
}

func (b *flakyBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if b.down.Load() {
		return errBackendDown
	}
	return b.Store.Set(ctx, key, value, ttl)
}

func (b *flakyBackend) Delete(ctx context.Context, key string) error {
	if b.down.Load() {
		return errBackendDown
	}
	return b.Store.Delete(ctx, key)
}

func (b *flakyBackend) DeletePrefix(ctx context.Context, prefix string) error {
	if b.down.Load() {
		return errBackendDown
	}
	return b.Store.DeletePrefix(ctx, prefix)
}
