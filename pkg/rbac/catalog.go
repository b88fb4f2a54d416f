package rbac

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/dmitrymomot/gatekeeper/pkg/scopes"
)

// Catalog is the static role catalog: a pure lookup from role to permissions
// plus a precedence order among roles.
type Catalog interface {
	// Expand returns all permissions (direct and inherited) of a role, sorted.
	// Unknown roles expand to an empty set, never an error.
	Expand(role string) []Permission

	// Allows reports whether the role grants action on resourceType.
	Allows(role, resourceType, action string) bool

	// PrecedenceRank returns the role's rank; lower means more privileged.
	// Unknown roles rank as math.MaxInt.
	PrecedenceRank(role string) int

	// Highest picks the most privileged of the given roles.
	// Ties are broken by name so the result is deterministic.
	Highest(roles ...string) string

	// VerifyRole returns ErrInvalidRole if the given role does not exist.
	VerifyRole(role string) error

	// Roles returns all role names, most privileged first.
	Roles() []string
}

// RoleSource defines the interface for providing role data.
type RoleSource interface {
	// Load returns a map of all roles.
	Load(ctx context.Context) (map[string]Role, error)
}

type catalog struct {
	// permissions holds the normalized direct and inherited keys per role.
	// Read-only after construction.
	permissions map[string][]string
	ranks       map[string]int
	sortedRoles []string
}

// NewCatalog loads roles from the source and resolves inheritance once.
// It fails on circular or too deep inheritance, malformed permission keys,
// references to unknown roles and roles without any permission.
func NewCatalog(ctx context.Context, source RoleSource) (Catalog, error) {
	roles, err := source.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrRoleSourceFailed, err)
	}
	if roles == nil {
		roles = make(map[string]Role)
	}

	if err := validateRoles(roles); err != nil {
		return nil, err
	}
	if err := validateRoleInheritance(roles); err != nil {
		return nil, err
	}

	permissions := make(map[string][]string, len(roles))
	for name := range roles {
		all := scopes.NormalizeScopes(collectPermissions(name, roles, make(map[string]bool), 0))
		if len(all) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrEmptyRole, name)
		}
		permissions[name] = all
	}

	ranks := rankRoles(roles)
	sorted := make([]string, 0, len(roles))
	for name := range roles {
		sorted = append(sorted, name)
	}
	slices.SortFunc(sorted, func(a, b string) int {
		return compareRank(ranks, a, b)
	})

	return &catalog{
		permissions: permissions,
		ranks:       ranks,
		sortedRoles: sorted,
	}, nil
}

// MustCatalog is like NewCatalog but panics on error.
// Intended for static catalogs built at program start.
func MustCatalog(ctx context.Context, source RoleSource) Catalog {
	c, err := NewCatalog(ctx, source)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *catalog) Expand(role string) []Permission {
	keys, ok := c.permissions[role]
	if !ok {
		return []Permission{}
	}

	out := make([]Permission, 0, len(keys))
	for _, k := range keys {
		// keys are validated at construction
		p, _ := ParsePermission(k)
		out = append(out, p)
	}
	return out
}

func (c *catalog) Allows(role, resourceType, action string) bool {
	keys, ok := c.permissions[role]
	if !ok || !validPart(resourceType) || !validPart(action) {
		return false
	}
	return scopes.HasScope(keys, scopes.Join(resourceType, action))
}

// validPart rejects halves that would change the meaning of the joined key,
// e.g. ("document.secret", "purge") matching "document.*".
func validPart(s string) bool {
	return s != "" && !strings.Contains(s, scopes.ScopeDelimiter) && !strings.Contains(s, scopes.ScopeWildcard)
}

func (c *catalog) PrecedenceRank(role string) int {
	if r, ok := c.ranks[role]; ok {
		return r
	}
	return math.MaxInt
}

func (c *catalog) Highest(roles ...string) string {
	if len(roles) == 0 {
		return ""
	}
	best := roles[0]
	for _, r := range roles[1:] {
		if compareRank(c.ranks, r, best) < 0 {
			best = r
		}
	}
	return best
}

func (c *catalog) VerifyRole(role string) error {
	if _, ok := c.permissions[role]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	return nil
}

func (c *catalog) Roles() []string {
	return slices.Clone(c.sortedRoles)
}

func compareRank(ranks map[string]int, a, b string) int {
	ra, ok := ranks[a]
	if !ok {
		ra = math.MaxInt
	}
	rb, ok := ranks[b]
	if !ok {
		rb = math.MaxInt
	}
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// rankRoles assigns each role its explicit rank or, when absent, one derived
// from inheritance depth so that the deepest role ranks 0.
func rankRoles(roles map[string]Role) map[string]int {
	depths := make(map[string]int, len(roles))
	visited := make(map[string]bool, len(roles))
	maxDepth := 0
	for name := range roles {
		if d := calculateRoleDepth(name, roles, depths, visited, make(map[string]bool)); d > maxDepth {
			maxDepth = d
		}
	}

	ranks := make(map[string]int, len(roles))
	for name, role := range roles {
		if role.Rank != nil {
			ranks[name] = *role.Rank
			continue
		}
		ranks[name] = maxDepth - depths[name]
	}
	return ranks
}

// collectPermissions recursively collects all permissions for a role, including inherited ones.
func collectPermissions(roleName string, roles map[string]Role, visited map[string]bool, depth int) []string {
	if depth > MaxInheritanceDepth || visited[roleName] {
		return nil
	}
	visited[roleName] = true

	role, exists := roles[roleName]
	if !exists {
		return nil
	}

	result := slices.Clone(role.Permissions)
	for _, inherited := range role.Inherits {
		result = append(result, collectPermissions(inherited, roles, visited, depth+1)...)
	}
	return result
}

// calculateRoleDepth computes the inheritance depth of a role using DFS.
func calculateRoleDepth(roleName string, roles map[string]Role, depths map[string]int, visited, inProcess map[string]bool) int {
	if visited[roleName] {
		return depths[roleName]
	}
	if inProcess[roleName] {
		return 0 // cycle; reported by checkCircularInheritance
	}
	inProcess[roleName] = true
	defer func() { inProcess[roleName] = false }()

	maxDepth := 0
	for _, inherited := range roles[roleName].Inherits {
		if d := calculateRoleDepth(inherited, roles, depths, visited, inProcess) + 1; d > maxDepth {
			maxDepth = d
		}
	}

	depths[roleName] = maxDepth
	visited[roleName] = true
	return maxDepth
}

func validateRoles(roles map[string]Role) error {
	for name, role := range roles {
		if name == "" {
			return fmt.Errorf("%w: empty role name", ErrInvalidRole)
		}
		for _, p := range role.Permissions {
			if _, err := ParsePermission(p); err != nil {
				return errors.Join(ErrInvalidPermission, fmt.Errorf("role %q: %w", name, err))
			}
		}
		for _, parent := range role.Inherits {
			if _, ok := roles[parent]; !ok {
				return fmt.Errorf("%w: role %q inherits unknown role %q", ErrInvalidRole, name, parent)
			}
		}
	}
	return nil
}

// validateRoleInheritance checks for circular dependencies and excessive depth in role inheritance.
func validateRoleInheritance(roles map[string]Role) error {
	for name := range roles {
		if err := checkCircularInheritance(name, roles, []string{name}); err != nil {
			return err
		}
	}

	depths := make(map[string]int)
	visited := make(map[string]bool)
	for name := range roles {
		if calculateRoleDepth(name, roles, depths, visited, make(map[string]bool)) > MaxInheritanceDepth {
			return errors.Join(ErrCircularInheritance,
				fmt.Errorf("inheritance depth exceeds maximum allowed depth of %d", MaxInheritanceDepth))
		}
	}

	return nil
}

// checkCircularInheritance performs DFS to detect circular dependencies in role inheritance.
func checkCircularInheritance(roleName string, roles map[string]Role, path []string) error {
	if len(path) > MaxInheritanceDepth+1 {
		return nil // depth is reported separately
	}
	for _, inherited := range roles[roleName].Inherits {
		if slices.Contains(path, inherited) {
			return errors.Join(ErrCircularInheritance,
				fmt.Errorf("circular inheritance detected: %s -> %s", roleName, inherited))
		}
		if err := checkCircularInheritance(inherited, roles, append(slices.Clone(path), inherited)); err != nil {
			return err
		}
	}
	return nil
}
