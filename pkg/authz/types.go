package authz

import (
	"fmt"
	"time"
)

// Decision is the outcome of an authorization question.
// The zero value is Deny.
type Decision uint8

const (
	Deny Decision = iota
	Allow
)

// String implements fmt.Stringer.
func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Allowed reports whether the decision is Allow.
func (d Decision) Allowed() bool { return d == Allow }

// MarshalText implements encoding.TextMarshaler.
func (d Decision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Decision) UnmarshalText(b []byte) error {
	switch string(b) {
	case "allow":
		*d = Allow
	case "deny":
		*d = Deny
	default:
		return fmt.Errorf("authz: unknown decision %q", b)
	}
	return nil
}

// Reason tells how a decision was reached. It is meant for audit and logs,
// not for end users.
type Reason string

const (
	ReasonInvalidInput Reason = "invalid_input"
	ReasonNoAssignment Reason = "no_assignment"
	ReasonUnknownRole  Reason = "unknown_role"
	ReasonRoleAllow    Reason = "role_allow"
	ReasonRoleDeny     Reason = "role_deny"
	ReasonGrantAllow   Reason = "grant_allow"
	ReasonGrantDeny    Reason = "grant_deny"
)

// Effect is the outcome a ResourceGrant forces.
type Effect string

const (
	EffectAllow Effect = "allow"
	EffectDeny  Effect = "deny"
)

var effects = []Effect{EffectAllow, EffectDeny}

// Request is a single authorization question. ResourceID is optional; an
// empty ResourceID asks at collection scope (e.g. "list documents").
type Request struct {
	TenantID     string
	PrincipalID  string
	ResourceType string
	ResourceID   string
	Action       string
}

// Result is a decision together with how it was reached.
type Result struct {
	Decision Decision
	Reason   Reason
	Role     string // effective role, empty when none
	Cached   bool
	// ExpiredGrants counts matching grants ignored because they expired.
	// Never set on cached results.
	ExpiredGrants int
}

// Allowed is shorthand for r.Decision.Allowed().
func (r Result) Allowed() bool { return r.Decision.Allowed() }

// RoleAssignment binds a principal to a role within a tenant.
// A tenant holds at most one assignment per principal; writing a new one
// replaces the old.
type RoleAssignment struct {
	TenantID    string
	PrincipalID string
	Role        string
	AssignedAt  time.Time
	AssignedBy  string
}

// Tenant implements tenant.Scoped.
func (a RoleAssignment) Tenant() string { return a.TenantID }

// GrantKey identifies a resource grant.
type GrantKey struct {
	TenantID     string
	PrincipalID  string
	ResourceType string
	ResourceID   string // empty for a collection-scope grant
	Action       string
}

// ResourceGrant is an explicit allow or deny for one principal on one
// resource and action, independent of the principal's role.
type ResourceGrant struct {
	TenantID     string
	PrincipalID  string
	ResourceType string
	ResourceID   string
	Action       string
	Effect       Effect
	ExpiresAt    *time.Time // nil never expires
	CreatedAt    time.Time
}

// Tenant implements tenant.Scoped.
func (g ResourceGrant) Tenant() string { return g.TenantID }

// Key returns the identity of the grant.
func (g ResourceGrant) Key() GrantKey {
	return GrantKey{
		TenantID:     g.TenantID,
		PrincipalID:  g.PrincipalID,
		ResourceType: g.ResourceType,
		ResourceID:   g.ResourceID,
		Action:       g.Action,
	}
}

// Active reports whether the grant is in force at now.
func (g ResourceGrant) Active(now time.Time) bool {
	return g.ExpiresAt == nil || now.Before(*g.ExpiresAt)
}

func (g ResourceGrant) matches(req Request) bool {
	return g.PrincipalID == req.PrincipalID &&
		g.ResourceType == req.ResourceType &&
		g.ResourceID == req.ResourceID &&
		g.Action == req.Action
}
