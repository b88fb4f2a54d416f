package authz

import (
	"errors"

	"github.com/dmitrymomot/gatekeeper/pkg/validator"
)

func (r Request) rules() []validator.Rule {
	return []validator.Rule{
		validator.ValidIdentifier("tenant_id", r.TenantID),
		validator.ValidIdentifier("principal_id", r.PrincipalID),
		validator.ValidName("resource_type", r.ResourceType),
		validator.OptionalIdentifier("resource_id", r.ResourceID),
		validator.ValidName("action", r.Action),
	}
}

// Validate checks that every identifier is well formed.
// The returned error wraps ErrInvalidInput and carries validator.ValidationErrors.
func (r Request) Validate() error {
	if err := validator.Apply(r.rules()...); err != nil {
		return errors.Join(ErrInvalidInput, err)
	}
	return nil
}

func (r Request) valid() bool {
	return validator.Valid(r.rules()...)
}

func validatePrincipal(tenantID, principalID string) error {
	err := validator.Apply(
		validator.ValidIdentifier("tenant_id", tenantID),
		validator.ValidIdentifier("principal_id", principalID),
	)
	if err != nil {
		return errors.Join(ErrInvalidInput, err)
	}
	return nil
}

func validateAssignment(a RoleAssignment) error {
	err := validator.Apply(
		validator.ValidIdentifier("tenant_id", a.TenantID),
		validator.ValidIdentifier("principal_id", a.PrincipalID),
		validator.RequiredString("role", a.Role),
		validator.OptionalIdentifier("assigned_by", a.AssignedBy),
	)
	if err != nil {
		return errors.Join(ErrInvalidInput, err)
	}
	return nil
}

func validateGrantKey(k GrantKey) error {
	req := Request(k)
	return req.Validate()
}

func validateGrant(g ResourceGrant) error {
	if err := validateGrantKey(g.Key()); err != nil {
		return err
	}
	if err := validator.Apply(validator.InList("effect", g.Effect, effects)); err != nil {
		return errors.Join(ErrInvalidInput, ErrInvalidEffect, err)
	}
	return nil
}
