// Package validator provides small declarative validation rules.
//
// A Rule pairs a boolean Check with translation-friendly error metadata.
// Apply evaluates rules and aggregates failures into ValidationErrors, which
// implements error and matches ErrValidationFailed with errors.Is. Valid is the
// allocation-free variant for hot paths that only need a verdict.
//
//	err := validator.Apply(
//	    validator.ValidIdentifier("tenant_id", tenantID),
//	    validator.OptionalIdentifier("resource_id", resourceID),
//	    validator.InList("effect", effect, []string{"allow", "deny"}),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    // inspect field-level messages
//	}
package validator
