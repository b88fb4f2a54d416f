package validator

import (
	"regexp"
)

// Identifiers used as tenant, principal and resource IDs. They begin
// with an alphanumeric character and never contain ':' or glob characters, so
// they can be joined into cache keys without escaping.
var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._@+-]{0,127}$`)

// Names are the resource type and action halves of a "resource.action"
// permission key, so they cannot contain the '.' delimiter.
var nameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,127}$`)

// MaxIdentifierLength is the longest identifier accepted by ValidIdentifier.
const MaxIdentifierLength = 128

// ValidIdentifier validates a required identifier.
func ValidIdentifier(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return identifierRegex.MatchString(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be 1-128 characters: letters, digits, '.', '_', '@', '+', '-'",
			TranslationKey: "validation.identifier",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// ValidName validates a required resource type or action name.
func ValidName(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return nameRegex.MatchString(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be 1-128 characters: letters, digits, '_', '-'",
			TranslationKey: "validation.name",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// OptionalIdentifier validates an identifier that may be omitted.
func OptionalIdentifier(field, value string) Rule {
	rule := ValidIdentifier(field, value)
	check := rule.Check
	rule.Check = func() bool {
		return value == "" || check()
	}
	return rule
}
