package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/gatekeeper/pkg/validator"
)

func TestValidIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "simple", value: "t1", want: true},
		{name: "uuid", value: "3f2c1a9e-8d6b-4f0e-9b1d-2a7c5e4f8a10", want: true},
		{name: "email like", value: "svc+ci@example.com", want: true},
		{name: "underscore", value: "doc_42", want: true},
		{name: "max length", value: strings.Repeat("a", validator.MaxIdentifierLength), want: true},
		{name: "too long", value: strings.Repeat("a", validator.MaxIdentifierLength+1), want: false},
		{name: "empty", value: "", want: false},
		{name: "whitespace", value: " t1", want: false},
		{name: "colon", value: "t1:u1", want: false},
		{name: "glob star", value: "t*", want: false},
		{name: "glob bracket", value: "t[1]", want: false},
		{name: "leading dot", value: ".hidden", want: false},
		{name: "tilde sentinel", value: "~", want: false},
		{name: "unicode", value: "tenant-ü", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, validator.Valid(validator.ValidIdentifier("id", tt.value)))
		})
	}
}

func TestValidName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "simple", value: "document", want: true},
		{name: "snake and dash", value: "audit_log-v2", want: true},
		{name: "max length", value: strings.Repeat("a", validator.MaxIdentifierLength), want: true},
		{name: "too long", value: strings.Repeat("a", validator.MaxIdentifierLength+1), want: false},
		{name: "empty", value: "", want: false},
		{name: "dot", value: "document.secret", want: false},
		{name: "wildcard", value: "*", want: false},
		{name: "at sign", value: "svc@ci", want: false},
		{name: "colon", value: "doc:read", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, validator.Valid(validator.ValidName("name", tt.value)))
		})
	}
}

func TestOptionalIdentifier(t *testing.T) {
	t.Parallel()

	assert.True(t, validator.Valid(validator.OptionalIdentifier("resource_id", "")))
	assert.True(t, validator.Valid(validator.OptionalIdentifier("resource_id", "doc_42")))
	assert.False(t, validator.Valid(validator.OptionalIdentifier("resource_id", "doc:42")))
}

func TestInList(t *testing.T) {
	t.Parallel()

	allowed := []string{"redis", "memory", "none"}
	assert.True(t, validator.Valid(validator.InList("cache", "redis", allowed)))
	assert.False(t, validator.Valid(validator.InList("cache", "memcached", allowed)))

	err := validator.Apply(validator.InList("cache", "memcached", allowed))
	verrs := validator.ExtractValidationErrors(err)
	assert.Equal(t, []string{"must be one of: [redis memory none]"}, verrs.Get("cache"))
}

func TestRequiredString(t *testing.T) {
	t.Parallel()

	assert.True(t, validator.Valid(validator.RequiredString("name", "x")))
	assert.False(t, validator.Valid(validator.RequiredString("name", "  ")))
}
