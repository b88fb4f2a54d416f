package audit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekeeper/pkg/audit"
)

func TestNewEvent(t *testing.T) {
	t.Parallel()

	e := audit.NewEvent("t1", "u1", "document", "doc_1", "delete", "deny",
		audit.WithReason("grant_deny"),
		audit.WithRequestID("req-1"),
		audit.WithMetadata("ip", "10.0.0.1"),
	)

	assert.NotEmpty(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, "t1", e.TenantID)
	assert.Equal(t, "u1", e.PrincipalID)
	assert.Equal(t, "grant_deny", e.Reason)
	assert.Equal(t, "req-1", e.RequestID)
	assert.Equal(t, "10.0.0.1", e.Metadata["ip"])
	require.NoError(t, e.Validate())
}

func TestEvent_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event audit.Event
	}{
		{"missing action", audit.Event{Decision: "deny"}},
		{"missing decision", audit.Event{Action: "read"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.event.Validate()
			assert.ErrorIs(t, err, audit.ErrEventValidation)
		})
	}
}
