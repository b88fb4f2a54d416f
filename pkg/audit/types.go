package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is a single authorization audit record.
type Event struct {
	ID           string         `json:"id"`
	TenantID     string         `json:"tenant_id"`
	PrincipalID  string         `json:"principal_id"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Action       string         `json:"action"`
	Decision     string         `json:"decision"`
	Reason       string         `json:"reason,omitempty"`
	RequestID    string         `json:"request_id,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Validate checks if the event has all required fields
func (e *Event) Validate() error {
	switch {
	case e.Action == "":
		return fmt.Errorf("%w: action is required", ErrEventValidation)
	case e.Decision == "":
		return fmt.Errorf("%w: decision is required", ErrEventValidation)
	}
	return nil
}

// EventOption applies optional fields to an Event during creation.
type EventOption func(*Event)

// NewEvent creates an event with a fresh ID and timestamp.
func NewEvent(tenantID, principalID, resourceType, resourceID, action, decision string, opts ...EventOption) Event {
	e := Event{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		PrincipalID:  principalID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       action,
		Decision:     decision,
		CreatedAt:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// WithReason records why the decision was reached.
func WithReason(reason string) EventOption {
	return func(e *Event) {
		e.Reason = reason
	}
}

// WithRequestID links the event to the originating request.
func WithRequestID(id string) EventOption {
	return func(e *Event) {
		e.RequestID = id
	}
}

// WithMetadata adds metadata to the event
func WithMetadata(key string, value any) EventOption {
	return func(e *Event) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]any)
		}
		e.Metadata[key] = value
	}
}
