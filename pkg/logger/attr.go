package logger

import (
	"log/slog"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// TenantID records the tenant identifier under the key "tenant_id".
func TenantID(id string) slog.Attr {
	return slog.String("tenant_id", id)
}

// PrincipalID records the principal identifier under the key "principal_id".
func PrincipalID(id string) slog.Attr {
	return slog.String("principal_id", id)
}

// Role records a role name under the key "role".
// Empty roles produce an empty Attr.
func Role(role string) slog.Attr {
	if role == "" {
		return slog.Attr{}
	}
	return slog.String("role", role)
}

// Resource groups the resource type, optional id and action under "resource".
func Resource(resourceType, resourceID, action string) slog.Attr {
	attrs := []slog.Attr{slog.String("type", resourceType)}
	if resourceID != "" {
		attrs = append(attrs, slog.String("id", resourceID))
	}
	attrs = append(attrs, slog.String("action", action))
	return Group("resource", attrs...)
}

// Decision records an authorization outcome under the key "decision".
func Decision(decision string) slog.Attr {
	return slog.String("decision", decision)
}

// Reason records why a decision was reached under the key "reason".
func Reason(reason string) slog.Attr {
	return slog.String("reason", reason)
}

// RequestID records the request identifier under the key "request_id".
// If id is empty, it returns an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
