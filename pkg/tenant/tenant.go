package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tenant represents a tenant in the system with minimal information
// needed for request-scoped operations.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Provider loads tenant information from a data source.
type Provider interface {
	// GetByIdentifier retrieves a tenant using any unique identifier.
	// Returns ErrTenantNotFound if no tenant matches the identifier.
	GetByIdentifier(ctx context.Context, identifier string) (*Tenant, error)
}

// ProviderFunc is an adapter to allow the use of ordinary functions as Providers.
type ProviderFunc func(ctx context.Context, identifier string) (*Tenant, error)

// GetByIdentifier calls the function.
func (f ProviderFunc) GetByIdentifier(ctx context.Context, identifier string) (*Tenant, error) {
	return f(ctx, identifier)
}
