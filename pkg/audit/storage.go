package audit

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/dmitrymomot/gatekeeper/pkg/logger"
)

// Storage persists audit events in batches.
// Implementations should make a batch atomic: either all events are stored or none.
type Storage interface {
	StoreBatch(ctx context.Context, events []Event) error
}

// MemoryStorage keeps events in memory. Useful in tests and single-process setups.
type MemoryStorage struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// StoreBatch implements Storage.
func (s *MemoryStorage) StoreBatch(ctx context.Context, events []Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

// Events returns a copy of the stored events in insertion order.
func (s *MemoryStorage) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events)
}

// ByTenant returns the stored events of one tenant.
func (s *MemoryStorage) ByTenant(tenantID string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Event
	for _, e := range s.events {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out
}

// SlogStorage writes events as structured log records. It is the fallback
// when no database is configured.
type SlogStorage struct {
	log *slog.Logger
}

// NewSlogStorage creates a storage writing to log.
func NewSlogStorage(log *slog.Logger) *SlogStorage {
	return &SlogStorage{log: log.With(logger.Component("audit"))}
}

// StoreBatch implements Storage.
func (s *SlogStorage) StoreBatch(ctx context.Context, events []Event) error {
	for _, e := range events {
		s.log.LogAttrs(ctx, slog.LevelInfo, "audit event",
			slog.String("event_id", e.ID),
			logger.TenantID(e.TenantID),
			logger.PrincipalID(e.PrincipalID),
			logger.Resource(e.ResourceType, e.ResourceID, e.Action),
			logger.Decision(e.Decision),
			logger.Reason(e.Reason),
			logger.RequestID(e.RequestID),
			slog.Time("created_at", e.CreatedAt),
		)
	}
	return nil
}
