package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrymomot/gatekeeper/pkg/audit"
)

var _ audit.Storage = (*AuditStorage)(nil)

// AuditStorage writes audit events to authz_audit_events.
type AuditStorage struct {
	db *sql.DB
}

// NewAuditStorage wraps an open database.
func NewAuditStorage(db *sql.DB) *AuditStorage {
	return &AuditStorage{db: db}
}

const insertEvent = `
	insert into authz_audit_events
		(id, tenant_id, principal_id, resource_type, resource_id, action, decision, reason, request_id, metadata, created_at)
	values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	on conflict (id) do nothing`

// StoreBatch inserts all events in one transaction.
func (s *AuditStorage) StoreBatch(ctx context.Context, events []audit.Event) (err error) {
	if s.db == nil {
		return audit.ErrStorageNotAvailable
	}
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgstore: begin audit batch: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertEvent)
	if err != nil {
		return fmt.Errorf("pgstore: prepare audit insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		meta := []byte("{}")
		if len(e.Metadata) > 0 {
			if meta, err = json.Marshal(e.Metadata); err != nil {
				return fmt.Errorf("pgstore: encode audit metadata: %w", err)
			}
		}
		if _, err = stmt.ExecContext(ctx, e.ID, e.TenantID, e.PrincipalID, e.ResourceType, e.ResourceID,
			e.Action, e.Decision, e.Reason, e.RequestID, meta, e.CreatedAt); err != nil {
			return fmt.Errorf("pgstore: insert audit event: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("pgstore: commit audit batch: %w", err)
	}
	return nil
}
