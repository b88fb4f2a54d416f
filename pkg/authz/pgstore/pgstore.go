package pgstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/gatekeeper/pkg/authz"
	"github.com/dmitrymomot/gatekeeper/pkg/pg"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrNilDB is returned when the store is used without a database handle.
var ErrNilDB = errors.New("pgstore: database connection unavailable")

// Migrate applies the authz schema.
func Migrate(ctx context.Context, db *sql.DB, cfg pg.Config, log *slog.Logger) error {
	return pg.Migrate(ctx, db, migrations, "migrations", cfg, log)
}

var _ authz.Store = (*Store)(nil)

// Store is a PostgreSQL authz.Store. Assignments are keyed by
// (tenant_id, principal_id), so a write replaces the previous role.
type Store struct {
	db *sql.DB
}

// New wraps an open database. Use pg.OpenDB to get one from a pgx pool.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectAssignment = `
	select tenant_id, principal_id, role, assigned_at, coalesce(assigned_by, '')
	from authz_role_assignments
	where tenant_id = $1 and principal_id = $2`

// LoadRoleAssignment implements authz.Store.
func (s *Store) LoadRoleAssignment(ctx context.Context, tenantID, principalID string) (*authz.RoleAssignment, error) {
	if s.db == nil {
		return nil, ErrNilDB
	}

	var a authz.RoleAssignment
	err := s.db.QueryRowContext(ctx, selectAssignment, tenantID, principalID).
		Scan(&a.TenantID, &a.PrincipalID, &a.Role, &a.AssignedAt, &a.AssignedBy)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("pgstore: load role assignment: %w", err)
	}
	return &a, nil
}

const selectGrants = `
	select tenant_id, principal_id, resource_type, resource_id, action, effect, expires_at, created_at
	from authz_resource_grants
	where tenant_id = $1 and principal_id = $2 and resource_type = $3 and resource_id = $4
	order by action`

// LoadResourceGrants implements authz.Store.
func (s *Store) LoadResourceGrants(ctx context.Context, tenantID, principalID, resourceType, resourceID string) ([]authz.ResourceGrant, error) {
	if s.db == nil {
		return nil, ErrNilDB
	}

	rows, err := s.db.QueryContext(ctx, selectGrants, tenantID, principalID, resourceType, resourceID)
	if err != nil {
		return nil, fmt.Errorf("pgstore: load resource grants: %w", err)
	}
	defer rows.Close()

	var grants []authz.ResourceGrant
	for rows.Next() {
		var (
			g         authz.ResourceGrant
			effect    string
			expiresAt sql.NullTime
		)
		if err := rows.Scan(&g.TenantID, &g.PrincipalID, &g.ResourceType, &g.ResourceID,
			&g.Action, &effect, &expiresAt, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgstore: scan resource grant: %w", err)
		}
		g.Effect = authz.Effect(effect)
		if expiresAt.Valid {
			t := expiresAt.Time
			g.ExpiresAt = &t
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgstore: load resource grants: %w", err)
	}
	return grants, nil
}

const upsertAssignment = `
	insert into authz_role_assignments (tenant_id, principal_id, role, assigned_at, assigned_by)
	values ($1, $2, $3, $4, nullif($5, ''))
	on conflict (tenant_id, principal_id) do update
	set role = excluded.role, assigned_at = excluded.assigned_at, assigned_by = excluded.assigned_by`

// WriteRoleAssignment implements authz.Store.
func (s *Store) WriteRoleAssignment(ctx context.Context, a authz.RoleAssignment) error {
	if s.db == nil {
		return ErrNilDB
	}
	if a.AssignedAt.IsZero() {
		a.AssignedAt = time.Now().UTC()
	}

	if _, err := s.db.ExecContext(ctx, upsertAssignment,
		a.TenantID, a.PrincipalID, a.Role, a.AssignedAt, a.AssignedBy); err != nil {
		return fmt.Errorf("pgstore: write role assignment: %w", err)
	}
	return nil
}

// DeleteRoleAssignment implements authz.Store.
func (s *Store) DeleteRoleAssignment(ctx context.Context, tenantID, principalID string) error {
	if s.db == nil {
		return ErrNilDB
	}

	if _, err := s.db.ExecContext(ctx,
		`delete from authz_role_assignments where tenant_id = $1 and principal_id = $2`,
		tenantID, principalID); err != nil {
		return fmt.Errorf("pgstore: delete role assignment: %w", err)
	}
	return nil
}

const upsertGrant = `
	insert into authz_resource_grants
		(tenant_id, principal_id, resource_type, resource_id, action, effect, expires_at, created_at)
	values ($1, $2, $3, $4, $5, $6, $7, $8)
	on conflict (tenant_id, principal_id, resource_type, resource_id, action) do update
	set effect = excluded.effect, expires_at = excluded.expires_at, created_at = excluded.created_at`

// WriteResourceGrant implements authz.Store.
func (s *Store) WriteResourceGrant(ctx context.Context, g authz.ResourceGrant) error {
	if s.db == nil {
		return ErrNilDB
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}

	var expiresAt sql.NullTime
	if g.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: *g.ExpiresAt, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, upsertGrant,
		g.TenantID, g.PrincipalID, g.ResourceType, g.ResourceID, g.Action,
		string(g.Effect), expiresAt, g.CreatedAt)
	if err != nil {
		if pg.IsCheckViolationError(err) {
			return errors.Join(authz.ErrInvalidEffect, err)
		}
		return fmt.Errorf("pgstore: write resource grant: %w", err)
	}
	return nil
}

// DeleteResourceGrant implements authz.Store.
func (s *Store) DeleteResourceGrant(ctx context.Context, key authz.GrantKey) error {
	if s.db == nil {
		return ErrNilDB
	}

	_, err := s.db.ExecContext(ctx, `
		delete from authz_resource_grants
		where tenant_id = $1 and principal_id = $2 and resource_type = $3 and resource_id = $4 and action = $5`,
		key.TenantID, key.PrincipalID, key.ResourceType, key.ResourceID, key.Action)
	if err != nil {
		return fmt.Errorf("pgstore: delete resource grant: %w", err)
	}
	return nil
}

// Ping reports whether the database is reachable. It makes the store usable
// with pg.Healthcheck.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrNilDB
	}
	return s.db.PingContext(ctx)
}
