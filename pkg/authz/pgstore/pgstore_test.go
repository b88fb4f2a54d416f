package pgstore_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekeeper/pkg/audit"
	"github.com/dmitrymomot/gatekeeper/pkg/authz"
	"github.com/dmitrymomot/gatekeeper/pkg/authz/pgstore"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestStore_LoadRoleAssignment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, mock := newMock(t)
	s := pgstore.New(db)
	assignedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("from authz_role_assignments").
		WithArgs("t1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "principal_id", "role", "assigned_at", "assigned_by"}).
			AddRow("t1", "u1", "admin", assignedAt, "root"))

	a, err := s.LoadRoleAssignment(ctx, "t1", "u1")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, authz.RoleAssignment{
		TenantID: "t1", PrincipalID: "u1", Role: "admin", AssignedAt: assignedAt, AssignedBy: "root",
	}, *a)

	mock.ExpectQuery("from authz_role_assignments").
		WithArgs("t1", "u2").
		WillReturnError(sql.ErrNoRows)

	a, err = s.LoadRoleAssignment(ctx, "t1", "u2")
	require.NoError(t, err)
	assert.Nil(t, a)

	mock.ExpectQuery("from authz_role_assignments").
		WithArgs("t1", "u3").
		WillReturnError(errors.New("connection refused"))

	_, err = s.LoadRoleAssignment(ctx, "t1", "u3")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadResourceGrants(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	s := pgstore.New(db)
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	expires := created.Add(time.Hour)

	mock.ExpectQuery("from authz_resource_grants").
		WithArgs("t1", "u1", "document", "doc_42").
		WillReturnRows(sqlmock.NewRows([]string{
			"tenant_id", "principal_id", "resource_type", "resource_id", "action", "effect", "expires_at", "created_at",
		}).
			AddRow("t1", "u1", "document", "doc_42", "delete", "allow", nil, created).
			AddRow("t1", "u1", "document", "doc_42", "update", "deny", expires, created))

	grants, err := s.LoadResourceGrants(context.Background(), "t1", "u1", "document", "doc_42")
	require.NoError(t, err)
	require.Len(t, grants, 2)

	assert.Equal(t, authz.EffectAllow, grants[0].Effect)
	assert.Nil(t, grants[0].ExpiresAt)
	assert.Equal(t, authz.EffectDeny, grants[1].Effect)
	require.NotNil(t, grants[1].ExpiresAt)
	assert.True(t, expires.Equal(*grants[1].ExpiresAt))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Writes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, mock := newMock(t)
	s := pgstore.New(db)

	mock.ExpectExec("insert into authz_role_assignments").
		WithArgs("t1", "u1", "member", sqlmock.AnyArg(), "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.WriteRoleAssignment(ctx, authz.RoleAssignment{TenantID: "t1", PrincipalID: "u1", Role: "member"}))

	mock.ExpectExec("delete from authz_role_assignments").
		WithArgs("t1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, s.DeleteRoleAssignment(ctx, "t1", "u1"))

	grant := authz.ResourceGrant{
		TenantID: "t1", PrincipalID: "u1", ResourceType: "document",
		Action: "list", Effect: authz.EffectAllow,
	}
	mock.ExpectExec("insert into authz_resource_grants").
		WithArgs("t1", "u1", "document", "", "list", "allow", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.WriteResourceGrant(ctx, grant))

	mock.ExpectExec("delete from authz_resource_grants").
		WithArgs("t1", "u1", "document", "", "list").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.DeleteResourceGrant(ctx, grant.Key()))

	grant.Effect = "maybe"
	mock.ExpectExec("insert into authz_resource_grants").
		WillReturnError(&pgconn.PgError{Code: "23514"})
	assert.ErrorIs(t, s.WriteResourceGrant(ctx, grant), authz.ErrInvalidEffect)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_WithEngine(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	s := pgstore.New(db)

	mock.ExpectQuery("from authz_role_assignments").
		WithArgs("t1", "u1").
		WillReturnError(errors.New("connection reset"))

	_, err := authz.New(s, testCatalog(t)).Authorize(context.Background(), authz.Request{
		TenantID: "t1", PrincipalID: "u1", ResourceType: "document", Action: "read",
	})
	assert.ErrorIs(t, err, authz.ErrIndeterminate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_NilDB(t *testing.T) {
	t.Parallel()

	s := pgstore.New(nil)
	_, err := s.LoadRoleAssignment(context.Background(), "t1", "u1")
	assert.ErrorIs(t, err, pgstore.ErrNilDB)
	assert.ErrorIs(t, s.Ping(context.Background()), pgstore.ErrNilDB)
	assert.ErrorIs(t, pgstore.NewAuditStorage(nil).StoreBatch(context.Background(), nil), audit.ErrStorageNotAvailable)
}

func TestAuditStorage_StoreBatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, mock := newMock(t)
	s := pgstore.NewAuditStorage(db)

	events := []audit.Event{
		audit.NewEvent("t1", "u1", "document", "doc_1", "delete", "deny", audit.WithReason("role_deny")),
		audit.NewEvent("t1", "u2", "user", "", "invite", "deny", audit.WithMetadata("role", "member")),
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("insert into authz_audit_events")
	prep.ExpectExec().
		WithArgs(events[0].ID, "t1", "u1", "document", "doc_1", "delete", "deny", "role_deny", "", []byte("{}"), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs(events[1].ID, "t1", "u2", "user", "", "invite", "deny", "", "", []byte(`{"role":"member"}`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.StoreBatch(ctx, events))

	mock.ExpectBegin()
	mock.ExpectPrepare("insert into authz_audit_events").
		ExpectExec().
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	assert.Error(t, s.StoreBatch(ctx, events[:1]))
	require.NoError(t, s.StoreBatch(ctx, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
