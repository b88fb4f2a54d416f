// Package pg provides utilities for PostgreSQL on the pgx/v5 driver:
// connection pooling with retries, goose migrations from an embedded
// filesystem, health checks and error classification helpers.
//
// # Usage
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	db := pg.OpenDB(pool) // database/sql view over the same pool
//
//	if err := pg.Migrate(ctx, db, migrations.FS, "migrations", cfg, log); err != nil {
//	    return err
//	}
//
// Config fields are populated from environment variables via
// github.com/caarlos0/env (PG_CONN_URL, PG_MAX_OPEN_CONNS, ...).
//
// # Errors
//
// IsNotFoundError, IsCheckViolationError and IsDuplicateKeyError classify
// driver errors without callers importing pgconn directly.
package pg
