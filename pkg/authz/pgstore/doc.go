// Package pgstore keeps role assignments, resource grants and audit events
// in PostgreSQL.
//
// It talks database/sql through the pgx stdlib driver and ships its schema as
// embedded goose migrations:
//
//	pool, _ := pg.Connect(ctx, cfg)
//	db := pg.OpenDB(pool)
//	if err := pgstore.Migrate(ctx, db, cfg, log); err != nil { ... }
//	engine := authz.New(pgstore.New(db), catalog)
//
// Collection-scope grants are stored with an empty resource_id so the
// primary key never contains NULL.
package pgstore
