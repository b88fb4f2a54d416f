// Package authz assembles the authorization engine from configuration.
// The engine package (pkg/authz) is imported as engine below.
//
//	cfg, err := authz.LoadConfig(config.WithEnvFiles(".env"))
//	svc, err := authz.New(ctx, cfg, log, engine.WithMetrics(prometheus.DefaultRegisterer))
//	defer svc.Close(ctx)
//
//	d, err := svc.Engine.Authorize(ctx, req)
//
// AUTHZ_STORE picks postgres or memory, AUTHZ_CACHE picks redis, memory or
// none. With Postgres the schema is migrated on start and audit events go to
// the authz_audit_events table; otherwise they are written to the log.
package authz
