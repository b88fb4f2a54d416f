// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// New builds a text or JSON slog.Handler and wraps it with LogHandlerDecorator,
// which runs registered ContextExtractor callbacks on every record. Attribute
// helpers in attr.go keep key names consistent across packages: TenantID,
// PrincipalID, Resource, Decision, Reason, Component and friends.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithConfig(cfg.Log),
//	    logger.WithContextExtractors(tenant.LoggerExtractor()),
//	)
//
//	log.WarnContext(ctx, "authz: unknown role",
//	    logger.TenantID(tenantID),
//	    logger.Role(role),
//	)
//
// Error returns an empty attribute for a nil error, so it can be passed
// unconditionally.
package logger
