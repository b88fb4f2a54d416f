// Package tenant carries tenant identity through a request and marks persisted
// entities as tenant-owned.
//
// Resolvers extract a tenant identifier from an HTTP request (header or chi
// route parameter), a Provider loads the tenant, and Middleware stores it in
// the request context where authorization reads it with IDFromContext.
//
//	mw := tenant.Middleware(tenant.NewHeaderResolver("X-Tenant-ID"), provider,
//		tenant.WithSkipPaths("/health"),
//	)
//
// Entities implement Scoped so that stores can drop foreign rows without
// runtime type inspection:
//
//	func (a RoleAssignment) Tenant() string { return a.TenantID }
//
//	rows, dropped := tenant.Filter(tenantID, rows)
package tenant
