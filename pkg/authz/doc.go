// Package authz resolves tenant-scoped authorization questions.
//
// An Engine answers "may principal P perform action A on resource R within
// tenant T" by combining the principal's role (expanded through an
// rbac.Catalog) with explicit per-resource grants. Precedence, highest first:
//
//  1. an unexpired deny grant
//  2. an unexpired allow grant
//  3. the role-derived decision
//  4. deny
//
// A principal without a role in the tenant is denied before grants are
// consulted. Malformed identifiers and unknown roles resolve to Deny.
//
// # Failure
//
// Store failures and timeouts return an error wrapping ErrIndeterminate,
// never a decision. Callers pick fail-open or fail-closed per use case:
//
//	d, err := engine.Authorize(ctx, authz.Request{
//		TenantID:     "t1",
//		PrincipalID:  "u1",
//		ResourceType: "document",
//		ResourceID:   "doc_42",
//		Action:       "delete",
//	})
//	switch {
//	case errors.Is(err, authz.ErrIndeterminate):
//		// 503, try again
//	case !d.Allowed():
//		// 403
//	}
//
// # Caching
//
// With WithCache the engine keeps decisions, allow and deny alike, in a
// CacheBackend for at most the configured TTL. Keys always carry tenant and
// principal. Every mutation (AssignRole, RemoveRole, PutGrant, RevokeGrant)
// invalidates affected entries before it returns. Role mutations also rotate
// a per-principal generation token; entries stamped with an older token are
// ignored, which closes the window where a read that started before the
// mutation writes its result back after it. An unreachable backend turns
// lookups into store reads and never fails a request.
//
// # HTTP
//
// Require and Guard adapt the engine to net/http. Guard hands the Result to
// the handler explicitly:
//
//	r.Delete("/documents/{id}", engine.Guard("document", "delete",
//		func(w http.ResponseWriter, r *http.Request, res authz.Result) { ... },
//		authz.ResourceFromURLParam("id"),
//	))
package authz
