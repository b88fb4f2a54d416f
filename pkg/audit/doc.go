// Package audit records authorization decisions for later review.
//
// The engine emits an Event for every denied mutating action (and optionally
// for allowed ones). Delivery is fire-and-forget: AsyncLogger buffers events in
// a bounded channel and a single background goroutine writes them in batches
// to a Storage. Emit never blocks the authorization path; when the buffer is
// full the event is dropped and counted.
//
//	store := audit.NewMemoryStorage()
//	al := audit.NewAsyncLogger(store, audit.AsyncOptions{BufferSize: 1024}, log)
//	defer al.Close(ctx)
//
//	_ = al.Emit(audit.NewEvent("t1", "u1", "document", "doc_42", "delete", "deny",
//	    audit.WithReason("grant_deny"),
//	))
//
// Storages: MemoryStorage (tests), SlogStorage (structured log output) and the
// PostgreSQL storage in the authz pgstore package.
package audit
