package tenant

// Scoped is implemented by persisted entities that belong to exactly one tenant.
// Stores and caches rely on it to keep rows of different tenants apart.
type Scoped interface {
	// Tenant returns the identifier of the owning tenant.
	Tenant() string
}

// Belongs reports whether the entity is owned by tenantID.
// An empty tenantID never matches.
func Belongs(s Scoped, tenantID string) bool {
	return tenantID != "" && s.Tenant() == tenantID
}

// Filter returns the rows owned by tenantID and the number of rows dropped.
// The input slice is not modified.
func Filter[T Scoped](tenantID string, rows []T) ([]T, int) {
	if len(rows) == 0 {
		return rows, 0
	}

	kept := make([]T, 0, len(rows))
	for _, row := range rows {
		if Belongs(row, tenantID) {
			kept = append(kept, row)
		}
	}
	return kept, len(rows) - len(kept)
}
