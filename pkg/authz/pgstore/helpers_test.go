package pgstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekeeper/pkg/rbac"
)

func testCatalog(t *testing.T) rbac.Catalog {
	t.Helper()
	c, err := rbac.NewCatalog(context.Background(), rbac.DefaultSource())
	require.NoError(t, err)
	return c
}
