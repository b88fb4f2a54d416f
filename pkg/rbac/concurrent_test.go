package rbac_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekeeper/pkg/rbac"
)

func TestCatalog_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	c, err := rbac.NewCatalog(context.Background(), rbac.NewInMemRoleSource(getTestRoles()))
	require.NoError(t, err)

	const numGoroutines = 50
	const numOperations = 500

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()

			for j := 0; j < numOperations; j++ {
				switch j % 5 {
				case 0:
					assert.True(t, c.Allows("editor", "content", "write"))
				case 1:
					assert.True(t, c.Allows("editor", "content", "read"))
				case 2:
					assert.False(t, c.Allows("viewer", "content", "write"))
				case 3:
					assert.Equal(t, "admin", c.Highest("viewer", "admin"))
				case 4:
					assert.Len(t, c.Expand("editor"), 2)
				}
			}
		}()
	}

	wg.Wait()
}

func TestInMemRoleSource_ConcurrentLoad(t *testing.T) {
	t.Parallel()

	source := rbac.NewInMemRoleSource(getTestRoles())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := rbac.NewCatalog(context.Background(), source)
			assert.NoError(t, err)
			if c != nil {
				assert.NoError(t, c.VerifyRole("viewer"))
			}
		}()
	}
	wg.Wait()
}
