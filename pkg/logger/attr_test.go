package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekeeper/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestIdentityAttrs(t *testing.T) {
	assert.Equal(t, slog.String("tenant_id", "t1"), logger.TenantID("t1"))
	assert.Equal(t, slog.String("principal_id", "u1"), logger.PrincipalID("u1"))
	assert.Equal(t, slog.String("role", "admin"), logger.Role("admin"))
	assert.True(t, logger.Role("").Equal(slog.Attr{}))
	assert.Equal(t, slog.String("request_id", "abc"), logger.RequestID("abc"))
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
}

func TestDecisionAttrs(t *testing.T) {
	assert.Equal(t, slog.String("decision", "deny"), logger.Decision("deny"))
	assert.Equal(t, slog.String("reason", "grant_deny"), logger.Reason("grant_deny"))
	assert.Equal(t, slog.String("component", "authz"), logger.Component("authz"))
	assert.Equal(t, slog.Duration("duration", time.Second), logger.Duration(time.Second))
}

func TestResource(t *testing.T) {
	attr := logger.Resource("document", "doc_42", "delete")
	require.Equal(t, "resource", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 3)
	assert.Equal(t, "doc_42", g[1].Value.String())

	attr = logger.Resource("user", "", "list")
	assert.Len(t, attr.Value.Group(), 2)
}
