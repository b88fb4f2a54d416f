package authz

import (
	"context"
	"log/slog"
)

type principalContextKey struct{}

type resultContextKey struct{}

// WithPrincipal stores the authenticated principal ID in the context.
func WithPrincipal(ctx context.Context, principalID string) context.Context {
	return context.WithValue(ctx, principalContextKey{}, principalID)
}

// PrincipalFromContext returns the principal ID set by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(principalContextKey{}).(string)
	return id, ok && id != ""
}

// ResultFromContext returns the result stored by Require.
func ResultFromContext(ctx context.Context) (Result, bool) {
	res, ok := ctx.Value(resultContextKey{}).(Result)
	return res, ok
}

func withResult(ctx context.Context, res Result) context.Context {
	return context.WithValue(ctx, resultContextKey{}, res)
}

// LoggerExtractor returns a logger context extractor for the principal ID.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := PrincipalFromContext(ctx); ok {
			return slog.String("principal_id", id), true
		}
		return slog.Attr{}, false
	}
}
