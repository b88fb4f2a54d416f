package tenant

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Resolver extracts tenant identifier from HTTP requests.
type Resolver interface {
	// Resolve extracts the tenant identifier from the request.
	// Returns empty string if no tenant identifier is found.
	Resolve(r *http.Request) (string, error)
}

// HeaderResolver extracts tenant identifier from HTTP header.
type HeaderResolver struct {
	// HeaderName is the name of the header to read (e.g., "X-Tenant-ID")
	HeaderName string
}

// NewHeaderResolver creates a new header resolver.
func NewHeaderResolver(headerName string) *HeaderResolver {
	if headerName == "" {
		headerName = "X-Tenant-ID"
	}
	return &HeaderResolver{HeaderName: headerName}
}

// Resolve extracts tenant from the configured header.
func (r *HeaderResolver) Resolve(req *http.Request) (string, error) {
	return req.Header.Get(r.HeaderName), nil
}

// URLParamResolver reads the tenant identifier from a chi route parameter,
// e.g. "tenant" for routes mounted under /tenants/{tenant}.
type URLParamResolver struct {
	Param string
}

// NewURLParamResolver creates a new route parameter resolver.
func NewURLParamResolver(param string) *URLParamResolver {
	return &URLParamResolver{Param: param}
}

// Resolve returns the route parameter value, empty when the route has none.
func (r *URLParamResolver) Resolve(req *http.Request) (string, error) {
	return chi.URLParam(req, r.Param), nil
}

// ResolverFunc is an adapter to allow the use of ordinary functions as Resolvers.
type ResolverFunc func(r *http.Request) (string, error)

// Resolve calls the function.
func (f ResolverFunc) Resolve(r *http.Request) (string, error) {
	return f(r)
}
