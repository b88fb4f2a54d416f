package authz

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/gatekeeper/pkg/rbac"
	"github.com/dmitrymomot/gatekeeper/pkg/tenant"
)

// AuthorizedHandlerFunc is a handler that receives the authorization result
// explicitly. It is only called for allowed requests.
type AuthorizedHandlerFunc func(w http.ResponseWriter, r *http.Request, res Result)

// ErrorHandler writes the response for denied or indeterminate requests.
// err is nil for a plain denial.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, status int, res Result, err error)

type guardConfig struct {
	tenantID      func(r *http.Request) (string, bool)
	principalID   func(r *http.Request) (string, bool)
	resourceID    func(r *http.Request) string
	invalidStatus int
	retryAfter    int
	errorHandler  ErrorHandler
}

// GuardOption configures Require and Guard.
type GuardOption func(*guardConfig)

// ResourceFromURLParam reads the resource ID from a chi URL parameter.
func ResourceFromURLParam(name string) GuardOption {
	return WithResourceID(func(r *http.Request) string {
		return chi.URLParam(r, name)
	})
}

// WithResourceID sets how the resource ID is taken from the request.
// Without it the check runs at collection scope.
func WithResourceID(fn func(r *http.Request) string) GuardOption {
	return func(c *guardConfig) {
		c.resourceID = fn
	}
}

// WithTenantFunc overrides how the tenant ID is found. The default reads the
// tenant stored by tenant.Middleware.
func WithTenantFunc(fn func(r *http.Request) (string, bool)) GuardOption {
	return func(c *guardConfig) {
		c.tenantID = fn
	}
}

// WithPrincipalFunc overrides how the principal ID is found. The default is
// PrincipalFromContext.
func WithPrincipalFunc(fn func(r *http.Request) (string, bool)) GuardOption {
	return func(c *guardConfig) {
		c.principalID = fn
	}
}

// WithInvalidInputStatus sets the status for malformed identifiers.
// Defaults to 403; 400 is the other sensible choice.
func WithInvalidInputStatus(status int) GuardOption {
	return func(c *guardConfig) {
		c.invalidStatus = status
	}
}

// WithRetryAfter sets the Retry-After seconds sent with 503 responses.
func WithRetryAfter(seconds int) GuardOption {
	return func(c *guardConfig) {
		c.retryAfter = seconds
	}
}

// WithGuardErrorHandler replaces the plain-text error responses.
func WithGuardErrorHandler(h ErrorHandler) GuardOption {
	return func(c *guardConfig) {
		c.errorHandler = h
	}
}

func newGuardConfig(opts []GuardOption) *guardConfig {
	c := &guardConfig{
		tenantID: func(r *http.Request) (string, bool) {
			id, ok := tenant.IDFromContext(r.Context())
			if !ok {
				return "", false
			}
			return id.String(), true
		},
		principalID: func(r *http.Request) (string, bool) {
			return PrincipalFromContext(r.Context())
		},
		resourceID:    func(*http.Request) string { return "" },
		invalidStatus: http.StatusForbidden,
		retryAfter:    1,
		errorHandler:  defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Require returns middleware that lets the request through only when the
// principal may perform action on resourceType. The result is available to
// downstream handlers through ResultFromContext, and the effective role
// through rbac.GetRoleFromContext.
func (e *Engine) Require(resourceType, action string, opts ...GuardOption) func(http.Handler) http.Handler {
	cfg := newGuardConfig(opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, ok := e.check(w, r, cfg, resourceType, action)
			if !ok {
				return
			}
			ctx := withResult(r.Context(), res)
			if res.Role != "" {
				ctx = rbac.SetRoleToContext(ctx, res.Role)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Guard wraps an AuthorizedHandlerFunc so the authorization call site stays
// visible in the handler signature.
func (e *Engine) Guard(resourceType, action string, h AuthorizedHandlerFunc, opts ...GuardOption) http.HandlerFunc {
	cfg := newGuardConfig(opts)
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := e.check(w, r, cfg, resourceType, action)
		if !ok {
			return
		}
		h(w, r, res)
	}
}

func (e *Engine) check(w http.ResponseWriter, r *http.Request, cfg *guardConfig, resourceType, action string) (Result, bool) {
	tenantID, _ := cfg.tenantID(r)
	principalID, _ := cfg.principalID(r)

	res, err := e.Evaluate(r.Context(), Request{
		TenantID:     tenantID,
		PrincipalID:  principalID,
		ResourceType: resourceType,
		ResourceID:   cfg.resourceID(r),
		Action:       action,
	})

	switch {
	case errors.Is(err, ErrIndeterminate):
		w.Header().Set("Retry-After", strconv.Itoa(cfg.retryAfter))
		cfg.errorHandler(w, r, http.StatusServiceUnavailable, res, err)
		return res, false
	case err != nil:
		cfg.errorHandler(w, r, http.StatusInternalServerError, res, err)
		return res, false
	case res.Reason == ReasonInvalidInput:
		cfg.errorHandler(w, r, cfg.invalidStatus, res, nil)
		return res, false
	case !res.Allowed():
		cfg.errorHandler(w, r, http.StatusForbidden, res, nil)
		return res, false
	}
	return res, true
}

func defaultErrorHandler(w http.ResponseWriter, _ *http.Request, status int, _ Result, _ error) {
	http.Error(w, http.StatusText(status), status)
}
