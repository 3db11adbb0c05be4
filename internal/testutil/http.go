package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sprinthub/sprinthub/internal/app/system/auth"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Calls chain: an existing route context is reused so multiple params
// accumulate.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// TestUser represents session user data for handler tests.
type TestUser struct {
	ID   string
	Name string
	Role string
}

// AdminUser returns a TestUser with the admin system role.
func AdminUser() TestUser {
	return TestUser{ID: uuid.NewString(), Name: "Test Admin", Role: "admin"}
}

// DeveloperUser returns a TestUser with the team_developer system role.
func DeveloperUser() TestUser {
	return TestUser{ID: uuid.NewString(), Name: "Test Developer", Role: "team_developer"}
}

// WithUser injects a user into the request context, bypassing the
// session middleware.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:   user.ID,
		Name: user.Name,
		Role: user.Role,
	})
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}
