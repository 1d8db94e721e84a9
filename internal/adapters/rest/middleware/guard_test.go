package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferndale/console-edge/internal/adapters/rest/middleware"
	authzapp "github.com/ferndale/console-edge/internal/authz/application"
	authz "github.com/ferndale/console-edge/internal/authz/domain"
	"github.com/ferndale/console-edge/internal/authz/ports"
	"github.com/ferndale/console-edge/internal/platform/eventbus"
	"github.com/ferndale/console-edge/internal/platform/logger"
	sessionapp "github.com/ferndale/console-edge/internal/session/application"
)

type guardUpstream struct {
	role      string
	perms     []authz.Permission
	resources []authz.Resource
}

func (g guardUpstream) FetchCurrentUser(ctx context.Context) (*authz.User, error) {
	return &authz.User{ID: "u1", Role: authz.RoleRef{Slug: g.role}}, nil
}

func (g guardUpstream) FetchPermissions(ctx context.Context) (*authz.PermissionSet, error) {
	return &authz.PermissionSet{Items: g.perms}, nil
}

func (g guardUpstream) FetchResources(ctx context.Context) ([]authz.Resource, error) {
	return g.resources, nil
}

func (g guardUpstream) FetchMenuResources(ctx context.Context) ([]authz.Resource, error) {
	return g.resources, nil
}

func (g guardUpstream) FetchRoles(ctx context.Context) ([]authz.Role, error) {
	return nil, nil
}

func (g guardUpstream) CheckPermission(ctx context.Context, resource string, action authz.Action) (bool, error) {
	return false, nil
}

type nullStore struct{}

func (nullStore) Load(ctx context.Context, userID string, c ports.Collection, v any) (bool, error) {
	return false, nil
}

func (nullStore) Save(ctx context.Context, userID string, c ports.Collection, v any) error {
	return nil
}

func (nullStore) Delete(ctx context.Context, userID string, collections ...ports.Collection) error {
	return nil
}

var guardConfig = middleware.GuardConfig{
	LoginPath:   "/login",
	LandingPath: "/dashboard",
}

func guardedRequest(t *testing.T, up guardUpstream, wrap func(http.Handler) http.Handler, authenticated bool) *httptest.ResponseRecorder {
	t.Helper()
	log := logger.NewSlogAdapter("test", "error")
	bus := eventbus.NewBus(log)
	factory := authzapp.NewCacheFactory(up, nullStore{}, log)
	sessions := sessionapp.NewManager(factory, bus, log)
	sessionMw := middleware.NewSessionMiddleware(sessions, log)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("protected"))
	})

	req := httptest.NewRequest(http.MethodGet, "/pages", nil)
	if authenticated {
		req.Header.Set("Authorization", "Bearer tok")
		req = req.WithContext(context.WithValue(req.Context(), middleware.JWTUserIDContextKey, "u1"))
	}
	rec := httptest.NewRecorder()
	sessionMw.Middleware(wrap(next)).ServeHTTP(rec, req)
	return rec
}

func TestGuardUnauthenticatedRedirectsToLogin(t *testing.T) {
	guard := middleware.NewGuard(guardConfig, logger.NewSlogAdapter("test", "error"))

	rec := guardedRequest(t, guardUpstream{}, guard.RequirePermission("pages", authz.ActionRead), false)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestGuardPermissionAllows(t *testing.T) {
	guard := middleware.NewGuard(guardConfig, logger.NewSlogAdapter("test", "error"))
	up := guardUpstream{role: "editor", perms: []authz.Permission{
		{Role: authz.RoleRef{Slug: "editor"}, Resource: "pages", Actions: []authz.Action{authz.ActionRead}},
	}}

	rec := guardedRequest(t, up, guard.RequirePermission("pages", authz.ActionRead), true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "protected", rec.Body.String())
}

func TestGuardPermissionDeniedRedirectsToLanding(t *testing.T) {
	guard := middleware.NewGuard(guardConfig, logger.NewSlogAdapter("test", "error"))
	up := guardUpstream{role: "editor"}

	rec := guardedRequest(t, up, guard.RequirePermission("pages", authz.ActionRead), true)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestGuardRoleMismatchRedirectsToLanding(t *testing.T) {
	guard := middleware.NewGuard(guardConfig, logger.NewSlogAdapter("test", "error"))
	up := guardUpstream{role: "editor"}

	rec := guardedRequest(t, up, guard.RequireAnyRole("admin", "super_admin"), true)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestGuardSuperAdminPassesEverything(t *testing.T) {
	guard := middleware.NewGuard(guardConfig, logger.NewSlogAdapter("test", "error"))
	up := guardUpstream{role: "super_admin"}

	rec := guardedRequest(t, up, guard.RequirePermission("anything", authz.ActionDelete), true)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = guardedRequest(t, up, guard.RequireSuperAdmin(), true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardLoadingStateAnswersAccepted(t *testing.T) {
	log := logger.NewSlogAdapter("test", "error")
	guard := middleware.NewGuard(guardConfig, log)

	// Handler invoked with a session whose cache never hydrated: the
	// guard must answer with the retryable loading payload, not a
	// premature redirect.
	factory := authzapp.NewCacheFactory(guardUpstream{}, nullStore{}, log)
	session := &sessionapp.Session{UserID: "u1", Cache: factory.ForUser("u1")}

	req := httptest.NewRequest(http.MethodGet, "/pages", nil)
	req = req.WithContext(middleware.WithSession(req.Context(), session))
	rec := httptest.NewRecorder()
	guard.RequirePermission("pages", authz.ActionRead)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run while loading")
	})).ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "loading", payload["status"])
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}
