package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferndale/console-edge/internal/adapters/rest"
	"github.com/ferndale/console-edge/internal/adapters/rest/middleware"
	authzapp "github.com/ferndale/console-edge/internal/authz/application"
	authz "github.com/ferndale/console-edge/internal/authz/domain"
	"github.com/ferndale/console-edge/internal/authz/ports"
	navapp "github.com/ferndale/console-edge/internal/navigation/application"
	notifapp "github.com/ferndale/console-edge/internal/notifications/application"
	notifdomain "github.com/ferndale/console-edge/internal/notifications/domain"
	"github.com/ferndale/console-edge/internal/platform/eventbus"
	"github.com/ferndale/console-edge/internal/platform/logger"
	sessionapp "github.com/ferndale/console-edge/internal/session/application"
)

// fixtureUpstream serves a small editor-shaped world.
type fixtureUpstream struct {
	role string
}

func (f fixtureUpstream) FetchCurrentUser(ctx context.Context) (*authz.User, error) {
	return &authz.User{ID: "u1", Email: "e@example.com", Role: authz.RoleRef{Slug: f.role}}, nil
}

func (f fixtureUpstream) FetchPermissions(ctx context.Context) (*authz.PermissionSet, error) {
	return &authz.PermissionSet{Items: []authz.Permission{
		{Role: authz.RoleRef{Slug: f.role}, Resource: "pages", Actions: []authz.Action{authz.ActionRead, authz.ActionUpdate}},
	}}, nil
}

func (f fixtureUpstream) FetchResources(ctx context.Context) ([]authz.Resource, error) {
	return []authz.Resource{
		{ID: "r-pages", Slug: "pages", Name: "Pages", Path: "/pages", Order: 1},
	}, nil
}

func (f fixtureUpstream) FetchMenuResources(ctx context.Context) ([]authz.Resource, error) {
	return f.FetchResources(ctx)
}

func (f fixtureUpstream) FetchRoles(ctx context.Context) ([]authz.Role, error) {
	return []authz.Role{{ID: "r1", Slug: f.role, Name: "Editor", Level: 10, Color: "#336699"}}, nil
}

func (f fixtureUpstream) CheckPermission(ctx context.Context, resource string, action authz.Action) (bool, error) {
	return false, nil
}

type memStore struct{ data map[string][]byte }

func (s *memStore) Load(ctx context.Context, userID string, c ports.Collection, v any) (bool, error) {
	raw, ok := s.data[userID+string(c)]
	if !ok {
		return false, nil
	}
	return json.Unmarshal(raw, v) == nil, nil
}

func (s *memStore) Save(ctx context.Context, userID string, c ports.Collection, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if s.data == nil {
		s.data = map[string][]byte{}
	}
	s.data[userID+string(c)] = raw
	return nil
}

func (s *memStore) Delete(ctx context.Context, userID string, collections ...ports.Collection) error {
	for _, c := range collections {
		delete(s.data, userID+string(c))
	}
	return nil
}

func (s *memStore) SaveScrollOffset(ctx context.Context, sessionID string, offset int) error {
	return nil
}

func (s *memStore) LoadScrollOffset(ctx context.Context, sessionID string) (int, bool, error) {
	return 0, false, nil
}

type testEnv struct {
	sessions *sessionapp.Manager
	menus    *navapp.Service
	poller   *notifapp.Poller
	base     *rest.BaseHandler
}

func newTestEnv(t *testing.T, role string) *testEnv {
	t.Helper()
	log := logger.NewSlogAdapter("test", "error")
	bus := eventbus.NewBus(log)
	store := &memStore{}
	factory := authzapp.NewCacheFactory(fixtureUpstream{role: role}, store, log)
	sessions := sessionapp.NewManager(factory, bus, log)
	menus, err := navapp.NewService(store, log)
	require.NoError(t, err)
	poller := notifapp.NewPoller(sessions, notifSource{}, bus, log)
	return &testEnv{
		sessions: sessions,
		menus:    menus,
		poller:   poller,
		base:     rest.NewBaseHandler(log),
	}
}

type notifSource struct{}

func (notifSource) FetchNotifications(ctx context.Context) ([]notifdomain.Notification, error) {
	return []notifdomain.Notification{{ID: "n1", Title: "Review requested"}}, nil
}

// serve runs the handler behind the session middleware with an
// authenticated JWT identity, the way the router composes them.
func (e *testEnv) serve(t *testing.T, handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	log := logger.NewSlogAdapter("test", "error")
	sessionMw := middleware.NewSessionMiddleware(e.sessions, log)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer test-token")
	ctx := context.WithValue(req.Context(), middleware.JWTUserIDContextKey, "u1")
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	sessionMw.Middleware(handler).ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Success, "expected success envelope, got message %q", env.Message)
	return env.Data
}

func TestAuthzSnapshot(t *testing.T) {
	env := newTestEnv(t, "editor")
	handler := rest.NewAuthzHandler(env.base, env.sessions)

	rec := env.serve(t, handler.GetSnapshot, http.MethodGet, "/api/authz/snapshot", "")

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)
	assert.Equal(t, "ready", data["state"])
	role := data["role"].(map[string]any)
	assert.Equal(t, "editor", role["slug"])
	assert.Equal(t, "Editor", role["name"])
	assert.Equal(t, "#336699", role["color"])
}

func TestAuthzCheckPermission(t *testing.T) {
	env := newTestEnv(t, "editor")
	handler := rest.NewAuthzHandler(env.base, env.sessions)

	rec := env.serve(t, handler.CheckPermission, http.MethodPost, "/api/authz/check",
		`{"resource": "pages", "action": "update"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeEnvelope(t, rec)["allowed"])

	rec = env.serve(t, handler.CheckPermission, http.MethodPost, "/api/authz/check",
		`{"resource": "pages", "action": "delete"}`)
	assert.Equal(t, false, decodeEnvelope(t, rec)["allowed"])

	rec = env.serve(t, handler.CheckPermission, http.MethodPost, "/api/authz/check",
		`{"resource": "pages", "action": "fly"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthzLogoutEndsSession(t *testing.T) {
	env := newTestEnv(t, "editor")
	handler := rest.NewAuthzHandler(env.base, env.sessions)

	rec := env.serve(t, handler.Logout, http.MethodPost, "/api/authz/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)

	_, ok := env.sessions.Get("u1")
	assert.False(t, ok)
}

func TestMenuEndpoint(t *testing.T) {
	env := newTestEnv(t, "editor")
	handler := rest.NewMenuHandler(env.base, env.menus)

	rec := env.serve(t, handler.GetMenu, http.MethodGet, "/api/menu?route=/pages", "")

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)
	items := data["items"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, "Dashboard", first["name"])
}

func TestWorkflowDecision(t *testing.T) {
	env := newTestEnv(t, "editor")
	handler := rest.NewWorkflowHandler(env.base)

	// Editor with update permission may edit a draft page.
	rec := env.serve(t, handler.Decide, http.MethodPost, "/api/workflow/decision",
		`{"status": "draft", "resourceType": "page", "action": "edit"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeEnvelope(t, rec)["allowed"])

	// Restricted status requires the reviewer set; editor is denied with
	// a reason.
	rec = env.serve(t, handler.Decide, http.MethodPost, "/api/workflow/decision",
		`{"status": "in_review", "resourceType": "page", "action": "edit"}`)
	data := decodeEnvelope(t, rec)
	assert.Equal(t, false, data["allowed"])
	assert.NotEmpty(t, data["reason"])
}

func TestNotificationsEndpointPollsOnDemand(t *testing.T) {
	env := newTestEnv(t, "editor")
	handler := rest.NewNotificationsHandler(env.base, env.poller)

	rec := env.serve(t, handler.GetNotifications, http.MethodGet, "/api/notifications", "")

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)
	items := data["notifications"].([]any)
	require.Len(t, items, 1)
}
