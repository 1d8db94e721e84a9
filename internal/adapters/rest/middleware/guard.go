package middleware

import (
	"net/http"

	authz "github.com/ferndale/console-edge/internal/authz/domain"
	"github.com/ferndale/console-edge/internal/platform/logger"
	sessionapp "github.com/ferndale/console-edge/internal/session/application"
)

// GuardConfig carries the redirect targets for denied navigation.
type GuardConfig struct {
	// LoginPath receives unauthenticated requests.
	LoginPath string
	// LandingPath receives authenticated requests that fail a role or
	// permission requirement.
	LandingPath string
}

// Guard protects whole-page navigation. Denials are control flow, not
// errors: unauthenticated callers are redirected to login, authenticated
// callers failing a requirement are redirected to the landing page, and
// requests arriving while the cache is still hydrating get a retryable
// loading response instead of a premature verdict.
type Guard struct {
	config GuardConfig
	logger logger.Logger
}

func NewGuard(config GuardConfig, logger logger.Logger) *Guard {
	return &Guard{config: config, logger: logger}
}

// RequirePermission admits the request when the viewer holds the action
// on the resource. Super admins pass unconditionally via the cache check.
func (g *Guard) RequirePermission(resource string, action authz.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, verdict := g.admit(w, r)
			if verdict != admitted {
				return
			}
			if !session.Cache.HasPermission(resource, action) {
				g.logger.Debug(r.Context(), "navigation denied by permission",
					"user_id", session.UserID,
					"resource", resource,
					"action", action,
					"path", r.URL.Path,
				)
				http.Redirect(w, r, g.config.LandingPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyRole admits the request when the viewer holds at least one of
// the role slugs.
func (g *Guard) RequireAnyRole(roles ...string) func(http.Handler) http.Handler {
	refs := make([]authz.RoleRef, len(roles))
	for i, role := range roles {
		refs[i] = authz.RoleRef{Slug: role}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, verdict := g.admit(w, r)
			if verdict != admitted {
				return
			}
			if !session.Cache.HasAnyRole(refs...) {
				g.logger.Debug(r.Context(), "navigation denied by role",
					"user_id", session.UserID,
					"required_roles", roles,
					"path", r.URL.Path,
				)
				http.Redirect(w, r, g.config.LandingPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin shields the admin-only configuration pages.
func (g *Guard) RequireSuperAdmin() func(http.Handler) http.Handler {
	return g.RequireAnyRole(authz.RoleSuperAdmin)
}

type admitVerdict int

const (
	admitted admitVerdict = iota
	rejected
)

// admit runs the checks shared by every guard: a session must exist and
// its cache must have loaded far enough to answer.
func (g *Guard) admit(w http.ResponseWriter, r *http.Request) (*sessionapp.Session, admitVerdict) {
	s, ok := SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, g.config.LoginPath, http.StatusFound)
		return nil, rejected
	}
	if !s.Cache.State().Loaded() {
		writeLoading(w)
		return nil, rejected
	}
	return s, admitted
}

// writeLoading tells the console the verdict is not available yet; the
// client shows its loading placeholder and retries.
func writeLoading(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "1")
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte(`{"status":"loading"}`))
}
