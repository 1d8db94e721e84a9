package middleware

import (
	"context"
	"net/http"
	"time"

	authzapp "github.com/ferndale/console-edge/internal/authz/application"
	navapp "github.com/ferndale/console-edge/internal/navigation/application"
	"github.com/ferndale/console-edge/internal/platform/logger"
)

// catalogWait bounds how long the redirect handler waits for the resource
// catalog after authentication before giving up and using the fallback.
const catalogWait = 2 * time.Second

// ChildRedirect resolves navigation onto a parent resource that has
// children but no page of its own: the caller is sent to the
// lowest-order child's path, or to the landing page when no child path
// resolves. The catalog may still be loading right after login, so the
// handler waits briefly for it before evaluating.
type ChildRedirect struct {
	menus       *navapp.Service
	landingPath string
	logger      logger.Logger
}

func NewChildRedirect(menus *navapp.Service, config GuardConfig, logger logger.Logger) *ChildRedirect {
	return &ChildRedirect{
		menus:       menus,
		landingPath: config.LandingPath,
		logger:      logger,
	}
}

func (h *ChildRedirect) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, h.landingPath, http.StatusFound)
		return
	}

	waitForCatalog(r.Context(), session.Cache)

	parentPath := r.URL.Query().Get("path")
	if parentPath == "" {
		parentPath = r.URL.Path
	}

	target, found := h.menus.ResolveChildPath(r.Context(), session.UserID, session.Cache, parentPath)
	if !found {
		h.logger.Debug(r.Context(), "no child path resolved, using landing",
			"user_id", session.UserID,
			"parent_path", parentPath,
		)
		target = h.landingPath
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// waitForCatalog polls until the refresh settles or the wait expires.
// Hydrated-but-refreshing state is enough to answer from.
func waitForCatalog(ctx context.Context, cache *authzapp.Cache) {
	deadline := time.Now().Add(catalogWait)
	for time.Now().Before(deadline) {
		state := cache.State()
		if state == authzapp.StateReady || state == authzapp.StateStale {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(50 * time.Millisecond):
		}
	}
}
