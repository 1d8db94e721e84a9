package rest

import (
	"net/http"

	"github.com/ferndale/console-edge/internal/adapters/rest/middleware"
	authz "github.com/ferndale/console-edge/internal/authz/domain"
	"github.com/ferndale/console-edge/internal/authz/ports"
	sessionapp "github.com/ferndale/console-edge/internal/session/application"
)

// AuthzHandler serves the console's view of its own authorization state.
type AuthzHandler struct {
	*BaseHandler
	sessions *sessionapp.Manager
}

func NewAuthzHandler(base *BaseHandler, sessions *sessionapp.Manager) *AuthzHandler {
	return &AuthzHandler{
		BaseHandler: base,
		sessions:    sessions,
	}
}

// snapshotResponse is the console's bootstrap view of its authorization state.
type snapshotResponse struct {
	State             string             `json:"state"`
	User              *authz.User        `json:"user,omitempty"`
	Role              *roleView          `json:"role,omitempty"`
	HasAllPermissions bool               `json:"hasAllPermissions"`
	Permissions       []authz.Permission `json:"permissions"`
	Roles             []authz.Role       `json:"roles"`
}

type roleView struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Level int    `json:"level,omitempty"`
	Color string `json:"color,omitempty"`
}

// GetSnapshot returns the cached authorization state for the caller.
func (h *AuthzHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, r, "no active session", http.StatusUnauthorized)
		return
	}
	cache := session.Cache

	snap := snapshotResponse{
		State:             cache.State().String(),
		User:              cache.CurrentUser(),
		HasAllPermissions: cache.HasAllPermissions(),
		Permissions:       cache.Permissions(),
		Roles:             cache.Roles(),
	}
	if slug := cache.RoleSlug(); slug != "" {
		view := roleView{Slug: slug, Name: cache.GetRoleName(slug)}
		if role := cache.GetRole(slug); role != nil {
			view.Level = role.Level
			view.Color = role.Color
		}
		snap.Role = &view
	}

	h.WriteData(w, r, snap, http.StatusOK)
}

type checkRequest struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
	// Server forces the authoritative backend evaluation instead of the
	// cached one.
	Server bool `json:"server,omitempty"`
}

type checkResponse struct {
	Allowed bool `json:"allowed"`
}

// CheckPermission answers one (resource, action) question from the cache,
// or from the backend when the caller asks for the authoritative answer.
func (h *AuthzHandler) CheckPermission(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, r, "no active session", http.StatusUnauthorized)
		return
	}

	var req checkRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	action := authz.Action(req.Action)
	if req.Resource == "" || !action.IsValid() {
		h.WriteError(w, r, "resource and a valid action are required", http.StatusBadRequest)
		return
	}

	var allowed bool
	if req.Server {
		allowed = session.Cache.CheckPermissionServer(r.Context(), req.Resource, action)
	} else {
		allowed = session.Cache.HasPermission(req.Resource, action)
	}
	h.WriteData(w, r, checkResponse{Allowed: allowed}, http.StatusOK)
}

type refreshRequest struct {
	// Collections limits the refresh; empty refreshes everything.
	Collections []string `json:"collections,omitempty"`
}

// Refresh re-fetches cached collections from the backend on demand.
func (h *AuthzHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, r, "no active session", http.StatusUnauthorized)
		return
	}

	var req refreshRequest
	if r.ContentLength > 0 && !h.DecodeJSON(w, r, &req) {
		return
	}

	cache := session.Cache
	if len(req.Collections) == 0 {
		cache.Refresh(r.Context())
	} else {
		for _, name := range req.Collections {
			switch ports.Collection(name) {
			case ports.CollectionUser:
				_ = cache.RefreshUser(r.Context())
			case ports.CollectionPermissions:
				_ = cache.RefreshPermissions(r.Context())
			case ports.CollectionResources, ports.CollectionMenu:
				_ = cache.RefreshResources(r.Context())
			case ports.CollectionRoles:
				_ = cache.RefreshRoles(r.Context())
			default:
				h.WriteError(w, r, "unknown collection: "+name, http.StatusBadRequest)
				return
			}
		}
	}

	h.WriteData(w, r, map[string]string{"state": cache.State().String()}, http.StatusOK)
}

// Logout tears the caller's session down and clears persisted state.
func (h *AuthzHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, r, "no active session", http.StatusUnauthorized)
		return
	}

	h.sessions.End(r.Context(), session.UserID)
	h.WriteData(w, r, nil, http.StatusOK)
}
