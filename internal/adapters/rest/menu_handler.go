package rest

import (
	"net/http"

	"github.com/ferndale/console-edge/internal/adapters/rest/middleware"
	navdomain "github.com/ferndale/console-edge/internal/navigation/domain"

	navapp "github.com/ferndale/console-edge/internal/navigation/application"
)

// MenuHandler serves the console sidebar: the permission-filtered tree,
// expand-state toggling, and the persisted scroll offset.
type MenuHandler struct {
	*BaseHandler
	menus *navapp.Service
}

func NewMenuHandler(base *BaseHandler, menus *navapp.Service) *MenuHandler {
	return &MenuHandler{
		BaseHandler: base,
		menus:       menus,
	}
}

// GetMenu builds the caller's navigation tree. Query parameters: "search"
// prunes the tree, "route" drives ancestor expansion for the active page.
func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, r, "no active session", http.StatusUnauthorized)
		return
	}

	menu := h.menus.Menu(
		r.Context(),
		session.UserID,
		session.Cache,
		r.URL.Query().Get("search"),
		r.URL.Query().Get("route"),
	)
	h.WriteData(w, r, menu, http.StatusOK)
}

type toggleRequest struct {
	Expanded []string `json:"expanded"`
	Key      string   `json:"key"`
}

// ToggleExpand flips one node in the client's expand-set and returns the
// updated set. The set itself lives with the client; route changes
// recompute it through GetMenu.
func (h *MenuHandler) ToggleExpand(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	if req.Key == "" {
		h.WriteError(w, r, "key is required", http.StatusBadRequest)
		return
	}

	state := make(navdomain.ExpandState, len(req.Expanded))
	for _, key := range req.Expanded {
		state[key] = struct{}{}
	}
	state.Toggle(req.Key)

	h.WriteData(w, r, map[string][]string{"expanded": state.Keys()}, http.StatusOK)
}

type scrollRequest struct {
	Offset int `json:"offset"`
}

// SaveScroll persists the sidebar scroll offset for the session.
func (h *MenuHandler) SaveScroll(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, r, "no active session", http.StatusUnauthorized)
		return
	}

	var req scrollRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	h.menus.SaveScroll(r.Context(), session.ID, req.Offset)
	h.WriteData(w, r, nil, http.StatusOK)
}

// GetScroll restores the last persisted offset, zero when absent.
func (h *MenuHandler) GetScroll(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, r, "no active session", http.StatusUnauthorized)
		return
	}

	offset := h.menus.LoadScroll(r.Context(), session.ID)
	h.WriteData(w, r, scrollRequest{Offset: offset}, http.StatusOK)
}
