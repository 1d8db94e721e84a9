package rest

import (
	"net/http"

	"github.com/ferndale/console-edge/internal/adapters/rest/middleware"
	notifapp "github.com/ferndale/console-edge/internal/notifications/application"
)

// NotificationsHandler serves the last polled notification snapshot.
type NotificationsHandler struct {
	*BaseHandler
	poller *notifapp.Poller
}

func NewNotificationsHandler(base *BaseHandler, poller *notifapp.Poller) *NotificationsHandler {
	return &NotificationsHandler{
		BaseHandler: base,
		poller:      poller,
	}
}

// GetNotifications returns the caller's snapshot, polling once on demand
// when the scheduler has not visited the session yet.
func (h *NotificationsHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, r, "no active session", http.StatusUnauthorized)
		return
	}

	snap, found := h.poller.Snapshot(session.UserID)
	if !found {
		h.poller.Poll(r.Context(), session)
		snap, _ = h.poller.Snapshot(session.UserID)
	}
	h.WriteData(w, r, snap, http.StatusOK)
}
