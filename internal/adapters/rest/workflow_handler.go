package rest

import (
	"net/http"

	"github.com/ferndale/console-edge/internal/adapters/rest/middleware"
	workflow "github.com/ferndale/console-edge/internal/workflow/domain"
)

// WorkflowHandler answers "may the caller do this to a document in this
// status" so the console can disable controls before the backend would
// reject them. The backend re-validates every action regardless.
type WorkflowHandler struct {
	*BaseHandler
}

func NewWorkflowHandler(base *BaseHandler) *WorkflowHandler {
	return &WorkflowHandler{BaseHandler: base}
}

type decisionRequest struct {
	Status       string `json:"status"`
	ResourceType string `json:"resourceType"`
	Action       string `json:"action"`
	CreatedBy    string `json:"createdBy,omitempty"`
}

type decisionResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Decide evaluates one gate request against the caller's cached identity
// and permissions.
func (h *WorkflowHandler) Decide(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, r, "no active session", http.StatusUnauthorized)
		return
	}

	var req decisionRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	status := workflow.Status(req.Status)
	resourceType := workflow.ResourceType(req.ResourceType)
	action := workflow.GateAction(req.Action)
	switch {
	case !status.IsValid():
		h.WriteError(w, r, "invalid status: "+req.Status, http.StatusBadRequest)
		return
	case !resourceType.IsValid():
		h.WriteError(w, r, "invalid resourceType: "+req.ResourceType, http.StatusBadRequest)
		return
	case !action.IsValid():
		h.WriteError(w, r, "invalid action: "+req.Action, http.StatusBadRequest)
		return
	}

	cache := session.Cache
	userID := ""
	if user := cache.CurrentUser(); user != nil {
		userID = user.ID
	}

	decision := workflow.Evaluate(workflow.Request{
		Status:       status,
		ResourceType: resourceType,
		Action:       action,
		CreatedBy:    req.CreatedBy,
		UserID:       userID,
		RoleSlug:     cache.RoleSlug(),
	}, cache)

	h.WriteData(w, r, decisionResponse{
		Allowed: decision.Allowed,
		Reason:  decision.Reason,
	}, http.StatusOK)
}
