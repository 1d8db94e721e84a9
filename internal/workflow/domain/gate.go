package domain

import (
	"fmt"
	"strings"

	authz "github.com/ferndale/console-edge/internal/authz/domain"
)

// PermissionChecker is the slice of the authorization cache the gate needs:
// a synchronous, cache-only permission lookup.
type PermissionChecker interface {
	HasPermission(resource string, action authz.Action) bool
}

// Request carries everything the gate needs to decide one action on one
// document. The gate is a pure function of this input; it never transitions
// the workflow status itself, and the backend re-validates every action
// regardless of what the gate decided.
type Request struct {
	Status       Status       `json:"status"`
	ResourceType ResourceType `json:"resourceType"`
	Action       GateAction   `json:"action"`
	CreatedBy    string       `json:"createdBy,omitempty"`
	UserID       string       `json:"-"`
	RoleSlug     string       `json:"-"`
}

// Decision is the gate's verdict plus a human-readable denial reason. The
// UI renders the reason and disables the wrapped controls; the gate itself
// does not render anything.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Role sets for restricted statuses. in_review and pending_approval accept
// the reviewer set; pending_publish tightens to approvers for edits.
var (
	reviewRoles  = []string{authz.RoleReviewer, authz.RoleApprover, authz.RoleAdmin, authz.RoleSuperAdmin}
	publishRoles = []string{authz.RoleApprover, authz.RoleAdmin, authz.RoleSuperAdmin}
)

func roleIn(slug string, set []string) bool {
	for _, s := range set {
		if strings.EqualFold(slug, s) {
			return true
		}
	}
	return false
}

// Evaluate decides whether the acting user may perform the requested
// action on a document in the given workflow status. Rules are evaluated
// in precedence order; the first applicable branch decides.
func Evaluate(req Request, perms PermissionChecker) Decision {
	// Admin bypass: admins and super admins skip every other rule.
	if roleIn(req.RoleSlug, []string{authz.RoleAdmin, authz.RoleSuperAdmin}) {
		return Decision{Allowed: true}
	}

	subject := req.ResourceType.PermissionSubject()
	isCreator := req.UserID != "" && req.UserID == req.CreatedBy

	switch req.Action {
	case GateEdit:
		if allowEdit(req, subject, isCreator, perms) {
			return Decision{Allowed: true}
		}
	case GateDelete:
		if allowDelete(req, subject, isCreator, perms) {
			return Decision{Allowed: true}
		}
	case GateCreateSection:
		if allowCreateSection(req, isCreator, perms) {
			return Decision{Allowed: true}
		}
	case GateModifyTree:
		if allowModifyTree(req, subject, isCreator, perms) {
			return Decision{Allowed: true}
		}
	}

	return Decision{Allowed: false, Reason: denialReason(req.Action, req.ResourceType, req.Status)}
}

func allowEdit(req Request, subject string, isCreator bool, perms PermissionChecker) bool {
	hasUpdate := perms.HasPermission(subject, authz.ActionUpdate)

	switch {
	case req.Status.Editable():
		// Creator override applies only here, never to restricted statuses.
		return hasUpdate || isCreator
	case req.Status.Restricted():
		if !hasUpdate {
			return false
		}
		if req.Status == StatusPendingPublish {
			return roleIn(req.RoleSlug, publishRoles)
		}
		return roleIn(req.RoleSlug, reviewRoles)
	case req.Status == StatusPublished, req.Status == StatusArchived:
		return hasUpdate
	default:
		return false
	}
}

func allowDelete(req Request, subject string, isCreator bool, perms PermissionChecker) bool {
	if perms.HasPermission(subject, authz.ActionDelete) {
		return true
	}
	// A creator without the permission may delete outside the review
	// pipeline: restricted statuses are excluded from the override.
	if !isCreator {
		return false
	}
	switch req.Status {
	case StatusDraft, StatusChangesRequested, StatusPublished, StatusArchived:
		return true
	default:
		return false
	}
}

func allowCreateSection(req Request, isCreator bool, perms PermissionChecker) bool {
	// Creating sections is always checked against the sections catalog
	// entry, whatever document the request came in on.
	subject := ResourceSection.PermissionSubject()

	// Creator override mirrors the edit rule: editable statuses only.
	if isCreator && req.Status.Editable() {
		return true
	}

	if !perms.HasPermission(subject, authz.ActionCreate) {
		return false
	}
	if req.Status.Editable() {
		return true
	}
	if req.Status.Restricted() {
		return roleIn(req.RoleSlug, reviewRoles)
	}
	return false
}

func allowModifyTree(req Request, subject string, isCreator bool, perms PermissionChecker) bool {
	hasUpdate := perms.HasPermission(subject, authz.ActionUpdate)

	switch {
	case req.Status == StatusDraft:
		return hasUpdate || isCreator
	case req.Status.Restricted():
		// Only the reviewer set is checked here; pending_publish does not
		// tighten to approvers the way edit does.
		return hasUpdate && roleIn(req.RoleSlug, reviewRoles)
	default:
		return false
	}
}

func denialReason(action GateAction, rt ResourceType, status Status) string {
	name := string(rt)
	if name == "" {
		name = "document"
	}

	switch {
	case status.Restricted():
		return fmt.Sprintf("This %s is pending review or approval and cannot be modified right now.", name)
	case status == StatusPublished:
		return fmt.Sprintf("This %s is published. You do not have permission to modify it.", name)
	case status == StatusArchived:
		return fmt.Sprintf("This %s is archived. You do not have permission to modify it.", name)
	default:
		return fmt.Sprintf("You are not allowed to %s this %s while it is %s.", actionVerb(action), name, status)
	}
}

func actionVerb(action GateAction) string {
	switch action {
	case GateDelete:
		return "delete"
	case GateCreateSection:
		return "create sections in"
	case GateModifyTree:
		return "reorder"
	default:
		return "edit"
	}
}
