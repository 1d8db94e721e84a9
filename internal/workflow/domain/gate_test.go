package domain_test

import (
	"strings"
	"testing"

	authz "github.com/ferndale/console-edge/internal/authz/domain"
	"github.com/ferndale/console-edge/internal/workflow/domain"
	"github.com/stretchr/testify/assert"
)

// fakePerms grants the listed "resource:action" pairs.
type fakePerms map[string]bool

func (f fakePerms) HasPermission(resource string, action authz.Action) bool {
	return f[resource+":"+string(action)]
}

func request(status domain.Status, action domain.GateAction, role string) domain.Request {
	return domain.Request{
		Status:       status,
		ResourceType: domain.ResourcePage,
		Action:       action,
		UserID:       "user-1",
		RoleSlug:     role,
	}
}

func TestEvaluate_AdminBypass(t *testing.T) {
	for _, role := range []string{"admin", "super_admin", "Admin", "SUPER_ADMIN"} {
		for _, status := range []domain.Status{domain.StatusDraft, domain.StatusInReview, domain.StatusArchived} {
			req := request(status, domain.GateEdit, role)
			d := domain.Evaluate(req, fakePerms{})
			assert.True(t, d.Allowed, "role %s, status %s", role, status)
		}
	}
}

func TestEvaluate_Edit(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.Status
		role    string
		creator bool
		perms   fakePerms
		want    bool
	}{
		{
			name:    "draft, creator without permission",
			status:  domain.StatusDraft,
			role:    "editor",
			creator: true,
			perms:   fakePerms{},
			want:    true,
		},
		{
			name:   "draft, stranger without permission",
			status: domain.StatusDraft,
			role:   "editor",
			perms:  fakePerms{},
			want:   false,
		},
		{
			name:   "draft, update permission",
			status: domain.StatusDraft,
			role:   "editor",
			perms:  fakePerms{"pages:update": true},
			want:   true,
		},
		{
			name:   "changes_requested behaves like draft",
			status: domain.StatusChangesRequested,
			role:   "editor",
			perms:  fakePerms{"pages:update": true},
			want:   true,
		},
		{
			name:   "in_review, editor with update permission",
			status: domain.StatusInReview,
			role:   "editor",
			perms:  fakePerms{"pages:update": true},
			want:   false,
		},
		{
			name:   "in_review, reviewer with update permission",
			status: domain.StatusInReview,
			role:   "reviewer",
			perms:  fakePerms{"pages:update": true},
			want:   true,
		},
		{
			name:   "in_review, reviewer without update permission",
			status: domain.StatusInReview,
			role:   "reviewer",
			perms:  fakePerms{},
			want:   false,
		},
		{
			name:    "in_review, creator identity does not override",
			status:  domain.StatusInReview,
			role:    "editor",
			creator: true,
			perms:   fakePerms{},
			want:    false,
		},
		{
			name:   "pending_approval, reviewer with update permission",
			status: domain.StatusPendingApproval,
			role:   "reviewer",
			perms:  fakePerms{"pages:update": true},
			want:   true,
		},
		{
			name:   "pending_publish requires approver, reviewer denied",
			status: domain.StatusPendingPublish,
			role:   "reviewer",
			perms:  fakePerms{"pages:update": true},
			want:   false,
		},
		{
			name:   "pending_publish, approver with update permission",
			status: domain.StatusPendingPublish,
			role:   "approver",
			perms:  fakePerms{"pages:update": true},
			want:   true,
		},
		{
			name:   "published, plain update permission suffices",
			status: domain.StatusPublished,
			role:   "editor",
			perms:  fakePerms{"pages:update": true},
			want:   true,
		},
		{
			name:    "published, creator without permission denied",
			status:  domain.StatusPublished,
			role:    "editor",
			creator: true,
			perms:   fakePerms{},
			want:    false,
		},
		{
			name:   "archived, plain update permission suffices",
			status: domain.StatusArchived,
			role:   "editor",
			perms:  fakePerms{"pages:update": true},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request(tt.status, domain.GateEdit, tt.role)
			if tt.creator {
				req.CreatedBy = req.UserID
			}
			d := domain.Evaluate(req, tt.perms)
			assert.Equal(t, tt.want, d.Allowed)
			if !tt.want {
				assert.NotEmpty(t, d.Reason)
			}
		})
	}
}

func TestEvaluate_Delete(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.Status
		creator bool
		perms   fakePerms
		want    bool
	}{
		{
			name:   "delete permission works in any status",
			status: domain.StatusInReview,
			perms:  fakePerms{"pages:delete": true},
			want:   true,
		},
		{
			name:    "creator may delete published without permission",
			status:  domain.StatusPublished,
			creator: true,
			perms:   fakePerms{},
			want:    true,
		},
		{
			name:    "creator may delete draft without permission",
			status:  domain.StatusDraft,
			creator: true,
			perms:   fakePerms{},
			want:    true,
		},
		{
			name:    "creator may delete archived without permission",
			status:  domain.StatusArchived,
			creator: true,
			perms:   fakePerms{},
			want:    true,
		},
		{
			name:    "creator cannot delete while in review",
			status:  domain.StatusInReview,
			creator: true,
			perms:   fakePerms{},
			want:    false,
		},
		{
			name:    "creator cannot delete pending publish",
			status:  domain.StatusPendingPublish,
			creator: true,
			perms:   fakePerms{},
			want:    false,
		},
		{
			name:   "stranger without permission denied",
			status: domain.StatusDraft,
			perms:  fakePerms{},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request(tt.status, domain.GateDelete, "editor")
			if tt.creator {
				req.CreatedBy = req.UserID
			}
			d := domain.Evaluate(req, tt.perms)
			assert.Equal(t, tt.want, d.Allowed)
		})
	}
}

func TestEvaluate_CreateSection(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.Status
		role    string
		creator bool
		perms   fakePerms
		want    bool
	}{
		{
			name:   "create permission in draft",
			status: domain.StatusDraft,
			role:   "editor",
			perms:  fakePerms{"sections:create": true},
			want:   true,
		},
		{
			name:    "creator without permission in draft",
			status:  domain.StatusDraft,
			role:    "editor",
			creator: true,
			perms:   fakePerms{},
			want:    true,
		},
		{
			name:    "creator without permission in review is denied",
			status:  domain.StatusInReview,
			role:    "editor",
			creator: true,
			perms:   fakePerms{},
			want:    false,
		},
		{
			name:   "permission holder in review needs reviewer role",
			status: domain.StatusInReview,
			role:   "editor",
			perms:  fakePerms{"sections:create": true},
			want:   false,
		},
		{
			name:   "reviewer with permission in review",
			status: domain.StatusInReview,
			role:   "reviewer",
			perms:  fakePerms{"sections:create": true},
			want:   true,
		},
		{
			name:   "permission holder in published is denied",
			status: domain.StatusPublished,
			role:   "editor",
			perms:  fakePerms{"sections:create": true},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := domain.Request{
				Status:       tt.status,
				ResourceType: domain.ResourceSection,
				Action:       domain.GateCreateSection,
				UserID:       "user-1",
				RoleSlug:     tt.role,
			}
			if tt.creator {
				req.CreatedBy = req.UserID
			}
			d := domain.Evaluate(req, tt.perms)
			assert.Equal(t, tt.want, d.Allowed)
		})
	}
}

func TestEvaluate_ModifyTree(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.Status
		role    string
		creator bool
		perms   fakePerms
		want    bool
	}{
		{
			name:   "draft with update permission",
			status: domain.StatusDraft,
			role:   "editor",
			perms:  fakePerms{"pages:update": true},
			want:   true,
		},
		{
			name:    "draft creator without permission",
			status:  domain.StatusDraft,
			role:    "editor",
			creator: true,
			perms:   fakePerms{},
			want:    true,
		},
		{
			name:   "changes_requested is not draft, denied",
			status: domain.StatusChangesRequested,
			role:   "editor",
			perms:  fakePerms{"pages:update": true},
			want:   false,
		},
		{
			name:   "in_review needs update and reviewer role",
			status: domain.StatusInReview,
			role:   "reviewer",
			perms:  fakePerms{"pages:update": true},
			want:   true,
		},
		{
			name:   "in_review, editor with update denied",
			status: domain.StatusInReview,
			role:   "editor",
			perms:  fakePerms{"pages:update": true},
			want:   false,
		},
		{
			name: "pending_publish accepts reviewer set, no approver tightening",
			// The restricted branch checks only the reviewer set here.
			status: domain.StatusPendingPublish,
			role:   "reviewer",
			perms:  fakePerms{"pages:update": true},
			want:   true,
		},
		{
			name:   "published denied",
			status: domain.StatusPublished,
			role:   "editor",
			perms:  fakePerms{"pages:update": true},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request(tt.status, domain.GateModifyTree, tt.role)
			if tt.creator {
				req.CreatedBy = req.UserID
			}
			d := domain.Evaluate(req, tt.perms)
			assert.Equal(t, tt.want, d.Allowed)
		})
	}
}

func TestDenialReasons(t *testing.T) {
	tests := []struct {
		name     string
		status   domain.Status
		contains string
	}{
		{name: "restricted", status: domain.StatusInReview, contains: "pending review or approval"},
		{name: "published", status: domain.StatusPublished, contains: "published"},
		{name: "archived", status: domain.StatusArchived, contains: "archived"},
		{name: "generic names the status", status: domain.StatusDraft, contains: "draft"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request(tt.status, domain.GateEdit, "editor")
			d := domain.Evaluate(req, fakePerms{})
			assert.False(t, d.Allowed)
			assert.True(t, strings.Contains(d.Reason, tt.contains), d.Reason)
		})
	}
}
