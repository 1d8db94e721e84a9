package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/ferndale/console-edge/internal/authz/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleRef_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want domain.RoleRef
	}{
		{
			name: "plain string",
			data: `"editor"`,
			want: domain.RoleRef{Raw: "editor"},
		},
		{
			name: "embedded object",
			data: `{"_id":"64a1","slug":"reviewer","name":"Reviewer"}`,
			want: domain.RoleRef{ID: "64a1", Slug: "reviewer"},
		},
		{
			name: "object without slug",
			data: `{"_id":"64a1"}`,
			want: domain.RoleRef{ID: "64a1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref domain.RoleRef
			require.NoError(t, json.Unmarshal([]byte(tt.data), &ref))
			assert.Equal(t, tt.want, ref)
		})
	}
}

func TestRoleRef_ToSlug(t *testing.T) {
	catalog := []domain.Role{
		{ID: "r1", Slug: "super_admin", Name: "Super Admin", Level: 100},
		{ID: "r2", Slug: "editor", Name: "Editor", Level: 10},
	}

	tests := []struct {
		name string
		ref  domain.RoleRef
		want string
	}{
		{name: "explicit slug wins", ref: domain.RoleRef{Slug: "editor", ID: "r1"}, want: "editor"},
		{name: "id resolved via catalog", ref: domain.RoleRef{ID: "r1"}, want: "super_admin"},
		{name: "unknown id resolves empty", ref: domain.RoleRef{ID: "nope"}, want: ""},
		{name: "raw matching a slug", ref: domain.RoleRef{Raw: "editor"}, want: "editor"},
		{name: "raw matching a slug case-insensitively", ref: domain.RoleRef{Raw: "Editor"}, want: "editor"},
		{name: "raw matching an id", ref: domain.RoleRef{Raw: "r2"}, want: "editor"},
		{name: "raw unknown passes through as slug", ref: domain.RoleRef{Raw: "viewer"}, want: "viewer"},
		{name: "zero ref", ref: domain.RoleRef{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ref.ToSlug(catalog))
		})
	}
}

func TestRole_Active(t *testing.T) {
	f := false
	tr := true

	assert.True(t, (&domain.Role{Slug: "editor"}).Active(), "missing flag defaults to active")
	assert.True(t, (&domain.Role{Slug: "editor", IsActive: &tr}).Active())
	assert.False(t, (&domain.Role{Slug: "editor", IsActive: &f}).Active())
}

func TestRole_Is(t *testing.T) {
	role := domain.Role{Slug: "Reviewer"}
	assert.True(t, role.Is("reviewer"))
	assert.True(t, role.Is("REVIEWER"))
	assert.False(t, role.Is("approver"))
}
