package domain

import (
	"encoding/json"
	"strings"
)

// Well-known role slugs. super_admin bypasses permission rows entirely;
// admin shares the workflow-gate bypass but not the permission bypass.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleApprover   = "approver"
	RoleReviewer   = "reviewer"
	RoleEditor     = "editor"
)

// Role is a read-only cached copy of a backend role record. Roles form a
// flat set ordered by Level; there is no parent/child relationship.
type Role struct {
	ID       string `json:"_id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Color    string `json:"color,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
	IsSystem bool   `json:"isSystem,omitempty"`
}

// Active treats a missing isActive field as active, for records predating
// the field.
func (r *Role) Active() bool {
	return r.IsActive == nil || *r.IsActive
}

// Is compares the role against a slug, case-insensitively.
func (r *Role) Is(slug string) bool {
	return strings.EqualFold(r.Slug, slug)
}

// RoleRef addresses a role in one of the three shapes upstream payloads
// use: a plain slug string, a bare identifier string, or an embedded role
// object. A bare string lands in Raw and is resolved against the role
// catalog at comparison time.
type RoleRef struct {
	Slug string
	ID   string
	Raw  string
}

// UnmarshalJSON accepts either a JSON string or a role object.
func (r *RoleRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = RoleRef{Raw: s}
		return nil
	}

	var obj struct {
		ID   string `json:"_id"`
		Slug string `json:"slug"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = RoleRef{Slug: obj.Slug, ID: obj.ID}
	return nil
}

// MarshalJSON writes the most specific form available.
func (r RoleRef) MarshalJSON() ([]byte, error) {
	if r.Slug != "" || r.ID != "" {
		return json.Marshal(struct {
			ID   string `json:"_id,omitempty"`
			Slug string `json:"slug,omitempty"`
		}{ID: r.ID, Slug: r.Slug})
	}
	return json.Marshal(r.Raw)
}

// IsZero reports whether the reference carries no information.
func (r RoleRef) IsZero() bool {
	return r.Slug == "" && r.ID == "" && r.Raw == ""
}

// ToSlug normalizes the reference to a role slug using the given catalog.
// A bare string is first matched against catalog slugs, then against
// catalog identifiers, and finally assumed to already be a slug. This is
// the single normalization point for every role comparison.
func (r RoleRef) ToSlug(catalog []Role) string {
	if r.Slug != "" {
		return r.Slug
	}
	if r.ID != "" {
		for i := range catalog {
			if catalog[i].ID == r.ID {
				return catalog[i].Slug
			}
		}
		return ""
	}
	if r.Raw == "" {
		return ""
	}
	for i := range catalog {
		if strings.EqualFold(catalog[i].Slug, r.Raw) {
			return catalog[i].Slug
		}
	}
	for i := range catalog {
		if catalog[i].ID == r.Raw {
			return catalog[i].Slug
		}
	}
	return r.Raw
}
