package domain

// Permission is a cached copy of a backend permission row: a grant of one
// or more actions on a resource to a role. Conditions are opaque to the
// client; only their presence is preserved.
type Permission struct {
	Role       RoleRef        `json:"role,omitempty"`
	Resource   string         `json:"resource"`
	Actions    []Action       `json:"actions"`
	Conditions map[string]any `json:"conditions,omitempty"`
	IsActive   *bool          `json:"isActive,omitempty"`
}

// Active treats only an explicit false as inactive.
func (p *Permission) Active() bool {
	return p.IsActive == nil || *p.IsActive
}

// Allows reports whether the row grants the given action.
func (p *Permission) Allows(action Action) bool {
	for _, a := range p.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Grants reports whether the row is an active grant of action on the
// resource addressed by ref, reconciling slug/id/path addressing through
// the index.
func (p *Permission) Grants(ix *ResourceIndex, ref string, action Action) bool {
	if !p.Active() {
		return false
	}
	if !ix.SameResource(p.Resource, ref) {
		return false
	}
	return p.Allows(action)
}

// References reports whether the row actively references the resource,
// regardless of which actions it grants.
func (p *Permission) References(ix *ResourceIndex, ref string) bool {
	return p.Active() && ix.SameResource(p.Resource, ref)
}

// PermissionSet is the payload shape of the backend's "my permissions"
// endpoint: either an explicit all-permissions flag (for
// super-admin-equivalent roles) or a list of rows.
type PermissionSet struct {
	All   bool         `json:"hasAllPermissions,omitempty"`
	Items []Permission `json:"permissions,omitempty"`
}
