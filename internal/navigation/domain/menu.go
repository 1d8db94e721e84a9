package domain

// DashboardPath is the synthesized root entry every user sees.
const DashboardPath = "/dashboard"

// MenuItem is a rendered navigation node. It is derived from the resource
// catalog and the viewer's permissions at build time and never mutated in
// place; changes to either input produce a fresh tree.
type MenuItem struct {
	ID         string      `json:"_id,omitempty"`
	Name       string      `json:"name"`
	Path       string      `json:"path"`
	Icon       string      `json:"icon,omitempty"`
	Permission string      `json:"permission,omitempty"`
	Order      int         `json:"order"`
	Children   []*MenuItem `json:"children,omitempty"`
}

// Key identifies a node in expand-state sets: the backend identifier when
// present, otherwise the path.
func (m *MenuItem) Key() string {
	if m.ID != "" {
		return m.ID
	}
	return m.Path
}

// HasChildren reports whether the node is a branch.
func (m *MenuItem) HasChildren() bool {
	return len(m.Children) > 0
}
