package domain

// Resource is a named, path-addressable navigable entity: a section of the
// admin application used both for routing and as the subject of
// permissions. Resources form a forest via ParentID.
type Resource struct {
	ID         string `json:"_id"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	Path       string `json:"path"`
	ParentID   string `json:"parentId,omitempty"`
	Icon       string `json:"icon,omitempty"`
	Category   string `json:"category,omitempty"`
	Order      int    `json:"order"`
	IsActive   *bool  `json:"isActive,omitempty"`
	ShowInMenu *bool  `json:"showInMenu,omitempty"`
	CreatedBy  string `json:"createdBy,omitempty"`
}

// Active defaults to true when the field is absent, for backward
// compatibility with older records.
func (r *Resource) Active() bool {
	return r.IsActive == nil || *r.IsActive
}

// InMenu defaults to true when the field is absent.
func (r *Resource) InMenu() bool {
	return r.ShowInMenu == nil || *r.ShowInMenu
}

// IsRoot reports whether the resource has no parent.
func (r *Resource) IsRoot() bool {
	return r.ParentID == ""
}

// ResourceIndex reconciles the three addressing forms upstream data uses
// for a resource: slug, identifier, and route path. Matching logic must
// check all three because permission rows are inconsistent about which
// form they store.
type ResourceIndex struct {
	bySlug map[string]*Resource
	byID   map[string]*Resource
	byPath map[string]*Resource
}

// NewResourceIndex builds an index over the catalog. Later entries with a
// duplicate slug, id, or path do not displace earlier ones.
func NewResourceIndex(catalog []Resource) *ResourceIndex {
	ix := &ResourceIndex{
		bySlug: make(map[string]*Resource, len(catalog)),
		byID:   make(map[string]*Resource, len(catalog)),
		byPath: make(map[string]*Resource, len(catalog)),
	}
	for i := range catalog {
		r := &catalog[i]
		if r.Slug != "" {
			if _, dup := ix.bySlug[r.Slug]; !dup {
				ix.bySlug[r.Slug] = r
			}
		}
		if r.ID != "" {
			if _, dup := ix.byID[r.ID]; !dup {
				ix.byID[r.ID] = r
			}
		}
		if r.Path != "" {
			if _, dup := ix.byPath[r.Path]; !dup {
				ix.byPath[r.Path] = r
			}
		}
	}
	return ix
}

// Lookup resolves a reference in any of the three forms to a catalog
// entry.
func (ix *ResourceIndex) Lookup(ref string) (*Resource, bool) {
	if ref == "" {
		return nil, false
	}
	if r, ok := ix.bySlug[ref]; ok {
		return r, true
	}
	if r, ok := ix.byID[ref]; ok {
		return r, true
	}
	if r, ok := ix.byPath[ref]; ok {
		return r, true
	}
	return nil, false
}

// SameResource reports whether two references address the same resource.
// When both resolve through the catalog they are compared by identity;
// when neither resolves, raw string equality is the only signal left.
func (ix *ResourceIndex) SameResource(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	ra, okA := ix.Lookup(a)
	rb, okB := ix.Lookup(b)
	if okA && okB {
		return ra == rb
	}
	return false
}
