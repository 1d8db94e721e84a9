package domain

import (
	"sort"
	"strings"

	authz "github.com/ferndale/console-edge/internal/authz/domain"
)

// maxTreeDepth caps nesting when attaching children. Catalog rows with
// cyclic or deeper parent chains are left out rather than looping.
const maxTreeDepth = 10

// superAdminOnlyPaths are hidden from the menu for everyone but
// super_admin, independent of the route-level guards on the same paths.
var superAdminOnlyPaths = map[string]struct{}{
	"/roles":         {},
	"/resources":     {},
	"/permissions":   {},
	"/section-types": {},
}

// mediaLibrarySlug is surfaced through its own picker UI, never the menu.
const mediaLibrarySlug = "media-library"

// PermissionView is what the builder needs to know about the viewer.
type PermissionView interface {
	IsSuperAdmin() bool
	HasPermission(resource string, action authz.Action) bool
}

// BuildTree turns the flat menu catalog into the viewer's navigation tree:
// filter by visibility and read permission, sort by order, then nest by
// parent identifier. The Dashboard root is synthesized so it exists and
// sorts first regardless of catalog contents.
func BuildTree(catalog []authz.Resource, viewer PermissionView) []*MenuItem {
	items := []*MenuItem{{
		Name:  "Dashboard",
		Path:  DashboardPath,
		Icon:  "dashboard",
		Order: -1,
	}}
	parents := make(map[string]string)

	for _, r := range catalog {
		if !r.Active() || !r.InMenu() {
			continue
		}
		if strings.EqualFold(r.Slug, mediaLibrarySlug) {
			continue
		}
		if _, adminOnly := superAdminOnlyPaths[r.Path]; adminOnly && !viewer.IsSuperAdmin() {
			continue
		}
		if !viewer.IsSuperAdmin() && !viewer.HasPermission(r.Slug, authz.ActionRead) {
			continue
		}
		items = append(items, &MenuItem{
			ID:         r.ID,
			Name:       r.Name,
			Path:       r.Path,
			Icon:       r.Icon,
			Permission: r.Slug,
			Order:      r.Order,
		})
		if r.ID != "" {
			parents[r.ID] = r.ParentID
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Order != items[j].Order {
			return items[i].Order < items[j].Order
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})

	return nest(items, parents)
}

// nest builds the tree from the sorted flat list. A node whose parent is
// missing from the filtered set becomes a root. Each identifier is placed
// at most once and nesting is depth-capped, so inconsistent parent data
// (dangling references, cycles) degrades to omission instead of
// duplication or an infinite loop.
func nest(items []*MenuItem, parents map[string]string) []*MenuItem {
	inSet := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.ID != "" {
			inSet[item.ID] = struct{}{}
		}
	}

	processed := make(map[string]struct{}, len(items))
	var roots []*MenuItem
	for _, item := range items {
		parentID := parents[item.ID]
		if _, parentPresent := inSet[parentID]; parentID != "" && parentPresent {
			continue
		}
		if _, done := processed[item.Key()]; done {
			continue
		}
		processed[item.Key()] = struct{}{}
		roots = append(roots, item)
		attachChildren(item, items, parents, processed, 1)
	}
	return roots
}

func attachChildren(parent *MenuItem, items []*MenuItem, parents map[string]string, processed map[string]struct{}, depth int) {
	if parent.ID == "" || depth > maxTreeDepth {
		return
	}
	for _, item := range items {
		if parents[item.ID] != parent.ID || item.ID == "" {
			continue
		}
		if _, done := processed[item.Key()]; done {
			continue
		}
		processed[item.Key()] = struct{}{}
		parent.Children = append(parent.Children, item)
		attachChildren(item, items, parents, processed, depth+1)
	}
}
