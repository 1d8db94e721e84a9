package domain

import "strings"

// FilterTree prunes the tree to items whose name or path contains the
// query, case-insensitively, keeping every ancestor of a match so matches
// stay reachable. Branches with no matching descendants are dropped. An
// empty query returns the tree unchanged.
func FilterTree(items []*MenuItem, query string) []*MenuItem {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}
	needle := strings.ToLower(query)

	var kept []*MenuItem
	for _, item := range items {
		if pruned := filterNode(item, needle); pruned != nil {
			kept = append(kept, pruned)
		}
	}
	return kept
}

// filterNode rebuilds the subtree bottom-up: a node survives when it
// matches or when any descendant does. Surviving nodes are copies so the
// unfiltered tree stays intact.
func filterNode(item *MenuItem, needle string) *MenuItem {
	var children []*MenuItem
	for _, child := range item.Children {
		if pruned := filterNode(child, needle); pruned != nil {
			children = append(children, pruned)
		}
	}
	if len(children) == 0 && !matches(item, needle) {
		return nil
	}
	clone := *item
	clone.Children = children
	return &clone
}

func matches(item *MenuItem, needle string) bool {
	return strings.Contains(strings.ToLower(item.Name), needle) ||
		strings.Contains(strings.ToLower(item.Path), needle)
}
