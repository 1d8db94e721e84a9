package domain

import "strings"

// ExpandState is the set of node keys currently expanded in the sidebar.
type ExpandState map[string]struct{}

// ExpandForRoute computes the expand-set for a route change: every
// ancestor chain leading to a node whose path covers the current route is
// expanded. The dashboard only counts on an exact match, since naive
// prefix matching would put every other path "under" it.
func ExpandForRoute(items []*MenuItem, routePath string) ExpandState {
	state := make(ExpandState)
	for _, item := range items {
		expandChain(item, routePath, nil, state)
	}
	return state
}

func expandChain(item *MenuItem, routePath string, ancestors []string, state ExpandState) {
	if pathCovers(item.Path, routePath) {
		for _, key := range ancestors {
			state[key] = struct{}{}
		}
		if item.HasChildren() {
			state[item.Key()] = struct{}{}
		}
	}
	chain := append(ancestors, item.Key())
	for _, child := range item.Children {
		expandChain(child, routePath, chain, state)
	}
}

// ExpandAllBranches expands every node that has children, used while a
// search is active so matches are always visible.
func ExpandAllBranches(items []*MenuItem) ExpandState {
	state := make(ExpandState)
	var walk func([]*MenuItem)
	walk = func(nodes []*MenuItem) {
		for _, n := range nodes {
			if n.HasChildren() {
				state[n.Key()] = struct{}{}
			}
			walk(n.Children)
		}
	}
	walk(items)
	return state
}

// Toggle flips one node's membership, independent of route recomputation.
func (s ExpandState) Toggle(key string) {
	if _, ok := s[key]; ok {
		delete(s, key)
		return
	}
	s[key] = struct{}{}
}

// Keys returns the expanded keys for serialization.
func (s ExpandState) Keys() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}

// IsExpanded reports whether a node renders open: either it was expanded
// explicitly or the current route sits inside its subtree, so navigating
// into a child always reveals its ancestors.
func (s ExpandState) IsExpanded(item *MenuItem, routePath string) bool {
	if _, ok := s[item.Key()]; ok {
		return true
	}
	return subtreeCovers(item, routePath)
}

func subtreeCovers(item *MenuItem, routePath string) bool {
	if pathCovers(item.Path, routePath) {
		return true
	}
	for _, child := range item.Children {
		if subtreeCovers(child, routePath) {
			return true
		}
	}
	return false
}

// pathCovers reports whether routePath falls on or under nodePath. The
// dashboard is exact-match only.
func pathCovers(nodePath, routePath string) bool {
	if nodePath == "" || routePath == "" {
		return false
	}
	if nodePath == DashboardPath {
		return routePath == DashboardPath
	}
	if routePath == nodePath {
		return true
	}
	return strings.HasPrefix(routePath, nodePath+"/")
}
