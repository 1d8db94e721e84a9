package application

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/microcosm-cc/bluemonday"

	authz "github.com/ferndale/console-edge/internal/authz/domain"
	"github.com/ferndale/console-edge/internal/navigation/domain"
	"github.com/ferndale/console-edge/internal/navigation/ports"
	"github.com/ferndale/console-edge/internal/platform/logger"
)

// treeCacheSize bounds the memoized trees across all active sessions.
const treeCacheSize = 256

// AuthzView is the slice of the per-user authorization cache the menu
// needs: viewer checks, the menu catalog, and a version to memoize on.
type AuthzView interface {
	domain.PermissionView
	MenuResources() []authz.Resource
	Version() uint64
}

// MenuView is the payload served to the console sidebar.
type MenuView struct {
	Items    []*domain.MenuItem `json:"items"`
	Expanded []string           `json:"expanded"`
	Search   string             `json:"search,omitempty"`
}

type treeKey struct {
	userID  string
	version uint64
}

// Service builds permission-filtered navigation trees. Built base trees
// are memoized per (user, catalog version) in an LRU; search filtering
// and expand-state are computed per request on top of the memoized tree.
type Service struct {
	trees     *lru.Cache[treeKey, []*domain.MenuItem]
	sanitizer *bluemonday.Policy
	scroll    ports.ScrollStore
	logger    logger.Logger
}

func NewService(scroll ports.ScrollStore, logger logger.Logger) (*Service, error) {
	trees, err := lru.New[treeKey, []*domain.MenuItem](treeCacheSize)
	if err != nil {
		return nil, fmt.Errorf("NewService: %w", err)
	}
	return &Service{
		trees:     trees,
		sanitizer: bluemonday.StrictPolicy(),
		scroll:    scroll,
		logger:    logger,
	}, nil
}

// Menu returns the viewer's navigation tree, pruned by the search query
// and carrying the expand-set for the active route. While a search is
// active every branch is expanded so matches stay visible; otherwise the
// expand-set follows the route's ancestor chains.
func (s *Service) Menu(ctx context.Context, userID string, view AuthzView, search, routePath string) *MenuView {
	base := s.baseTree(ctx, userID, view)

	search = strings.TrimSpace(search)
	items := domain.FilterTree(base, search)

	var expanded domain.ExpandState
	if search != "" {
		expanded = domain.ExpandAllBranches(items)
	} else {
		expanded = domain.ExpandForRoute(base, routePath)
	}

	return &MenuView{
		Items:    items,
		Expanded: expanded.Keys(),
		Search:   search,
	}
}

// ResolveChildPath handles navigation onto a parent entry that has
// children but no page of its own: it resolves the lowest-order child's
// path. The second return is false when the path has no node or the node
// has no children.
func (s *Service) ResolveChildPath(ctx context.Context, userID string, view AuthzView, parentPath string) (string, bool) {
	node := findByPath(s.baseTree(ctx, userID, view), parentPath)
	if node == nil || !node.HasChildren() {
		return "", false
	}
	best := node.Children[0]
	for _, child := range node.Children[1:] {
		if child.Order < best.Order {
			best = child
		}
	}
	if best.Path == "" {
		return "", false
	}
	return best.Path, true
}

// SaveScroll persists the sidebar scroll offset, best-effort.
func (s *Service) SaveScroll(ctx context.Context, sessionID string, offset int) {
	if err := s.scroll.SaveScrollOffset(ctx, sessionID, offset); err != nil {
		s.logger.Warn(ctx, "failed to persist scroll offset",
			"session_id", sessionID,
			"error", err,
		)
	}
}

// LoadScroll restores the last persisted offset, zero when absent.
func (s *Service) LoadScroll(ctx context.Context, sessionID string) int {
	offset, ok, err := s.scroll.LoadScrollOffset(ctx, sessionID)
	if err != nil {
		s.logger.Warn(ctx, "failed to load scroll offset",
			"session_id", sessionID,
			"error", err,
		)
		return 0
	}
	if !ok {
		return 0
	}
	return offset
}

func (s *Service) baseTree(ctx context.Context, userID string, view AuthzView) []*domain.MenuItem {
	key := treeKey{userID: userID, version: view.Version()}
	if tree, ok := s.trees.Get(key); ok {
		return tree
	}

	catalog := view.MenuResources()
	for i := range catalog {
		catalog[i].Name = s.sanitizer.Sanitize(catalog[i].Name)
	}
	tree := domain.BuildTree(catalog, view)
	s.trees.Add(key, tree)

	s.logger.Debug(ctx, "menu tree built",
		"user_id", userID,
		"catalog_version", key.version,
		"roots", len(tree),
	)
	return tree
}

func findByPath(items []*domain.MenuItem, path string) *domain.MenuItem {
	for _, item := range items {
		if item.Path == path {
			return item
		}
		if found := findByPath(item.Children, path); found != nil {
			return found
		}
	}
	return nil
}
