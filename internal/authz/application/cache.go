package application

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/ferndale/console-edge/internal/authz/domain"
	"github.com/ferndale/console-edge/internal/authz/ports"
	"github.com/ferndale/console-edge/internal/platform/apperror"
	"github.com/ferndale/console-edge/internal/platform/logger"
	"github.com/ferndale/console-edge/internal/platform/validator"
)

// Error definitions for cache operations using AppError
var (
	ErrNoUser = apperror.New(
		apperror.CodeUnauthorized,
		apperror.BusinessCodeUserNotFound,
		"no authenticated user loaded",
		http.StatusUnauthorized,
	)
	ErrUpstreamUnavailable = apperror.New(
		apperror.CodeUnavailable,
		apperror.BusinessCodeUpstreamUnavailable,
		"directory API unavailable",
		http.StatusServiceUnavailable,
	)
)

// State is the cache lifecycle. The two-phase read (persisted snapshot
// first, network refresh second) is modeled explicitly instead of with
// ad hoc boolean flags.
type State int

const (
	// StateIdle: nothing loaded; checks answer false.
	StateIdle State = iota
	// StateHydrating: persisted snapshot applied, refresh not started.
	StateHydrating
	// StateRefreshing: network refresh in flight.
	StateRefreshing
	// StateReady: every collection refreshed from the backend.
	StateReady
	// StateStale: at least one refresh failed; serving last known good.
	StateStale
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHydrating:
		return "hydrating"
	case StateRefreshing:
		return "refreshing"
	case StateReady:
		return "ready"
	case StateStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Loaded reports whether the cache can answer permission checks at all.
func (s State) Loaded() bool {
	return s == StateHydrating || s == StateRefreshing || s == StateReady || s == StateStale
}

// Cache is the single source of truth on the edge for "what can this user
// do": the authenticated user's permission set, resource catalog, and role
// catalog, hydrated from the local store for instant answers and then
// refreshed from the backend. The backend remains the authority; every
// answer here is optimistic and revocable.
type Cache struct {
	userID   string
	upstream ports.Upstream
	store    ports.StateStore
	logger   logger.Logger

	mu             sync.RWMutex
	state          State
	generation     uint64
	version        uint64
	user           *domain.User
	allPermissions bool
	permissions    []domain.Permission
	resources      []domain.Resource
	menuResources  []domain.Resource
	roles          []domain.Role
	index          *domain.ResourceIndex
	loading        map[ports.Collection]bool
}

// NewCache creates an empty cache for one user. Call Hydrate to populate.
func NewCache(userID string, upstream ports.Upstream, store ports.StateStore, logger logger.Logger) *Cache {
	return &Cache{
		userID:   userID,
		upstream: upstream,
		store:    store,
		logger:   logger,
		state:    StateIdle,
		index:    domain.NewResourceIndex(nil),
		loading:  make(map[ports.Collection]bool),
	}
}

// ===== LIFECYCLE =====

// Hydrate applies the last persisted snapshot of every collection, then
// refreshes all of them from the backend. Persisted reads are best-effort:
// a miss or a corrupt payload just means that collection starts empty.
func (c *Cache) Hydrate(ctx context.Context) {
	gen := c.currentGeneration()

	var (
		user          domain.User
		permissionSet domain.PermissionSet
		resources     []domain.Resource
		menu          []domain.Resource
		roles         []domain.Role
	)

	gotUser := c.loadPersisted(ctx, ports.CollectionUser, &user)
	gotPerms := c.loadPersisted(ctx, ports.CollectionPermissions, &permissionSet)
	gotResources := c.loadPersisted(ctx, ports.CollectionResources, &resources)
	gotMenu := c.loadPersisted(ctx, ports.CollectionMenu, &menu)
	gotRoles := c.loadPersisted(ctx, ports.CollectionRoles, &roles)

	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		return
	}
	if gotUser {
		c.user = &user
	}
	if gotPerms {
		c.allPermissions = permissionSet.All
		c.permissions = permissionSet.Items
	}
	if gotResources {
		c.resources = resources
		c.index = domain.NewResourceIndex(resources)
	}
	if gotMenu {
		c.menuResources = menu
	}
	if gotRoles {
		c.roles = roles
	}
	c.state = StateHydrating
	c.version++
	c.mu.Unlock()

	c.logger.Debug(ctx, "cache hydrated from store",
		"user_id", c.userID,
		"user", gotUser,
		"permissions", gotPerms,
		"resources", gotResources,
		"menu_resources", gotMenu,
		"roles", gotRoles,
	)

	c.Refresh(ctx)
}

// Refresh re-fetches every collection from the backend. Each fetch fails
// independently: one collection's failure must not block or corrupt the
// others, and whatever was last persisted keeps serving.
func (c *Cache) Refresh(ctx context.Context) {
	c.setState(StateRefreshing)

	failed := false
	if err := c.RefreshUser(ctx); err != nil {
		failed = true
	}
	if err := c.RefreshPermissions(ctx); err != nil {
		failed = true
	}
	if err := c.RefreshResources(ctx); err != nil {
		failed = true
	}
	if err := c.RefreshRoles(ctx); err != nil {
		failed = true
	}

	if failed {
		c.setState(StateStale)
	} else {
		c.setState(StateReady)
	}
}

// Clear drops all cached state and deletes the persisted copies, on
// logout or session invalidation. The generation bump makes any
// still-in-flight refresh from the old session a no-op.
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	c.generation++
	c.version++
	c.state = StateIdle
	c.user = nil
	c.allPermissions = false
	c.permissions = nil
	c.resources = nil
	c.menuResources = nil
	c.roles = nil
	c.index = domain.NewResourceIndex(nil)
	c.loading = make(map[ports.Collection]bool)
	c.mu.Unlock()

	if err := c.store.Delete(ctx, c.userID, ports.AllCollections()...); err != nil {
		c.logger.Warn(ctx, "failed to delete persisted cache",
			"user_id", c.userID,
			"error", err,
		)
	}

	c.logger.Info(ctx, "authorization cache cleared", "user_id", c.userID)
}

// ===== PER-COLLECTION REFRESH =====

// RefreshUser re-fetches the current user's profile.
func (c *Cache) RefreshUser(ctx context.Context) error {
	gen := c.beginLoad(ports.CollectionUser)
	defer c.endLoad(ports.CollectionUser)

	user, err := c.upstream.FetchCurrentUser(ctx)
	if err != nil {
		c.logger.Warn(ctx, "failed to refresh current user",
			"user_id", c.userID,
			"error", err,
		)
		return fmt.Errorf("Cache.RefreshUser: %w", err)
	}

	if !c.apply(gen, func() {
		c.user = user
	}) {
		return nil
	}
	c.persist(ctx, ports.CollectionUser, user)
	return nil
}

// RefreshPermissions re-fetches the permission set.
func (c *Cache) RefreshPermissions(ctx context.Context) error {
	gen := c.beginLoad(ports.CollectionPermissions)
	defer c.endLoad(ports.CollectionPermissions)

	set, err := c.upstream.FetchPermissions(ctx)
	if err != nil {
		c.logger.Warn(ctx, "failed to refresh permissions",
			"user_id", c.userID,
			"error", err,
		)
		return fmt.Errorf("Cache.RefreshPermissions: %w", err)
	}

	if !c.apply(gen, func() {
		c.allPermissions = set.All
		c.permissions = set.Items
	}) {
		return nil
	}
	c.persist(ctx, ports.CollectionPermissions, set)
	return nil
}

// RefreshResources re-fetches the full and menu-scoped resource catalogs.
func (c *Cache) RefreshResources(ctx context.Context) error {
	gen := c.beginLoad(ports.CollectionResources)
	defer c.endLoad(ports.CollectionResources)

	resources, err := c.upstream.FetchResources(ctx)
	if err != nil {
		c.logger.Warn(ctx, "failed to refresh resources",
			"user_id", c.userID,
			"error", err,
		)
		return fmt.Errorf("Cache.RefreshResources: %w", err)
	}

	menu, err := c.upstream.FetchMenuResources(ctx)
	if err != nil {
		// Fall back to deriving the menu subset from the full catalog
		// rather than failing the whole refresh.
		c.logger.Warn(ctx, "failed to refresh menu resources, deriving from full catalog",
			"user_id", c.userID,
			"error", err,
		)
		menu = menuSubset(resources)
	}

	if !c.apply(gen, func() {
		c.resources = resources
		c.menuResources = menu
		c.index = domain.NewResourceIndex(resources)
	}) {
		return nil
	}
	c.persist(ctx, ports.CollectionResources, resources)
	c.persist(ctx, ports.CollectionMenu, menu)
	return nil
}

// RefreshRoles re-fetches the role catalog.
func (c *Cache) RefreshRoles(ctx context.Context) error {
	gen := c.beginLoad(ports.CollectionRoles)
	defer c.endLoad(ports.CollectionRoles)

	roles, err := c.upstream.FetchRoles(ctx)
	if err != nil {
		c.logger.Warn(ctx, "failed to refresh roles",
			"user_id", c.userID,
			"error", err,
		)
		return fmt.Errorf("Cache.RefreshRoles: %w", err)
	}

	if !c.apply(gen, func() {
		c.roles = roles
	}) {
		return nil
	}
	c.persist(ctx, ports.CollectionRoles, roles)
	return nil
}

// ===== QUERY OPERATIONS =====

// HasPermission is the synchronous, cache-only permission check. A
// super_admin role answers true unconditionally; otherwise the cached
// rows are scanned, tolerating the resource being addressed by slug, id,
// or path. Answers false when no user is loaded.
func (c *Cache) HasPermission(resource string, action domain.Action) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.user == nil {
		return false
	}
	if c.isSuperAdminLocked() || c.allPermissions {
		return true
	}
	for i := range c.permissions {
		if c.permissions[i].Grants(c.index, resource, action) {
			return true
		}
	}
	return false
}

// CheckPermissionServer asks the backend the same question. On network
// failure it degrades to the last-known-good cache answer instead of
// failing closed or open arbitrarily.
func (c *Cache) CheckPermissionServer(ctx context.Context, resource string, action domain.Action) bool {
	allowed, err := c.upstream.CheckPermission(ctx, resource, action)
	if err != nil {
		c.logger.Warn(ctx, "server permission check failed, falling back to cache",
			"user_id", c.userID,
			"resource", resource,
			"action", action,
			"error", err,
		)
		return c.HasPermission(resource, action)
	}
	return allowed
}

// CanAccess reports whether any active permission row references the
// resource, regardless of action. Super admins can access everything.
func (c *Cache) CanAccess(resource string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.user == nil {
		return false
	}
	if c.isSuperAdminLocked() || c.allPermissions {
		return true
	}
	for i := range c.permissions {
		if c.permissions[i].References(c.index, resource) {
			return true
		}
	}
	return false
}

// HasRole normalizes the reference to a slug and compares it against the
// current user's role.
func (c *Cache) HasRole(ref domain.RoleRef) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.user == nil {
		return false
	}
	want := ref.ToSlug(c.roles)
	if want == "" {
		return false
	}
	return strings.EqualFold(c.roleSlugLocked(), want)
}

// HasAnyRole reports whether the user holds any of the referenced roles.
func (c *Cache) HasAnyRole(refs ...domain.RoleRef) bool {
	for _, ref := range refs {
		if c.HasRole(ref) {
			return true
		}
	}
	return false
}

// IsSuperAdmin reports the hard-coded super_admin bypass.
func (c *Cache) IsSuperAdmin() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user != nil && c.isSuperAdminLocked()
}

// HasAllPermissions reports the backend's explicit all-permissions flag.
func (c *Cache) HasAllPermissions() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.allPermissions
}

// RoleSlug resolves the current user's role to a slug, or "" when no user
// is loaded.
func (c *Cache) RoleSlug() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return ""
	}
	return c.roleSlugLocked()
}

// GetRole looks up a role by slug or identifier in the cached catalog.
func (c *Cache) GetRole(identifier string) *domain.Role {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.roles {
		if c.roles[i].Slug == identifier || c.roles[i].ID == identifier {
			role := c.roles[i]
			return &role
		}
	}
	return nil
}

// GetRoleName returns the role's display name, falling back to a
// formatted slug when the catalog entry is not cached yet.
func (c *Cache) GetRoleName(identifier string) string {
	if role := c.GetRole(identifier); role != nil && role.Name != "" {
		return role.Name
	}
	return validator.DisplayName(identifier)
}

// CurrentUser returns the cached user, or nil before hydration.
func (c *Cache) CurrentUser() *domain.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	user := *c.user
	return &user
}

// MenuResources returns the menu-scoped catalog subset.
func (c *Cache) MenuResources() []domain.Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Resource, len(c.menuResources))
	copy(out, c.menuResources)
	return out
}

// Resources returns the full cached catalog.
func (c *Cache) Resources() []domain.Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Resource, len(c.resources))
	copy(out, c.resources)
	return out
}

// Roles returns the cached role catalog.
func (c *Cache) Roles() []domain.Role {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Role, len(c.roles))
	copy(out, c.roles)
	return out
}

// Permissions returns the cached permission rows.
func (c *Cache) Permissions() []domain.Permission {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Permission, len(c.permissions))
	copy(out, c.permissions)
	return out
}

// Index returns the current resource index for cross-form matching.
func (c *Cache) Index() *domain.ResourceIndex {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index
}

// State reports the cache lifecycle state.
func (c *Cache) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Version increases on every applied mutation; derived artifacts (menu
// trees) key their memoization on it.
func (c *Cache) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Loading reports whether a collection's network fetch is in flight.
func (c *Cache) Loading(collection ports.Collection) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading[collection]
}

// ===== PRIVATE HELPERS =====

func (c *Cache) isSuperAdminLocked() bool {
	return strings.EqualFold(c.roleSlugLocked(), domain.RoleSuperAdmin)
}

func (c *Cache) roleSlugLocked() string {
	if c.user == nil {
		return ""
	}
	return c.user.Role.ToSlug(c.roles)
}

func (c *Cache) currentGeneration() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// beginLoad marks the collection in flight and captures the generation the
// fetch belongs to.
func (c *Cache) beginLoad(collection ports.Collection) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading[collection] = true
	return c.generation
}

func (c *Cache) endLoad(collection ports.Collection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.loading, collection)
}

// apply runs the mutation under lock unless the cache has been cleared
// since the fetch started. A late-resolving fetch from a stale session
// must not repopulate cleared state.
func (c *Cache) apply(gen uint64, mutate func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return false
	}
	mutate()
	c.version++
	return true
}

func (c *Cache) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

func (c *Cache) loadPersisted(ctx context.Context, collection ports.Collection, v any) bool {
	ok, err := c.store.Load(ctx, c.userID, collection, v)
	if err != nil {
		c.logger.Warn(ctx, "failed to load persisted collection",
			"user_id", c.userID,
			"collection", collection,
			"error", err,
		)
		return false
	}
	return ok
}

func (c *Cache) persist(ctx context.Context, collection ports.Collection, v any) {
	if err := c.store.Save(ctx, c.userID, collection, v); err != nil {
		c.logger.Warn(ctx, "failed to persist collection",
			"user_id", c.userID,
			"collection", collection,
			"error", err,
		)
	}
}

// menuSubset filters a full catalog down to active, menu-flagged entries.
func menuSubset(resources []domain.Resource) []domain.Resource {
	out := make([]domain.Resource, 0, len(resources))
	for _, r := range resources {
		if r.Active() && r.InMenu() {
			out = append(out, r)
		}
	}
	return out
}
