package ports

import (
	"context"

	"github.com/ferndale/console-edge/internal/authz/domain"
)

// Upstream is the authoritative backend API this service caches from. The
// caller's bearer token travels in the context; every method performs one
// request on behalf of that user. Implementations live in
// adapters/upstream.
type Upstream interface {
	// FetchCurrentUser returns the authenticated user's profile.
	FetchCurrentUser(ctx context.Context) (*domain.User, error)

	// FetchPermissions returns the user's permission set, which may be the
	// explicit has-all-permissions form for super-admin-equivalent roles.
	FetchPermissions(ctx context.Context) (*domain.PermissionSet, error)

	// FetchResources returns the full resource catalog.
	FetchResources(ctx context.Context) ([]domain.Resource, error)

	// FetchMenuResources returns the menu-scoped subset of the catalog.
	FetchMenuResources(ctx context.Context) ([]domain.Resource, error)

	// FetchRoles returns the active role catalog.
	FetchRoles(ctx context.Context) ([]domain.Role, error)

	// CheckPermission asks the backend to evaluate a single permission.
	// This is the authoritative answer; the cache is only an optimistic
	// mirror of it.
	CheckPermission(ctx context.Context, resource string, action domain.Action) (bool, error)
}
