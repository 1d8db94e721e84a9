package ports

import "context"

// Collection names the independently cached/persisted state buckets.
type Collection string

const (
	CollectionUser        Collection = "user"
	CollectionPermissions Collection = "permissions"
	CollectionResources   Collection = "resources"
	CollectionMenu        Collection = "menu_resources"
	CollectionRoles       Collection = "roles"
)

// AllCollections lists every bucket, in hydration order.
func AllCollections() []Collection {
	return []Collection{
		CollectionUser,
		CollectionPermissions,
		CollectionResources,
		CollectionMenu,
		CollectionRoles,
	}
}

// StateStore is the local persistent cache standing in for the browser's
// local storage: a per-user key-value store of serialized collections.
// Writes are best-effort; a read of corrupt or missing data is a miss, not
// an error the caller should treat as fatal.
type StateStore interface {
	// Load unmarshals the persisted collection into v. ok is false on a
	// miss (absent key or unparseable payload).
	Load(ctx context.Context, userID string, c Collection, v any) (ok bool, err error)

	// Save marshals and persists the collection.
	Save(ctx context.Context, userID string, c Collection, v any) error

	// Delete removes the given collections for the user.
	Delete(ctx context.Context, userID string, collections ...Collection) error
}
