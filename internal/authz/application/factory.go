package application

import (
	"github.com/ferndale/console-edge/internal/authz/ports"
	"github.com/ferndale/console-edge/internal/platform/logger"
)

// CacheFactory builds per-user caches over shared infrastructure. One
// cache exists per active session; the factory is the wired singleton.
type CacheFactory struct {
	upstream ports.Upstream
	store    ports.StateStore
	logger   logger.Logger
}

func NewCacheFactory(upstream ports.Upstream, store ports.StateStore, logger logger.Logger) *CacheFactory {
	return &CacheFactory{
		upstream: upstream,
		store:    store,
		logger:   logger,
	}
}

// ForUser creates an empty cache bound to one user's identity.
func (f *CacheFactory) ForUser(userID string) *Cache {
	return NewCache(userID, f.upstream, f.store, f.logger)
}
