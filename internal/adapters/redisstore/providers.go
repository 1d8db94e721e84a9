package redisstore

import (
	"github.com/google/wire"

	authzPorts "github.com/ferndale/console-edge/internal/authz/ports"
	navigationPorts "github.com/ferndale/console-edge/internal/navigation/ports"
)

// ProviderSet is the wire provider set for the Redis-backed state store
var ProviderSet = wire.NewSet(
	NewStore,
	// Bind the Store to both consumer ports
	wire.Bind(new(authzPorts.StateStore), new(*Store)),
	wire.Bind(new(navigationPorts.ScrollStore), new(*Store)),
)
