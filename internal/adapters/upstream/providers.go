package upstream

import (
	"github.com/google/wire"

	authzPorts "github.com/ferndale/console-edge/internal/authz/ports"
	notificationPorts "github.com/ferndale/console-edge/internal/notifications/ports"
)

// ProviderSet binds the backend client to its consumer ports. The client
// itself is constructed in the server package because it needs the base
// URL from config.
var ProviderSet = wire.NewSet(
	wire.Bind(new(authzPorts.Upstream), new(*Client)),
	wire.Bind(new(notificationPorts.Source), new(*Client)),
)
