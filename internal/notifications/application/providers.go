package application

import (
	"github.com/google/wire"

	sessionapp "github.com/ferndale/console-edge/internal/session/application"
)

// ProviderSet is the wire provider set for notification polling
var ProviderSet = wire.NewSet(
	NewPoller,
	wire.Bind(new(SessionLister), new(*sessionapp.Manager)),
)
