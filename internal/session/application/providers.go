package application

import (
	"github.com/google/wire"
)

// ProviderSet is the wire provider set for session management
var ProviderSet = wire.NewSet(
	NewManager,
)
