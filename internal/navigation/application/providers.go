package application

import (
	"github.com/google/wire"
)

// ProviderSet is the wire provider set for navigation application services
var ProviderSet = wire.NewSet(
	NewService,
)
