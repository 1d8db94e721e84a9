//go:build wireinject
// +build wireinject

package server

import (
	"context"

	"github.com/google/wire"

	"github.com/ferndale/console-edge/internal/adapters/redisstore"
	"github.com/ferndale/console-edge/internal/adapters/rest"
	"github.com/ferndale/console-edge/internal/adapters/rest/middleware"
	"github.com/ferndale/console-edge/internal/adapters/upstream"
	authzApp "github.com/ferndale/console-edge/internal/authz/application"
	navApp "github.com/ferndale/console-edge/internal/navigation/application"
	notifApp "github.com/ferndale/console-edge/internal/notifications/application"
	"github.com/ferndale/console-edge/internal/platform/eventbus"
	"github.com/ferndale/console-edge/internal/platform/logger"
	sessionApp "github.com/ferndale/console-edge/internal/session/application"
)

// InitializeApp creates a fully configured App with all dependencies
func InitializeApp(ctx context.Context) (*App, func(), error) {
	wire.Build(
		// Bootstrap phase
		logger.NewBootstrapLogger,
		LoadConfig,

		// Logger configuration
		provideLoggerConfig,

		// Main logger
		logger.NewConfiguredLogger,
		wire.Bind(new(logger.Logger), new(*logger.SlogAdapter)),

		// Redis
		ConnectRedis,
		redisstore.ProviderSet,

		// Backend API client
		provideUpstreamClient,
		upstream.ProviderSet,

		// Platform services
		eventbus.ProviderSet,

		// Application services
		authzApp.ProviderSet,
		navApp.ProviderSet,
		sessionApp.ProviderSet,
		notifApp.ProviderSet,

		// REST handlers
		rest.ProviderSet,
		provideVersion, // Provide version string for HealthHandler
		provideHealthHandler,
		NewHandlers,

		// Middleware
		middleware.ProviderSet,
		provideJWTConfig,
		provideGuardConfig,

		// HTTP Server
		NewHTTPServer,

		// App
		NewApp,
	)

	return nil, nil, nil
}
