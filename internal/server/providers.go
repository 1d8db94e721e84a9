package server

import (
	"github.com/ferndale/console-edge/internal/adapters/redisstore"
	"github.com/ferndale/console-edge/internal/adapters/rest"
	"github.com/ferndale/console-edge/internal/adapters/rest/middleware"
	"github.com/ferndale/console-edge/internal/adapters/upstream"
	"github.com/ferndale/console-edge/internal/platform/logger"
)

// provideUpstreamClient creates the backend API client from config
func provideUpstreamClient(config Config, log logger.Logger) *upstream.Client {
	return upstream.NewClient(config.BackendBaseURL, log)
}

// provideVersion provides the application version
func provideVersion() string {
	return "1.0.0"
}

// provideLoggerConfig creates logger config from server config
func provideLoggerConfig(config Config) logger.Config {
	return logger.Config{
		Environment: config.Environment,
		LogLevel:    config.LogLevel,
	}
}

// provideJWTConfig extracts the JWT middleware settings from server config
func provideJWTConfig(config Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		JWKS:   config.JWKSEndpoint,
		Issuer: config.JWTIssuer,
	}
}

// provideGuardConfig extracts the route guard settings from server config
func provideGuardConfig(config Config) middleware.GuardConfig {
	return middleware.GuardConfig{
		LoginPath:   config.LoginPath,
		LandingPath: config.LandingPath,
	}
}

// provideHealthHandler wires the readiness probes to the backend client and
// the Redis store
func provideHealthHandler(base *rest.BaseHandler, version string, backend *upstream.Client, store *redisstore.Store) *rest.HealthHandler {
	return rest.NewHealthHandler(base, version, backend, store)
}
