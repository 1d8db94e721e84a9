package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	notifapp "github.com/ferndale/console-edge/internal/notifications/application"
	sessionapp "github.com/ferndale/console-edge/internal/session/application"
)

type App struct {
	server   *http.Server
	poller   *notifapp.Poller
	sessions *sessionapp.Manager
	config   Config
}

func NewApp(server *http.Server, poller *notifapp.Poller, sessions *sessionapp.Manager, config Config) *App {
	return &App{
		server:   server,
		poller:   poller,
		sessions: sessions,
		config:   config,
	}
}

// Run starts the application and handles graceful shutdown
func (a *App) Run() error {
	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := a.poller.Start(); err != nil {
		return fmt.Errorf("failed to start notification poller: %w", err)
	}

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		log.Println("Shutting down server...")

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := a.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to gracefully shutdown server: %w", err)
		}
	}

	a.poller.Stop()
	a.sessions.EndAll(context.Background())

	log.Println("Server stopped")
	return nil
}
