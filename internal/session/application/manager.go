package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	authzapp "github.com/ferndale/console-edge/internal/authz/application"
	"github.com/ferndale/console-edge/internal/platform/eventbus"
	"github.com/ferndale/console-edge/internal/platform/events"
	"github.com/ferndale/console-edge/internal/platform/logger"
)

// Session is one authenticated user's edge-side application state. It is
// created on the first authenticated request, owns that user's
// authorization cache, and is torn down on logout.
type Session struct {
	ID        string
	UserID    string
	StartedAt time.Time
	Cache     *authzapp.Cache

	mu    sync.RWMutex
	token string
}

// SetToken records the user's latest bearer token so background work
// (notification polling) can call upstream on their behalf.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Token returns the most recently seen bearer token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Manager owns the live sessions, keyed by user. It replaces ambient
// global state with an explicit object handed to the request layer.
type Manager struct {
	factory  *authzapp.CacheFactory
	eventBus *eventbus.Bus
	logger   logger.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(factory *authzapp.CacheFactory, eventBus *eventbus.Bus, logger logger.Logger) *Manager {
	return &Manager{
		factory:  factory,
		eventBus: eventBus,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Get returns the user's live session, if any.
func (m *Manager) Get(userID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Start returns the user's session, creating and hydrating it on first
// use. Hydration runs synchronously so the first request after login can
// already answer from the persisted snapshot; a concurrent Start for the
// same user returns the existing session untouched.
func (m *Manager) Start(ctx context.Context, userID string) *Session {
	m.mu.Lock()
	if existing, ok := m.sessions[userID]; ok {
		m.mu.Unlock()
		return existing
	}
	session := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartedAt: time.Now(),
		Cache:     m.factory.ForUser(userID),
	}
	m.sessions[userID] = session
	m.mu.Unlock()

	session.Cache.Hydrate(ctx)

	m.logger.Info(ctx, "session started",
		"session_id", session.ID,
		"user_id", userID,
		"cache_state", session.Cache.State().String(),
	)
	m.publishStarted(ctx, session)
	return session
}

// End tears the user's session down: cached authorization state is
// cleared and its persisted copies deleted before the session is
// forgotten. Ending an absent session is a no-op.
func (m *Manager) End(ctx context.Context, userID string) {
	m.mu.Lock()
	session, ok := m.sessions[userID]
	if ok {
		delete(m.sessions, userID)
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	session.Cache.Clear(ctx)

	m.logger.Info(ctx, "session ended",
		"session_id", session.ID,
		"user_id", userID,
	)
	m.publishEnded(ctx, session)
}

// Active snapshots the live sessions, for periodic work that visits each.
func (m *Manager) Active() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// EndAll tears every session down, for graceful shutdown.
func (m *Manager) EndAll(ctx context.Context) {
	for _, s := range m.Active() {
		m.End(ctx, s.UserID)
	}
}

func (m *Manager) publishStarted(ctx context.Context, session *Session) {
	m.eventBus.Publish(ctx, eventbus.Event{
		Topic: events.SessionStartedTopic,
		Payload: events.SessionStartedEvent{
			SessionID:  session.ID,
			UserID:     session.UserID,
			OccurredAt: time.Now(),
		},
	})
}

func (m *Manager) publishEnded(ctx context.Context, session *Session) {
	m.eventBus.Publish(ctx, eventbus.Event{
		Topic: events.SessionEndedTopic,
		Payload: events.SessionEndedEvent{
			SessionID:  session.ID,
			UserID:     session.UserID,
			OccurredAt: time.Now(),
		},
	})
}
