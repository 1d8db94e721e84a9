package events

import (
	"time"

	"github.com/ferndale/console-edge/internal/platform/eventbus"
)

// Event topics for the per-user console session lifecycle
const (
	SessionStartedTopic eventbus.Topic = "sessions.started"
	SessionEndedTopic   eventbus.Topic = "sessions.ended"
)

// SessionStartedEvent is published when a user's session is created and
// cache hydration has begun.
type SessionStartedEvent struct {
	SessionID  string
	UserID     string
	OccurredAt time.Time
}

// SessionEndedEvent is published on logout or session invalidation, after
// the cached authorization state has been cleared.
type SessionEndedEvent struct {
	SessionID  string
	UserID     string
	OccurredAt time.Time
}

