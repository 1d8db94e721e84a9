package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	authzports "github.com/ferndale/console-edge/internal/authz/ports"
	"github.com/ferndale/console-edge/internal/notifications/domain"
	"github.com/ferndale/console-edge/internal/notifications/ports"
	"github.com/ferndale/console-edge/internal/platform/eventbus"
	"github.com/ferndale/console-edge/internal/platform/events"
	"github.com/ferndale/console-edge/internal/platform/logger"
	sessionapp "github.com/ferndale/console-edge/internal/session/application"
)

// pollSchedule refreshes every live session's feed on a fixed wall-clock
// interval.
const pollSchedule = "@every 30s"

// SessionLister is the slice of the session manager the poller needs.
type SessionLister interface {
	Active() []*sessionapp.Session
}

// Poller keeps a per-user notification snapshot fresh while that user has
// a live session. Sessions ending drop their snapshot; stopping the
// poller stops the schedule.
type Poller struct {
	cron     *cron.Cron
	sessions SessionLister
	source   ports.Source
	logger   logger.Logger

	mu        sync.RWMutex
	snapshots map[string]domain.Snapshot
}

func NewPoller(sessions SessionLister, source ports.Source, eventBus *eventbus.Bus, logger logger.Logger) *Poller {
	p := &Poller{
		cron:      cron.New(),
		sessions:  sessions,
		source:    source,
		logger:    logger,
		snapshots: make(map[string]domain.Snapshot),
	}
	eventBus.Subscribe(events.SessionEndedTopic, p.onSessionEnded)
	return p
}

// Start schedules the periodic poll.
func (p *Poller) Start() error {
	if _, err := p.cron.AddFunc(pollSchedule, p.PollAll); err != nil {
		return fmt.Errorf("Poller.Start: %w", err)
	}
	p.cron.Start()
	return nil
}

// Stop halts the schedule and waits for an in-flight poll to finish.
func (p *Poller) Stop() {
	<-p.cron.Stop().Done()
}

// PollAll refreshes the snapshot of every live session. Failures are
// per-user: one user's fetch failing keeps their previous snapshot and
// does not affect the others.
func (p *Poller) PollAll() {
	for _, session := range p.sessions.Active() {
		p.pollSession(session)
	}
}

// Poll refreshes one user's snapshot immediately, used when the console
// wants fresh data outside the schedule.
func (p *Poller) Poll(ctx context.Context, session *sessionapp.Session) {
	p.poll(ctx, session)
}

// Snapshot returns the last polled batch for the user. The second return
// is false when nothing has been polled yet.
func (p *Poller) Snapshot(userID string) (domain.Snapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	snap, ok := p.snapshots[userID]
	return snap, ok
}

func (p *Poller) pollSession(session *sessionapp.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p.poll(ctx, session)
}

func (p *Poller) poll(ctx context.Context, session *sessionapp.Session) {
	token := session.Token()
	if token == "" {
		return
	}
	ctx = authzports.WithToken(ctx, token)

	notifications, err := p.source.FetchNotifications(ctx)
	if err != nil {
		p.logger.Warn(ctx, "notification poll failed",
			"user_id", session.UserID,
			"error", err,
		)
		return
	}

	p.mu.Lock()
	p.snapshots[session.UserID] = domain.NewSnapshot(notifications, time.Now())
	p.mu.Unlock()
}

func (p *Poller) onSessionEnded(ctx context.Context, event eventbus.Event) error {
	payload, ok := event.Payload.(events.SessionEndedEvent)
	if !ok {
		return fmt.Errorf("onSessionEnded: unexpected payload %T", event.Payload)
	}
	p.mu.Lock()
	delete(p.snapshots, payload.UserID)
	p.mu.Unlock()
	return nil
}
