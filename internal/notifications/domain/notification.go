package domain

import "time"

// Notification is one entry of a user's notification feed as the backend
// reports it. The edge only holds the last polled snapshot; marking read
// and deleting go straight to the backend.
type Notification struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Snapshot is the last polled batch for one user plus its poll time, so
// the console can show feed staleness.
type Snapshot struct {
	Notifications []Notification `json:"notifications"`
	Unread        int            `json:"unread"`
	PolledAt      time.Time      `json:"polledAt"`
}

// NewSnapshot computes the unread count at poll time.
func NewSnapshot(notifications []Notification, polledAt time.Time) Snapshot {
	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}
	return Snapshot{
		Notifications: notifications,
		Unread:        unread,
		PolledAt:      polledAt,
	}
}
