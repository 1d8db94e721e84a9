package ports

import (
	"context"

	"github.com/ferndale/console-edge/internal/notifications/domain"
)

// Source fetches the caller's notification feed from the backend. The
// bearer token travels in the context, as with the authz upstream.
type Source interface {
	FetchNotifications(ctx context.Context) ([]domain.Notification, error)
}
