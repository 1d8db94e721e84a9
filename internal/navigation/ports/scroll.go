package ports

import "context"

// ScrollStore persists the sidebar scroll offset per session. Writes are
// best-effort and reads treat missing or corrupt values as absent.
type ScrollStore interface {
	SaveScrollOffset(ctx context.Context, sessionID string, offset int) error
	LoadScrollOffset(ctx context.Context, sessionID string) (int, bool, error)
}
