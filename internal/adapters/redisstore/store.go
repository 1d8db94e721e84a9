package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ferndale/console-edge/internal/authz/ports"
	"github.com/ferndale/console-edge/internal/platform/logger"
)

// scrollTTL expires scroll offsets with the session's working day;
// snapshot keys live until the session clears them.
const scrollTTL = 24 * time.Hour

// Store persists per-user authorization snapshots and per-session UI
// state in Redis. It is a cache, not a system of record: reads treat
// missing or corrupt values as a miss and writes are best-effort from the
// caller's point of view.
type Store struct {
	client *redis.Client
	logger logger.Logger
}

func NewStore(client *redis.Client, logger logger.Logger) *Store {
	return &Store{client: client, logger: logger}
}

// Load implements ports.StateStore. Corrupt payloads are deleted and
// reported as a miss so a bad write never wedges a user.
func (s *Store) Load(ctx context.Context, userID string, collection ports.Collection, v any) (bool, error) {
	key := snapshotKey(userID, collection)
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("Store.Load: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.logger.Warn(ctx, "discarding corrupt snapshot",
			"key", key,
			"error", err,
		)
		s.client.Del(ctx, key)
		return false, nil
	}
	return true, nil
}

// Save implements ports.StateStore.
func (s *Store) Save(ctx context.Context, userID string, collection ports.Collection, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("Store.Save: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey(userID, collection), raw, 0).Err(); err != nil {
		return fmt.Errorf("Store.Save: %w", err)
	}
	return nil
}

// Delete implements ports.StateStore.
func (s *Store) Delete(ctx context.Context, userID string, collections ...ports.Collection) error {
	if len(collections) == 0 {
		return nil
	}
	keys := make([]string, len(collections))
	for i, c := range collections {
		keys[i] = snapshotKey(userID, c)
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("Store.Delete: %w", err)
	}
	return nil
}

// SaveScrollOffset implements the navigation scroll store.
func (s *Store) SaveScrollOffset(ctx context.Context, sessionID string, offset int) error {
	key := scrollKey(sessionID)
	if err := s.client.Set(ctx, key, offset, scrollTTL).Err(); err != nil {
		return fmt.Errorf("Store.SaveScrollOffset: %w", err)
	}
	return nil
}

// LoadScrollOffset implements the navigation scroll store.
func (s *Store) LoadScrollOffset(ctx context.Context, sessionID string) (int, bool, error) {
	raw, err := s.client.Get(ctx, scrollKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("Store.LoadScrollOffset: %w", err)
	}
	offset, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, nil
	}
	return offset, true, nil
}

// Ping reports store reachability for the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Store.Ping: %w", err)
	}
	return nil
}

func snapshotKey(userID string, collection ports.Collection) string {
	return "authz:" + userID + ":" + string(collection)
}

func scrollKey(sessionID string) string {
	return "session:" + sessionID + ":scroll"
}
