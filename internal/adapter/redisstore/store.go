package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrNoSnapshot is returned by Load when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no last-known-good sheet stored")

// Store keeps the most recent good sheet body in Redis so a restart during a
// sheet outage can still serve real data. It implements pipeline.SnapshotStore.
type Store struct {
	client redis.Cmdable
	key    string
}

// New wraps an existing Redis client.
func New(client redis.Cmdable, key string) *Store {
	return &Store{client: client, key: key}
}

// Dial connects to Redis at addr.
func Dial(addr, key string) (*Store, *redis.Client) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return New(client, key), client
}

// Save stores the sheet body without expiry; it is replaced on every good fetch.
func (s *Store) Save(ctx context.Context, body string) error {
	if err := s.client.Set(ctx, s.key, body, 0).Err(); err != nil {
		return fmt.Errorf("save last-known-good sheet: %w", err)
	}
	return nil
}

// Load returns the stored sheet body.
func (s *Store) Load(ctx context.Context) (string, error) {
	body, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSnapshot
	}
	if err != nil {
		return "", fmt.Errorf("load last-known-good sheet: %w", err)
	}
	return body, nil
}
