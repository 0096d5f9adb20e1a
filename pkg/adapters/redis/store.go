// Package redis provides a Redis-backed workspace store, enabling
// autosave and crash recovery across editor restarts.
package redis

import (
	"context"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/snapshot"
)

// Store implements ports.WorkspaceStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for stored workspaces.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for workspaces.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "arbor:workspace:",
		ttl:    0, // No expiration by default
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(workspace string) string {
	return s.prefix + workspace
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the snapshot to Redis.
func (s *Store) Save(ctx context.Context, workspace string, snap snapshot.Snapshot) error {
	pipe := s.client.Pipeline()

	// 1. Save the blob with TTL (0 = no expiration).
	pipe.Set(ctx, s.key(workspace), []byte(snap), s.ttl)

	// 2. Add to Index (ZSET). Score = Now + TTL; an unset TTL gets a
	// far-future score so lazy cleanup never removes it.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: workspace,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the snapshot from Redis.
func (s *Store) Load(ctx context.Context, workspace string) (snapshot.Snapshot, error) {
	val, err := s.client.Get(ctx, s.key(workspace)).Bytes()
	if err != nil {
		if err == backend.Nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrWorkspaceNotFound, workspace)
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return snapshot.Snapshot(val), nil
}

// Delete removes the workspace.
func (s *Store) Delete(ctx context.Context, workspace string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(workspace))
	pipe.ZRem(ctx, s.indexKey(), workspace)
	_, err := pipe.Exec(ctx)
	return err
}

// List returns stored workspace names, lazily pruning expired index
// entries first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired workspaces: %w", err)
	}

	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return names, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
