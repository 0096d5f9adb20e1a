package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports/tests"
	"github.com/aretw0/arbor/pkg/snapshot"
)

func newTestStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redis.NewFromClient(client, opts...), mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newTestStore(t)
	tests.RunWorkspaceStoreContract(t, store)
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t, redis.WithTTL(time.Minute))

	snap := snapshot.Snapshot(`{"nodes":[]}`)
	require.NoError(t, store.Save(ctx, "ephemeral", snap))
	assert.Equal(t, time.Minute, mr.TTL("arbor:workspace:ephemeral"))

	got, err := store.Load(ctx, "ephemeral")
	require.NoError(t, err)
	assert.True(t, got.Equal(snap))

	mr.FastForward(2 * time.Minute)

	_, err = store.Load(ctx, "ephemeral")
	assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
}

func TestRedisStore_Prefix(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t, redis.WithPrefix("test:ws:"))

	require.NoError(t, store.Save(ctx, "main", snapshot.Snapshot(`{}`)))
	assert.True(t, mr.Exists("test:ws:main"))
	assert.False(t, mr.Exists("arbor:workspace:main"))
}
