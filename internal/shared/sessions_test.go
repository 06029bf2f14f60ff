package shared_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/atrium-app/atrium/internal/shared"
)

func newRegistry(t *testing.T) (*shared.SessionRegistry, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return shared.NewSessionRegistry(client, time.Hour), mr
}

func TestSessionRegistryRoundTrip(t *testing.T) {
	registry, _ := newRegistry(t)
	ctx := context.Background()

	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := registry.Put(ctx, "tok-1", shared.SessionRecord{UserID: 42, IssuedAt: issued, IP: "10.0.0.1"})
	require.NoError(t, err)

	rec, err := registry.Get(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, int64(42), rec.UserID)
	require.True(t, rec.IssuedAt.Equal(issued))
	require.Equal(t, "10.0.0.1", rec.IP)
}

func TestSessionRegistryMissingIsExpired(t *testing.T) {
	registry, _ := newRegistry(t)

	_, err := registry.Get(context.Background(), "unknown")
	require.ErrorIs(t, err, shared.ErrSessionExpired)
}

func TestSessionRegistryExpiresWithTTL(t *testing.T) {
	registry, mr := newRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.Put(ctx, "tok-2", shared.SessionRecord{UserID: 1, IssuedAt: time.Now()}))
	mr.FastForward(2 * time.Hour)

	_, err := registry.Get(ctx, "tok-2")
	require.ErrorIs(t, err, shared.ErrSessionExpired)
}

func TestSessionRegistryRevokeIdempotent(t *testing.T) {
	registry, _ := newRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.Put(ctx, "tok-3", shared.SessionRecord{UserID: 7, IssuedAt: time.Now()}))
	require.NoError(t, registry.Revoke(ctx, "tok-3"))
	require.NoError(t, registry.Revoke(ctx, "tok-3"))

	_, err := registry.Get(ctx, "tok-3")
	require.ErrorIs(t, err, shared.ErrSessionExpired)
}
