package joblock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_ExclusiveUntilReleased(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	locker := NewLocalLocker()

	release, ok, err := locker.TryLock(ctx, "job:sync-players", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = locker.TryLock(ctx, "job:sync-players", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second caller must not acquire a held lock")

	_, ok, err = locker.TryLock(ctx, "job:rank-managers", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "different keys are independent")

	require.NoError(t, release(ctx))

	_, ok, err = locker.TryLock(ctx, "job:sync-players", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalLocker_ExpiredLeaseIsReplaced(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	locker := NewLocalLocker()
	locker.now = func() time.Time { return now }

	staleRelease, ok, err := locker.TryLock(ctx, "job:sync-players", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	freshRelease, ok, err := locker.TryLock(ctx, "job:sync-players", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	// The stale holder must not drop the fresh lease.
	require.NoError(t, staleRelease(ctx))
	_, ok, err = locker.TryLock(ctx, "job:sync-players", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, freshRelease(ctx))
	_, ok, err = locker.TryLock(ctx, "job:sync-players", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
