package memorystore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/storegate/auth-server/cache/memorystore"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := memorystore.New().WithNowFunc(func() time.Time { return now })

	t.Run("miss on unknown key", func(t *testing.T) {
		value, ok, err := store.Get(ctx, "missing")
		require.NoError(t, err)
		require.False(t, ok)
		require.Nil(t, value)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "key", []byte("value"), time.Minute))

		value, ok, err := store.Get(ctx, "key")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, []byte("value"), value)
	})

	t.Run("entry expires after ttl", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "expiring", []byte("value"), time.Minute))
		now = now.Add(time.Minute + time.Second)

		_, ok, err := store.Get(ctx, "expiring")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("set overwrites an existing entry", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "key", []byte("updated"), time.Minute))

		value, ok, err := store.Get(ctx, "key")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, []byte("updated"), value)
	})
}
