package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemorySyncGuard(t *testing.T) {
	guard := NewInMemorySyncGuard()
	ctx := context.Background()

	t.Run("acquire and release", func(t *testing.T) {
		acquired, err := guard.TryLock(ctx, 7, time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)

		acquired, err = guard.TryLock(ctx, 7, time.Minute)
		require.NoError(t, err)
		assert.False(t, acquired)

		require.NoError(t, guard.Unlock(ctx, 7))
		acquired, err = guard.TryLock(ctx, 7, time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("sites lock independently", func(t *testing.T) {
		acquired, err := guard.TryLock(ctx, 8, time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("expired lock can be retaken", func(t *testing.T) {
		acquired, err := guard.TryLock(ctx, 9, -time.Second)
		require.NoError(t, err)
		assert.True(t, acquired)

		acquired, err = guard.TryLock(ctx, 9, time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)
	})
}
