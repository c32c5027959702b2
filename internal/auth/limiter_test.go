package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alexa091904/semi-project/internal/auth"
	"github.com/alexa091904/semi-project/internal/testutil/testredis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiter(t *testing.T) {
	rc := testredis.SetupSharedRedis(t)
	defer rc.Cleanup(t)

	ctx := context.Background()

	t.Run("locks after five failures", func(t *testing.T) {
		limiter := auth.NewRedisLimiterWithClient(rc.Client(t))

		for i := 0; i < 4; i++ {
			require.NoError(t, limiter.RecordFailure(ctx, "10.0.0.1"))
			locked, err := limiter.LockedFor(ctx, "10.0.0.1")
			require.NoError(t, err)
			assert.Zero(t, locked)
		}

		require.NoError(t, limiter.RecordFailure(ctx, "10.0.0.1"))
		locked, err := limiter.LockedFor(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.Greater(t, locked, 14*time.Minute)

		other, err := limiter.LockedFor(ctx, "10.0.0.2")
		require.NoError(t, err)
		assert.Zero(t, other)
	})

	t.Run("reset clears the lock", func(t *testing.T) {
		limiter := auth.NewRedisLimiterWithClient(rc.Client(t))

		for i := 0; i < 5; i++ {
			require.NoError(t, limiter.RecordFailure(ctx, "10.0.0.3"))
		}
		require.NoError(t, limiter.Reset(ctx, "10.0.0.3"))

		locked, err := limiter.LockedFor(ctx, "10.0.0.3")
		require.NoError(t, err)
		assert.Zero(t, locked)
	})

	t.Run("connects from url", func(t *testing.T) {
		limiter, err := auth.NewRedisLimiter(ctx, rc.URL)
		require.NoError(t, err)
		defer limiter.Close()

		locked, err := limiter.LockedFor(ctx, "10.0.0.4")
		require.NoError(t, err)
		assert.Zero(t, locked)
	})
}
