package bolt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	t.Run("default interval matches the hourly ceiling", func(t *testing.T) {
		assert.Equal(t, 3600*time.Millisecond, DefaultInterval)
	})

	t.Run("first wait is immediate, second is held until cancelled", func(t *testing.T) {
		rl := NewRateLimiter(time.Hour)
		require.NoError(t, rl.Wait(context.Background()))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.Error(t, rl.Wait(ctx))
	})

	t.Run("zero interval disables pacing", func(t *testing.T) {
		rl := NewRateLimiter(0)
		for i := 0; i < 10; i++ {
			require.NoError(t, rl.Wait(context.Background()))
		}
	})
}
