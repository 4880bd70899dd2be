package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/quicknotify/internal/cache"
)

func TestWindowLimiter(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 10, 0, time.UTC)
	l := NewWindowLimiter(cache.NewMemory("", time.Hour), "login:", 2, time.Minute)
	l.Now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := l.Allow(ctx, "admin|127.0.0.1")
		require.NoError(t, err)
		require.True(t, res.Allowed)
	}
	res, err := l.Allow(ctx, "admin|127.0.0.1")
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.Zero(t, res.Remaining)
	require.Equal(t, 50*time.Second, res.RetryAfter)

	// otra clave no comparte contador
	res, err = l.Allow(ctx, "otro|127.0.0.1")
	require.NoError(t, err)
	require.True(t, res.Allowed)

	// ventana siguiente
	now = now.Add(time.Minute)
	res, err = l.Allow(ctx, "admin|127.0.0.1")
	require.NoError(t, err)
	require.True(t, res.Allowed)
	require.Equal(t, int64(1), res.CurrentHits)
}
