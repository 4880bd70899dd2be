package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/quicknotify/internal/observability/logger"
)

func TestLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core))

	Log(ctx, EventLogin, logger.Username("admin"))

	require.Equal(t, 1, logs.Len())
	e := logs.All()[0]
	require.Equal(t, EventLogin, e.Message)
	require.Equal(t, "audit", e.LoggerName)
	fields := e.ContextMap()
	require.Equal(t, EventLogin, fields["event"])
	require.Equal(t, "admin", fields["username"])
}
