package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"lifelink.org/internal/obs"
	"lifelink.org/internal/session"
)

func TestLogEvent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	defer obs.SetLogger(zap.New(core))()

	h := session.NewHolder("01HSESSION")
	require.NoError(t, h.Login(session.RoleHospital))

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = session.ContextWithHolder(ctx, h)

	require.NoError(t, LogEvent(ctx, EventAction, zap.String("action", "run-matching")))
	require.Equal(t, 1, logs.Len())

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "audit", fields["type"])
	assert.Equal(t, EventAction, fields["event"])
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "01HSESSION", fields["session_id"])
	assert.Equal(t, "hospital", fields["role"])
	assert.Equal(t, "run-matching", fields["action"])
}

func TestLogEventWithoutContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	defer obs.SetLogger(zap.New(core))()

	require.NoError(t, LogEvent(context.Background(), EventLogout))
	fields := logs.All()[0].ContextMap()
	assert.NotContains(t, fields, "request_id")
	assert.NotContains(t, fields, "session_id")

	require.Error(t, LogEvent(context.Background(), "  "))
}
