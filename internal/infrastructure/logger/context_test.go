package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextAndFromContext(t *testing.T) {
	core, _ := observer.New(zap.InfoLevel)
	l := zap.New(core)

	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestFromContextReturnsNopWhenMissing(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	// must not panic
	l.Info("ignored")
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := zap.New(core)

	ctx, enriched := WithRequestID(context.Background(), l, "req-123")
	assert.Equal(t, "req-123", GetRequestID(ctx))

	enriched.Info("hello")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-123", logs.All()[0].ContextMap()["request_id"])
}

func TestWithSiteID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := zap.New(core)

	ctx, enriched := WithSiteID(context.Background(), l, 987654)
	assert.Equal(t, int64(987654), GetSiteID(ctx))

	enriched.Info("refreshing")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, int64(987654), logs.All()[0].ContextMap()["site_id"])
}

func TestL(t *testing.T) {
	t.Run("falls back to nop without logger", func(t *testing.T) {
		require.NotNil(t, L(context.Background()))
	})

	t.Run("enriches from context values", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		ctx := WithContext(context.Background(), zap.New(core))
		ctx = context.WithValue(ctx, RequestIDKey, "req-9")
		ctx = context.WithValue(ctx, SiteIDKey, int64(42))

		L(ctx).Info("msg")
		require.Equal(t, 1, logs.Len())
		fields := logs.All()[0].ContextMap()
		assert.Equal(t, "req-9", fields["request_id"])
		assert.Equal(t, int64(42), fields["site_id"])
	})
}
