package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestWithTenantID(t *testing.T) {
	base := zap.NewNop()
	ctx := context.Background()

	ctx, enriched := WithTenantID(ctx, base, "tenant-123")

	assert.Equal(t, "tenant-123", GetTenantID(ctx))
	assert.NotNil(t, enriched)
}

func TestGetTenantID_MissingReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", GetTenantID(context.Background()))
}

func TestWithRequestID(t *testing.T) {
	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-1")
	assert.Equal(t, "req-1", GetRequestID(ctx))
}

func TestWithUserID(t *testing.T) {
	ctx, _ := WithUserID(context.Background(), zap.NewNop(), "user-9")
	assert.Equal(t, "user-9", GetUserID(ctx))
}

func TestFromContext(t *testing.T) {
	t.Run("returns attached logger", func(t *testing.T) {
		base := zap.NewNop()
		ctx := WithContext(context.Background(), base)
		assert.Equal(t, base, FromContext(ctx))
	})

	t.Run("returns noop logger when not attached", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})
}

func TestContextLogger(t *testing.T) {
	ctx := WithContext(context.Background(), zap.NewNop())
	ctx, _ = WithTenantID(ctx, zap.NewNop(), "tenant-x")

	cl := L(ctx)
	assert.NotNil(t, cl)

	// Does not panic even without a span in context
	cl.Info("scoped message", zap.String("k", "v"))
	cl.With(zap.Int("n", 1)).Debug("child")
	assert.NotNil(t, cl.Zap())
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Equal(t, "", GetTraceID(context.Background()))
}

func TestNew(t *testing.T) {
	t.Run("creates logger with config", func(t *testing.T) {
		l, err := New(&Config{Level: "debug", Format: "json", Output: "stdout", TimeFormat: "2006-01-02"})
		assert.NoError(t, err)
		assert.NotNil(t, l)
	})

	t.Run("environment selection", func(t *testing.T) {
		prod, err := NewForEnvironment("production")
		assert.NoError(t, err)
		assert.NotNil(t, prod)

		dev, err := NewForEnvironment("development")
		assert.NoError(t, err)
		assert.NotNil(t, dev)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"unknown", "info"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.input).String(), "level %q", tt.input)
	}
}
