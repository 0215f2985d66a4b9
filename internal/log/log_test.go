package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetup_DefaultLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf, false, false)

	ctx := context.Background()
	handler := logger.Handler()
	assert.True(t, handler.Enabled(ctx, slog.LevelInfo))
	assert.True(t, handler.Enabled(ctx, slog.LevelWarn))
	assert.False(t, handler.Enabled(ctx, slog.LevelDebug))
}

func TestSetup_VerboseLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf, true, false)

	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

func TestSetup_QuietLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf, false, true)

	ctx := context.Background()
	assert.False(t, logger.Handler().Enabled(ctx, slog.LevelInfo))
	assert.True(t, logger.Handler().Enabled(ctx, slog.LevelWarn))
}

func TestSetup_WritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf, false, false)

	logger.Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "hello")
}
