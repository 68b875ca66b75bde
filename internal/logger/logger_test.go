package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogger_WithoutContextLogger(t *testing.T) {
	got := G(context.Background())
	assert.NotNil(t, got)
	assert.Equal(t, L.Logger, got.Logger)
}

func TestGetLogger_WithContextLogger(t *testing.T) {
	custom := logrus.NewEntry(logrus.New()).WithField("tool", "claude")
	ctx := WithLogger(context.Background(), custom)

	got := G(ctx)
	assert.Equal(t, "claude", got.Data["tool"])
}

func TestWithFields_Accumulates(t *testing.T) {
	ctx := WithFields(context.Background(), logrus.Fields{"tool": "claude"})
	ctx = WithFields(ctx, logrus.Fields{"variant": "pro"})

	got := G(ctx)
	assert.Equal(t, "claude", got.Data["tool"])
	assert.Equal(t, "pro", got.Data["variant"])
}

func TestSetLogLevel(t *testing.T) {
	prev := L.Logger.GetLevel()
	t.Cleanup(func() { L.Logger.SetLevel(prev) })

	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())

	assert.Error(t, SetLogLevel("loud"))
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	setLoggerFormat(l, "json")

	ctx := WithLogger(context.Background(), logrus.NewEntry(l))
	G(ctx).Info("backup created")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "backup created", entry["message"])
	assert.Equal(t, "info", entry["logLevel"])
	assert.Contains(t, entry, "timestamp")
}
