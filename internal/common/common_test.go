package common

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserError(t *testing.T) {
	cause := errors.New("file not found")
	err := NewUserError("cannot read export", cause)

	assert.Equal(t, "cannot read export: file not found", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "cannot read export", NewUserError("cannot read export", nil).Error())
	assert.Equal(t, "cannot read export: file not found", UserMessage(err))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSetupLoggerTo(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	require.NoError(t, SetupLoggerTo(&buf, slog.LevelInfo, "json"))
	LogInfo("derived", Fields{"records": 3})
	slog.Debug("hidden")

	assert.Contains(t, buf.String(), `"msg":"derived"`)
	assert.Contains(t, buf.String(), `"records":3`)
	assert.NotContains(t, buf.String(), "hidden")

	buf.Reset()
	require.NoError(t, SetupLoggerTo(&buf, slog.LevelDebug, "console"))
	LogError(errors.New("boom"), "write failed", Fields{"path": "out.csv"})
	assert.Contains(t, buf.String(), "error=boom")
	assert.Contains(t, buf.String(), "path=out.csv")

	assert.ErrorIs(t, SetupLoggerTo(&buf, slog.LevelInfo, "xml"), ErrInvalidConfig)
}
