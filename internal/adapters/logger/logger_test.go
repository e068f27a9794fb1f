package logger_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetcache/internal/adapters/logger"
)

// captureStderr captures output written to os.Stderr during the execution of fn.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	originalStderr := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w
	defer func() { os.Stderr = originalStderr }()

	done := make(chan string, 1)
	go func() {
		buf, _ := io.ReadAll(r)
		done <- string(buf)
	}()

	fn()

	require.NoError(t, w.Close())
	output := <-done
	require.NoError(t, r.Close())
	return output
}

func TestLogger_Info(t *testing.T) {
	output := captureStderr(t, func() {
		// Create the logger inside the capture function so it uses the redirected stderr.
		lg := logger.New()
		lg.Info("entry stored", "key", "abc123")
	})

	assert.Contains(t, output, "entry stored")
	assert.Contains(t, output, "INFO")
	assert.Contains(t, output, "key=abc123")
}

func TestLogger_Error(t *testing.T) {
	output := captureStderr(t, func() {
		lg := logger.New()
		lg.Error(os.ErrPermission, "path", "/tmp/x")
	})

	assert.Contains(t, output, "permission denied")
	assert.Contains(t, output, "ERROR")
	assert.Contains(t, output, "path=/tmp/x")
}

func TestLogger_Warn(t *testing.T) {
	output := captureStderr(t, func() {
		lg := logger.New()
		lg.Warn("index unreadable")
	})

	assert.Contains(t, output, "index unreadable")
	assert.Contains(t, output, "WARN")
}

func TestLogger_SetOutputAndLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)

	lg.Debug("hidden")
	assert.NotContains(t, buf.String(), "hidden")

	lg.SetLevel("debug")
	lg.Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	lg.SetLevel("error")
	lg.Warn("suppressed")
	lg.Error(errors.New("boom"))
	assert.NotContains(t, buf.String(), "suppressed")
	assert.Contains(t, buf.String(), "boom")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logger.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("nonsense"))
}

func TestNewNop(t *testing.T) {
	lg := logger.NewNop()
	require.NotNil(t, lg)
	lg.Debug("x")
	lg.Info("x")
	lg.Warn("x")
	lg.Error(errors.New("x"))
}
