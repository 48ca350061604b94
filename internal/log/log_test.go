package log_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/leighmacdonald/ctbans/internal/log"
	"github.com/stretchr/testify/require"
)

func TestLoggerAttachesRelease(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ctbans.log")

	closer := log.MustCreateLogger(t.Context(), log.Config{Level: log.Debug, File: logPath}, false, "v1.2.3")
	slog.Info("service started")
	closer()

	content, errRead := os.ReadFile(logPath)
	require.NoError(t, errRead)
	require.Contains(t, string(content), "service started")

	// Every line carries the release attribute.
	require.Contains(t, string(content), "v1.2.3")
}
