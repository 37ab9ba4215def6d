package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applog "expensetracker/internal/log"
)

func TestSetupLoggerUsesLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	logger := SetupLogger(applog.ComponentHTTP)
	assert.Equal(t, applog.ComponentHTTP, logger.Component())
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestSetupLoggerFallsBackToInfo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")
	logger := SetupLogger(applog.ComponentApp)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
}

func TestLoadEnvFileReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GOOGLE_SHEET_NAME=FromDotEnv\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("GOOGLE_SHEET_NAME", "")
	require.NoError(t, os.Unsetenv("GOOGLE_SHEET_NAME"))
	LoadEnvFile()
	assert.Equal(t, "FromDotEnv", os.Getenv("GOOGLE_SHEET_NAME"))
}

func TestInitSQLite(t *testing.T) {
	logger := SetupLogger(applog.ComponentStorage)
	repo := InitSQLite(logger, filepath.Join(t.TempDir(), "nested", "expenses.db"))
	defer repo.Close()
	assert.NoError(t, repo.Ping(context.Background()))
}
