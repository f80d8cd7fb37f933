package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/cryptotax"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "none.yaml"), "")
	require.NoError(t, err)
	assert.Equal(t, "fifo", s.Method)
	assert.Equal(t, "USD", s.Currency)
	assert.Equal(t, cryptotax.DefaultLongTermDays, s.LongTermDays)
	assert.Empty(t, s.IgnoredAssets)
	assert.Equal(t, "warning", s.LogLevel)
}

func TestLoadSettings_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "cryptotax.yaml")
	require.NoError(t, os.WriteFile(config, []byte("method: hifo\ncurrency: eur\nignored_assets: [USDC, USDT]\n"), 0o644))
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte("CRYPTOTAX_LONG_TERM_DAYS=730\n"), 0o644))
	t.Setenv("CRYPTOTAX_METHOD", "lifo")
	t.Cleanup(func() { os.Unsetenv("CRYPTOTAX_LONG_TERM_DAYS") })

	s, err := LoadSettings(config, env)
	require.NoError(t, err)
	assert.Equal(t, "lifo", s.Method, "environment overrides the file")
	assert.Equal(t, "EUR", s.Currency)
	assert.Equal(t, 730, s.LongTermDays)
	assert.Equal(t, []string{"USDC", "USDT"}, s.IgnoredAssets)
}

func TestLoadSettings_InvalidFile(t *testing.T) {
	config := filepath.Join(t.TempDir(), "cryptotax.yaml")
	require.NoError(t, os.WriteFile(config, []byte("method: [unclosed\n"), 0o644))
	_, err := LoadSettings(config, "")
	assert.Error(t, err)
}

func TestSettings_EngineConfig(t *testing.T) {
	s := &Settings{Method: "lifo", Currency: "EUR", LongTermDays: 365, LogLevel: "info"}
	logger, err := s.NewLogger(true)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	cfg, err := s.EngineConfig("", logger)
	require.NoError(t, err)
	assert.Equal(t, cryptotax.LIFO, cfg.Method)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.NoError(t, cfg.Validate())

	cfg, err = s.EngineConfig("hifo", nil)
	require.NoError(t, err)
	assert.Equal(t, cryptotax.HIFO, cfg.Method)
	assert.NotNil(t, cfg.Logger)

	_, err = s.EngineConfig("average", nil)
	var usage *usageError
	assert.ErrorAs(t, err, &usage)
}
