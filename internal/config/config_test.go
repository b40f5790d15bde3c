package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/axellelanca/shortlinks/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves the test into dir so LoadConfig resolves ./configs and .env there.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, config.DefaultStorageKey, cfg.Storage.Key)
	assert.Equal(t, 30, cfg.Links.DefaultValidityMinutes)
	assert.Equal(t, 6, cfg.Links.ShortcodeLength)
	assert.Equal(t, 5, cfg.Links.MaxBatchSize)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	yaml := []byte("server:\n  port: 9090\nstorage:\n  driver: memory\nlinks:\n  shortcode_length: 8\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "config.yaml"), yaml, 0o644))

	t.Setenv("LINKS_MAX_BATCH_SIZE", "3")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 8, cfg.Links.ShortcodeLength)
	assert.Equal(t, 3, cfg.Links.MaxBatchSize)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Cleanup(func() { _ = os.Unsetenv("STORAGE_KEY") })

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STORAGE_KEY=customSlot\n"), 0o644))

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "customSlot", cfg.Storage.Key)
}

func TestLoadConfig_InvalidDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE_DRIVER", "postgres")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	var cfg config.Config
	cfg.Server.Port = 8080
	cfg.Storage.Driver = "memory"
	cfg.Storage.Key = "shortUrls"
	cfg.Links.DefaultValidityMinutes = 30
	cfg.Links.ShortcodeLength = 6
	cfg.Links.MaxBatchSize = 5
	cfg.Monitor.IntervalMinutes = 1
	require.NoError(t, cfg.Validate())

	cfg.Storage.Key = ""
	assert.Error(t, cfg.Validate())

	cfg.Storage.Key = "shortUrls"
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
}
