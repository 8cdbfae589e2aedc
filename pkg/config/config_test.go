package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migmedia/zfs-snappers/pkg/config"
	"github.com/migmedia/zfs-snappers/pkg/errclass"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, 8, cfg.Snapshots.Keep)
	assert.Equal(t, "zfs-snappers", cfg.Snapshots.Prefix)
	assert.Equal(t, int64(0), cfg.Snapshots.MinSizeKiB)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
snapshots:
  keep: 24
  prefix: snap-{hostname}
  min_size_kib: 512
logging:
  level: debug
  format: text
lock_path: /run/zfs-snappers.lock
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.Snapshots.Keep)
	assert.Equal(t, "snap-{hostname}", cfg.Snapshots.Prefix)
	assert.Equal(t, int64(512), cfg.Snapshots.MinSizeKiB)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "/run/zfs-snappers.lock", cfg.LockPath)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "snapshots:\n  keep: 3\n")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Snapshots.Keep)
	assert.Equal(t, "zfs-snappers", cfg.Snapshots.Prefix)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, errclass.ErrConfigInvalid)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "snapshots: [")
	_, err := config.Load(path)
	assert.ErrorIs(t, err, errclass.ErrConfigInvalid)
}

func TestLoad_NegativeKeepRejected(t *testing.T) {
	path := writeConfig(t, "snapshots:\n  keep: -1\n")
	_, err := config.Load(path)
	assert.ErrorIs(t, err, errclass.ErrConfigInvalid)
}

func TestValidate_Format(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "xml"
	assert.ErrorIs(t, cfg.Validate(), errclass.ErrConfigInvalid)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.Default()
	cfg.Snapshots.Keep = 12
	require.NoError(t, config.Save(path, cfg))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, loaded.Snapshots.Keep)
}
