package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupFile_NoConfig(t *testing.T) {
	// Given: no config file
	path := filepath.Join(t.TempDir(), "config.yaml")

	// When: backing up
	backupPath, err := BackupFile(path)

	// Then: nothing happens
	require.NoError(t, err)
	assert.Empty(t, backupPath)
}

func TestBackupFile_CopiesContent(t *testing.T) {
	// Given: an existing config
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "profile_name: Minecraft\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// When: backing up
	backupPath, err := BackupFile(path)

	// Then: the backup holds the same bytes
	require.NoError(t, err)
	require.NotEmpty(t, backupPath)
	assert.True(t, strings.HasPrefix(filepath.Base(backupPath), "config.yaml.bak."))

	got, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestListBackups_NewestFirstAndPruned(t *testing.T) {
	// Given: more backups than MaxBackups
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	for i := 1; i <= MaxBackups+2; i++ {
		name := fmt.Sprintf("config.yaml.bak.20000101-00000%d.000", i)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("old"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644))

	// When: a new backup is taken
	newest, err := BackupFile(path)
	require.NoError(t, err)

	// Then: only MaxBackups remain, newest first
	backups, err := ListBackups(path)
	require.NoError(t, err)
	require.Len(t, backups, MaxBackups)
	assert.Equal(t, newest, backups[0])
	assert.Equal(t, filepath.Join(dir, "config.yaml.bak.20000101-000005.000"), backups[1])
}

func TestListBackups_MissingDir(t *testing.T) {
	backups, err := ListBackups(filepath.Join(t.TempDir(), "missing", "config.yaml"))

	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestBackupUserConfig_UsesUserPath(t *testing.T) {
	// Given: a user config under XDG_CONFIG_HOME
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	cfg := NewConfig()
	require.NoError(t, cfg.WriteYAML(GetUserConfigPath()))

	// When: backing up the user config
	backupPath, err := BackupUserConfig()

	// Then: the backup sits next to it
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "rtxswitch"), filepath.Dir(backupPath))
}
