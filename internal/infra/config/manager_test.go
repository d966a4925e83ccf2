package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/task-tracker/internal/domain"
)

func TestManager_GetRepoConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		dataDir := t.TempDir()
		configContent := "[log]\nlevel = \"debug\""
		err := os.WriteFile(filepath.Join(dataDir, domain.ConfigFileName), []byte(configContent), 0644)
		require.NoError(t, err)

		manager := NewManagerWithGlobalDir(dataDir, "")
		info := manager.GetRepoConfigInfo()

		assert.Equal(t, filepath.Join(dataDir, domain.ConfigFileName), info.Path)
		assert.Equal(t, configContent, info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns info when file does not exist", func(t *testing.T) {
		dataDir := t.TempDir()

		manager := NewManagerWithGlobalDir(dataDir, "")
		info := manager.GetRepoConfigInfo()

		assert.Equal(t, filepath.Join(dataDir, domain.ConfigFileName), info.Path)
		assert.Empty(t, info.Content)
		assert.False(t, info.Exists)
	})
}

func TestManager_GetGlobalConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		globalDir := t.TempDir()
		configContent := "[store]\nbackend = \"json\""
		err := os.WriteFile(filepath.Join(globalDir, domain.ConfigFileName), []byte(configContent), 0644)
		require.NoError(t, err)

		manager := NewManagerWithGlobalDir("", globalDir)
		info := manager.GetGlobalConfigInfo()

		assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), info.Path)
		assert.Equal(t, configContent, info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns empty info when global dir is empty", func(t *testing.T) {
		manager := NewManagerWithGlobalDir("", "")
		info := manager.GetGlobalConfigInfo()

		assert.Empty(t, info.Path)
		assert.Empty(t, info.Content)
		assert.False(t, info.Exists)
	})
}

func TestManager_InitRepoConfig(t *testing.T) {
	t.Run("creates config file and data directory", func(t *testing.T) {
		dataDir := filepath.Join(t.TempDir(), domain.DataDirName)

		manager := NewManagerWithGlobalDir(dataDir, "")
		err := manager.InitRepoConfig()

		require.NoError(t, err)

		content, err := os.ReadFile(filepath.Join(dataDir, domain.ConfigFileName))
		require.NoError(t, err)
		assert.Contains(t, string(content), "task-tracker configuration")
		assert.Contains(t, string(content), "[store]")
		assert.Contains(t, string(content), `path = "tasks.csv"`)
	})

	t.Run("template loads without warnings", func(t *testing.T) {
		dataDir := t.TempDir()
		require.NoError(t, NewManagerWithGlobalDir(dataDir, "").InitRepoConfig())

		cfg, err := NewLoaderWithGlobalDir(dataDir, t.TempDir()).Load()

		require.NoError(t, err)
		assert.Empty(t, cfg.Warnings)
		assert.Equal(t, domain.BackendCSV, cfg.Store.Backend)
	})

	t.Run("returns ErrConfigExists if file already exists", func(t *testing.T) {
		dataDir := t.TempDir()
		err := os.WriteFile(filepath.Join(dataDir, domain.ConfigFileName), []byte("existing"), 0644)
		require.NoError(t, err)

		manager := NewManagerWithGlobalDir(dataDir, "")
		err = manager.InitRepoConfig()

		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})
}

func TestManager_InitGlobalConfig(t *testing.T) {
	t.Run("creates config file and parent directory", func(t *testing.T) {
		globalDir := filepath.Join(t.TempDir(), domain.GlobalDirName) // This doesn't exist yet

		manager := NewManagerWithGlobalDir("", globalDir)
		err := manager.InitGlobalConfig()

		require.NoError(t, err)

		content, err := os.ReadFile(filepath.Join(globalDir, domain.ConfigFileName))
		require.NoError(t, err)
		assert.Contains(t, string(content), "task-tracker configuration")
	})

	t.Run("returns error if file already exists", func(t *testing.T) {
		globalDir := t.TempDir()
		err := os.WriteFile(filepath.Join(globalDir, domain.ConfigFileName), []byte("existing"), 0644)
		require.NoError(t, err)

		manager := NewManagerWithGlobalDir("", globalDir)
		err = manager.InitGlobalConfig()

		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})

	t.Run("returns error if global dir is empty", func(t *testing.T) {
		manager := NewManagerWithGlobalDir("", "")
		err := manager.InitGlobalConfig()

		assert.Error(t, err)
	})
}
