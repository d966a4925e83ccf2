package domain

import (
	"fmt"
	"path/filepath"
)

// Directory and file names for task-tracker.
const (
	DataDirName       = ".tracker"      // Directory name for tracker data
	GlobalDirName     = "task-tracker"  // Directory name under XDG_CONFIG_HOME
	ConfigFileName    = "config.toml"   // Config file name
	GlobalLogFileName = "tracker.log"   // Log file name
	EnvFileName       = ".env"          // Optional environment overrides
	EnvPrefix         = "TRACKER_"      // Prefix for environment overrides
	logsDirName       = "logs"          // Log directory name
)

// DataDir returns the data directory for a working directory.
func DataDir(root string) string {
	return filepath.Join(root, DataDirName)
}

// RepoConfigPath returns the repository config path.
func RepoConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFileName)
}

// GlobalDir returns the global tracker directory path.
func GlobalDir(configHome string) string {
	return filepath.Join(configHome, GlobalDirName)
}

// GlobalLogPath returns the path to the log file.
func GlobalLogPath(dataDir string) string {
	return filepath.Join(dataDir, logsDirName, GlobalLogFileName)
}

// EntityLogPath returns the path to an entity's own log file.
func EntityLogPath(dataDir string, id int) string {
	return filepath.Join(dataDir, logsDirName, fmt.Sprintf("task-%d.log", id))
}

// ResolveStorePath resolves a store path relative to the data directory.
// Absolute paths are returned unchanged.
func ResolveStorePath(dataDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dataDir, path)
}
