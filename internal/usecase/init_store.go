package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/runoshun/task-tracker/internal/domain"
)

// logsIgnoreEntry is the .gitignore line that keeps log files out of git.
const logsIgnoreEntry = domain.DataDirName + "/logs/"

// InitStoreInput contains the input parameters for InitStore.
type InitStoreInput struct {
	DataDir string // Path to .tracker directory
	Root    string // Working directory that holds .tracker (optional)
}

// InitStoreOutput contains the output from InitStore.
// Fields are ordered to minimize memory padding.
type InitStoreOutput struct {
	DataDir            string // Path to the data directory
	ConfigPath         string // Path to the config file written (empty if it existed)
	AlreadyInitialized bool   // True if the store already existed
	GitignoreNeedsAdd  bool   // True if .tracker/logs/ should be added to .gitignore
}

// InitStore initializes the tracker data directory and store.
type InitStore struct {
	storeInit     domain.StoreInitializer
	configManager domain.ConfigManager
	logger        domain.Logger
}

// NewInitStore creates a new InitStore use case.
func NewInitStore(storeInit domain.StoreInitializer, configManager domain.ConfigManager, logger domain.Logger) *InitStore {
	return &InitStore{
		storeInit:     storeInit,
		configManager: configManager,
		logger:        logger,
	}
}

// Execute creates the data directory, a config template and an empty store.
// Running it again is harmless: existing files are kept.
func (uc *InitStore) Execute(_ context.Context, in InitStoreInput) (*InitStoreOutput, error) {
	alreadyInitialized := uc.storeInit.IsInitialized()

	if err := os.MkdirAll(filepath.Join(in.DataDir, "logs"), 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	out := &InitStoreOutput{
		DataDir:            in.DataDir,
		AlreadyInitialized: alreadyInitialized,
	}

	if uc.configManager != nil {
		err := uc.configManager.InitRepoConfig()
		switch {
		case err == nil:
			out.ConfigPath = uc.configManager.GetRepoConfigInfo().Path
		case errors.Is(err, domain.ErrConfigExists):
		default:
			return nil, fmt.Errorf("create config: %w", err)
		}
	}

	if !alreadyInitialized {
		if err := uc.storeInit.Initialize(); err != nil {
			return nil, fmt.Errorf("initialize store: %w", err)
		}
		if uc.logger != nil {
			uc.logger.Info(0, "store", "initialized: "+in.DataDir)
		}
	}

	if in.Root != "" {
		out.GitignoreNeedsAdd = !isLogsIgnored(in.Root)
	}

	return out, nil
}

// isLogsIgnored checks if the log directory is listed in .gitignore.
func isLogsIgnored(root string) bool {
	content, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(content), "\n") {
		switch strings.TrimSpace(line) {
		case logsIgnoreEntry, strings.TrimSuffix(logsIgnoreEntry, "/"), domain.DataDirName, domain.DataDirName + "/":
			return true
		}
	}
	return false
}
