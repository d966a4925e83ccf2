package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/task-tracker/internal/domain"
)

// ConfigScope names which config file a use case acts on.
type ConfigScope int

const (
	ScopeRepo ConfigScope = iota
	ScopeGlobal
)

// String returns the scope name used in messages.
func (s ConfigScope) String() string {
	if s == ScopeGlobal {
		return "global"
	}
	return "repository"
}

// ShowConfigInput selects what ShowConfig reports.
type ShowConfigInput struct {
	Template bool // Also render the effective values as a config.toml
}

// ShowConfigOutput reports the merged config and where it came from.
type ShowConfigOutput struct {
	Effective    *domain.Config
	Template     string // Set only when requested
	GlobalConfig domain.ConfigInfo
	RepoConfig   domain.ConfigInfo
}

// ShowConfig reports the effective configuration and its source files.
type ShowConfig struct {
	configManager domain.ConfigManager
	configLoader  domain.ConfigLoader
}

// NewShowConfig creates a new ShowConfig use case.
func NewShowConfig(configManager domain.ConfigManager, configLoader domain.ConfigLoader) *ShowConfig {
	return &ShowConfig{
		configManager: configManager,
		configLoader:  configLoader,
	}
}

// Execute loads the merged config. With Template set, the output also
// carries the config file that would reproduce it.
func (uc *ShowConfig) Execute(_ context.Context, in ShowConfigInput) (*ShowConfigOutput, error) {
	effective, err := uc.configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if effective == nil {
		return nil, domain.ErrConfigNil
	}

	out := &ShowConfigOutput{
		Effective:    effective,
		GlobalConfig: uc.configManager.GetGlobalConfigInfo(),
		RepoConfig:   uc.configManager.GetRepoConfigInfo(),
	}
	if in.Template {
		out.Template = domain.RenderConfigTemplate(effective)
	}
	return out, nil
}

// InitConfigInput contains the input for the InitConfig use case.
type InitConfigInput struct {
	Scope ConfigScope
}

// InitConfigOutput describes the file that was written.
type InitConfigOutput struct {
	File  domain.ConfigInfo
	Scope ConfigScope
}

// InitConfig writes the default config template for one scope.
type InitConfig struct {
	configManager domain.ConfigManager
}

// NewInitConfig creates a new InitConfig use case.
func NewInitConfig(configManager domain.ConfigManager) *InitConfig {
	return &InitConfig{configManager: configManager}
}

// Execute writes the template unless the file is already there, in which
// case the error wraps domain.ErrConfigExists and names the path.
func (uc *InitConfig) Execute(_ context.Context, in InitConfigInput) (*InitConfigOutput, error) {
	info, write := uc.configManager.GetRepoConfigInfo, uc.configManager.InitRepoConfig
	if in.Scope == ScopeGlobal {
		info, write = uc.configManager.GetGlobalConfigInfo, uc.configManager.InitGlobalConfig
	}

	before := info()
	if before.Exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrConfigExists, before.Path)
	}
	if err := write(); err != nil {
		return nil, fmt.Errorf("init %s config: %w", in.Scope, err)
	}

	after := info()
	if after.Path == "" {
		after.Path = before.Path
	}
	return &InitConfigOutput{File: after, Scope: in.Scope}, nil
}
