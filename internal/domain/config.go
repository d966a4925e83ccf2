package domain

import (
	"fmt"
	"strings"
)

// Store backends.
const (
	BackendCSV  = "csv"  // Record stream file (default)
	BackendJSON = "json" // JSON snapshot file
	BackendGit  = "git"  // Record stream blob under a git ref
)

// AllBackends returns all supported store backends.
func AllBackends() []string {
	return []string{BackendCSV, BackendJSON, BackendGit}
}

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string      // Unknown keys and other non-fatal issues
	Store    StoreConfig   // [store] settings
	Log      LogConfig     // [log] settings
	Display  DisplayConfig // [display] settings
}

// StoreConfig holds persistence settings from the [store] section.
type StoreConfig struct {
	Backend   string // csv, json or git
	Path      string // Store file, relative to the data directory (csv, json)
	Namespace string // Ref namespace (git)
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string // Log level: debug, info, warn, error
}

// DisplayConfig holds output settings from the [display] section.
type DisplayConfig struct {
	TimeFormat string // Go layout used when printing times
}

// Defaults.
const (
	DefaultStorePath      = "tasks.csv"
	DefaultJSONStorePath  = "tasks.json"
	DefaultNamespace      = "tracker"
	DefaultLogLevel       = "info"
	DefaultTimeFormat     = "2006-01-02 15:04"
	DefaultRecordTimeForm = "2006-01-02T15:04:05"
)

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:   BackendCSV,
			Namespace: DefaultNamespace,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Display: DisplayConfig{
			TimeFormat: DefaultTimeFormat,
		},
	}
}

// Validate checks the configuration for unsupported values.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendCSV, BackendJSON, BackendGit:
	default:
		return fmt.Errorf("unsupported store backend %q (supported: %s)",
			c.Store.Backend, strings.Join(AllBackends(), ", "))
	}
	return nil
}

// StorePath returns the configured store file path, falling back to the
// backend's default file name.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	if c.Store.Backend == BackendJSON {
		return DefaultJSONStorePath
	}
	return DefaultStorePath
}

// RenderConfigTemplate returns the config file template with current values.
func RenderConfigTemplate(cfg *Config) string {
	var b strings.Builder
	b.WriteString("# task-tracker configuration\n\n")
	b.WriteString("[store]\n")
	b.WriteString("# Backend: " + strings.Join(AllBackends(), " | ") + "\n")
	fmt.Fprintf(&b, "backend = %q\n", cfg.Store.Backend)
	b.WriteString("# Store file, relative to the .tracker directory (csv, json)\n")
	fmt.Fprintf(&b, "path = %q\n", cfg.StorePath())
	b.WriteString("# Ref namespace (git)\n")
	fmt.Fprintf(&b, "namespace = %q\n\n", cfg.Store.Namespace)
	b.WriteString("[log]\n")
	b.WriteString("# Level: debug | info | warn | error\n")
	fmt.Fprintf(&b, "level = %q\n\n", cfg.Log.Level)
	b.WriteString("[display]\n")
	fmt.Fprintf(&b, "time_format = %q\n", cfg.Display.TimeFormat)
	return b.String()
}
