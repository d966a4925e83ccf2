// Package logging provides file-based logging for task-tracker.
// It outputs logs to both a global log file (.tracker/logs/tracker.log)
// and entity-specific log files (.tracker/logs/task-N.log).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/task-tracker/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger writes formatted entries to log files under the data directory.
// Fields are ordered to minimize memory padding.
type Logger struct {
	now         func() time.Time
	globalFile  *os.File
	entityFiles map[int]*os.File
	dataDir     string
	mu          sync.Mutex
	level       slog.Level
}

// New creates a new Logger that writes to the tracker log directory.
// If dataDir is empty, logging is disabled.
func New(dataDir string, level slog.Level) *Logger {
	return &Logger{
		dataDir:     dataDir,
		level:       level,
		now:         time.Now,
		entityFiles: make(map[int]*os.File),
	}
}

// ParseLevel parses a log level string into slog.Level.
// Unknown values fall back to info.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) ensureLogsDir() error {
	return os.MkdirAll(filepath.Dir(domain.GlobalLogPath(l.dataDir)), 0o750)
}

// openFile opens a log file for appending. Callers hold l.mu.
func (l *Logger) openFile(path string) (*os.File, error) {
	if err := l.ensureLogsDir(); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func (l *Logger) globalWriter() (io.Writer, error) {
	if l.globalFile != nil {
		return l.globalFile, nil
	}
	f, err := l.openFile(domain.GlobalLogPath(l.dataDir))
	if err != nil {
		return nil, err
	}
	l.globalFile = f
	return f, nil
}

func (l *Logger) entityWriter(id int) (io.Writer, error) {
	if f, ok := l.entityFiles[id]; ok {
		return f, nil
	}
	f, err := l.openFile(domain.EntityLogPath(l.dataDir, id))
	if err != nil {
		return nil, err
	}
	l.entityFiles[id] = f
	return f, nil
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	if l.globalFile != nil {
		if err := l.globalFile.Close(); err != nil {
			lastErr = err
		}
		l.globalFile = nil
	}
	for id, f := range l.entityFiles {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.entityFiles, id)
	}
	return lastErr
}

// formatLog formats a log entry.
// Format: [2025-12-30 09:32:51] [INFO] [task-1] [category] message
func formatLog(t time.Time, level slog.Level, entityID int, category, msg string) string {
	scope := "global"
	if entityID > 0 {
		scope = fmt.Sprintf("task-%d", entityID)
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		scope,
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// log writes an entry to the global log and, when entityID > 0,
// to the entity's own log.
func (l *Logger) log(level slog.Level, entityID int, category, msg string) {
	if l.dataDir == "" || level < l.level {
		return
	}

	entry := formatLog(l.now(), level, entityID, category, msg)

	l.mu.Lock()
	defer l.mu.Unlock()

	if w, err := l.globalWriter(); err == nil {
		_, _ = io.WriteString(w, entry)
	}
	if entityID > 0 {
		if w, err := l.entityWriter(entityID); err == nil {
			_, _ = io.WriteString(w, entry)
		}
	}
}

// Info logs an info message.
func (l *Logger) Info(entityID int, category, msg string) {
	l.log(slog.LevelInfo, entityID, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(entityID int, category, msg string) {
	l.log(slog.LevelDebug, entityID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(entityID int, category, msg string) {
	l.log(slog.LevelWarn, entityID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(entityID int, category, msg string) {
	l.log(slog.LevelError, entityID, category, msg)
}
