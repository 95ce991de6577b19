// Package logging provides component loggers that write formatted entries to
// a per-run log file or to stderr.
//
// Loggers are usually created once per package:
//
//	var log = logging.NewLogger("agent")
//
// and the process configures the destination at startup:
//
//	logging.Configure(logging.Options{Dir: "-", Level: "info"})
//
// Every entry passes through the configured secret redactor before it is
// written.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mpulaparthi/web-agent/pkg/security"
)

// StderrDir is the Dir value that sends log output to stderr.
const StderrDir = "-"

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// ParseLevel converts a level name to a Level. Unknown names map to info.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Options configures process-wide logging.
type Options struct {
	// Dir is the log directory. Empty means ~/.web-agent/logs; StderrDir
	// writes to stderr.
	Dir string

	// Level is the minimum level written ("debug", "info", "warn", "error").
	Level string

	// Secrets are masked in every entry.
	Secrets []string
}

// Logger writes entries tagged with a component name.
type Logger struct {
	component string
}

// sink is the shared destination for all loggers.
type sink struct {
	mu       sync.Mutex
	dir      string
	level    Level
	redactor *security.Redactor
	out      *log.Logger
	file     *os.File
	path     string
}

var (
	// Global run ID for the current process
	runID     string
	runIDOnce sync.Once

	shared = &sink{level: LevelInfo}
)

// getRunID returns or creates the run ID for this process
func getRunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

// Configure sets the destination, level, and redacted secrets. It may be
// called more than once; an open log file is closed and reopened.
func Configure(opts Options) error {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	shared.closeLocked()
	shared.dir = opts.Dir
	shared.level = ParseLevel(opts.Level)
	shared.redactor = security.NewRedactor(opts.Secrets...)
	return shared.openLocked()
}

// SetOutput redirects all loggers to w. It is intended for tests.
func SetOutput(w io.Writer) {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	shared.closeLocked()
	shared.out = log.New(w, "", 0)
	shared.path = ""
}

// Close closes the log file, if any. Later entries reopen the destination.
func Close() error {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	return shared.closeLocked()
}

// LogPath returns the path of the current log file, or "" for stderr.
func LogPath() string {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	return shared.path
}

// GetRunID returns the current global run ID
func GetRunID() string {
	return getRunID()
}

// NewLogger creates a logger for a specific component.
func NewLogger(component string) *Logger {
	return &Logger{component: component}
}

// openLocked resolves the destination. On failure it falls back to stderr
// and returns the error so callers can report fallback mode.
func (s *sink) openLocked() error {
	if s.out != nil {
		return nil
	}

	if s.dir == StderrDir {
		s.out = log.New(os.Stderr, "", 0)
		return nil
	}

	dir := s.dir
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			s.out = log.New(os.Stderr, "", 0)
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".web-agent", "logs")
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		s.out = log.New(os.Stderr, "", 0)
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-web-agent.log", getRunID()))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		s.out = log.New(os.Stderr, "", 0)
		return fmt.Errorf("failed to open log file: %w", err)
	}

	s.file = file
	s.path = path
	s.out = log.New(file, "", 0)
	return nil
}

func (s *sink) closeLocked() error {
	var err error
	if s.file != nil {
		err = s.file.Close()
		s.file = nil
	}
	s.out = nil
	s.path = ""
	return err
}

func (s *sink) write(component string, level Level, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if level < s.level {
		return
	}
	if s.out == nil {
		_ = s.openLocked()
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	entry := fmt.Sprintf("[%s] [%s] [%s] %s", timestamp, component, level, s.redactor.Redact(message))
	s.out.Println(entry)
}

// Printf logs a formatted message at info level
func (l *Logger) Printf(format string, v ...interface{}) {
	shared.write(l.component, LevelInfo, fmt.Sprintf(format, v...))
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) {
	shared.write(l.component, LevelDebug, fmt.Sprintf(format, v...))
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) {
	shared.write(l.component, LevelInfo, fmt.Sprintf(format, v...))
}

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) {
	shared.write(l.component, LevelWarn, fmt.Sprintf(format, v...))
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) {
	shared.write(l.component, LevelError, fmt.Sprintf(format, v...))
}

// Component returns the component name
func (l *Logger) Component() string {
	return l.component
}
