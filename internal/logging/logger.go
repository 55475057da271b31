// Package logging provides the leveled, optionally colored logger used by
// every command, plus the status-sink levels jobs report through.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/backmassage/themis/internal/config"
	"github.com/backmassage/themis/internal/term"
)

// Level is a status-sink severity.
type Level string

const (
	LevelDebug    Level = "debug"
	LevelInfo     Level = "info"
	LevelWarning  Level = "warning"
	LevelError    Level = "error"
	LevelGoodNews Level = "good_news"
)

// ParseLevel maps a status level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch l := Level(s); l {
	case LevelDebug, LevelInfo, LevelWarning, LevelError, LevelGoodNews:
		return l, nil
	}
	return "", fmt.Errorf("unknown status level %q", s)
}

// sink is the state shared by a Logger and every logger derived with With.
type sink struct {
	mu       sync.Mutex
	out      io.Writer
	errOut   io.Writer
	file     *os.File
	filePath string
	verbose  bool
	now      func() time.Time
}

// Logger provides leveled, optionally colored logging with optional file sink.
// A Logger with a prefix prints "<prefix>: " before every message.
type Logger struct {
	s      *sink
	prefix string
}

// NewLogger initializes colors from cfg and optionally opens logFile. Call Close() when done if LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)
	l := New(os.Stdout, os.Stderr, cfg.Verbose)

	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		l.s.file = f
		l.s.filePath = cfg.LogFile
	}
	return l, nil
}

// New returns a Logger writing to out (and errOut for errors) without a file
// sink. Colors follow the current term state.
func New(out, errOut io.Writer, verbose bool) *Logger {
	return &Logger{s: &sink{out: out, errOut: errOut, verbose: verbose, now: time.Now}}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, io.Discard, false)
}

// With returns a logger that prefixes every message with prefix. Output,
// file sink and verbosity are shared with l.
func (l *Logger) With(prefix string) *Logger {
	return &Logger{s: l.s, prefix: prefix}
}

// Verbose reports whether debug lines are printed.
func (l *Logger) Verbose() bool { return l.s.verbose }

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if l.s.file != nil {
		err := l.s.file.Close()
		l.s.file = nil
		return err
	}
	return nil
}

func (l *Logger) line(level, color, text string) {
	if l.prefix != "" {
		text = l.prefix + ": " + text
	}
	ts := l.s.now().Format("2006-01-02 15:04:05")
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	plain := ts + " [" + level + "] " + text + "\n"
	out := l.s.out
	if level == "ERROR" {
		out = l.s.errOut
	}
	if color != "" {
		_, _ = io.WriteString(out, ts+" "+color+"["+level+"]"+term.NC+" "+text+"\n")
	} else {
		_, _ = io.WriteString(out, plain)
	}
	if l.s.file != nil {
		_, _ = io.WriteString(l.s.file, plain)
	}
}

// SetStatus is the status sink: it routes msg to the method for level.
// Unknown levels are logged as info.
func (l *Logger) SetStatus(msg string, level Level) {
	switch level {
	case LevelDebug:
		l.Debug("%s", msg)
	case LevelWarning:
		l.Warn("%s", msg)
	case LevelError:
		l.Error("%s", msg)
	case LevelGoodNews:
		l.Success("%s", msg)
	default:
		l.Info("%s", msg)
	}
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", term.Blue, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.line("SUCCESS", term.Green, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARN", term.Yellow, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red), to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", term.Red, fmt.Sprintf(format, args...))
}

// Progress logs at PROGRESS level (magenta).
func (l *Logger) Progress(format string, args ...interface{}) {
	l.line("PROGRESS", term.Magenta, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when verbose; no-op otherwise.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.s.verbose {
		return
	}
	l.line("DEBUG", term.Cyan, fmt.Sprintf(format, args...))
}
