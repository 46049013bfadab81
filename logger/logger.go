package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

var (
	mu       sync.Mutex
	instance *Logger
)

// Logger writes leveled lines to a file. The terminal belongs to the
// front-end, so nothing is ever written to stdout or stderr.
type Logger struct {
	out   *log.Logger
	file  *os.File
	debug bool
	mu    sync.Mutex
}

// Init opens (or creates) path for appending and installs the package
// logger. Calling Init again replaces the previous logger.
func Init(path string, debug bool) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	l := &Logger{
		out:   log.New(f, "", log.LstdFlags|log.Lmicroseconds),
		file:  f,
		debug: debug,
	}

	mu.Lock()
	old := instance
	instance = l
	mu.Unlock()
	if old != nil {
		old.close()
	}
	return nil
}

// SetOutput installs a logger writing to w (useful for testing).
func SetOutput(w io.Writer, debug bool) {
	mu.Lock()
	defer mu.Unlock()
	if instance != nil {
		instance.close()
	}
	instance = &Logger{out: log.New(w, "", 0), debug: debug}
}

// Debug logs a debug message; dropped unless debug was enabled.
func Debug(format string, args ...any) {
	if l := current(); l != nil && l.debug {
		l.log("DEBUG", format, args...)
	}
}

// Info logs an info message
func Info(format string, args ...any) {
	if l := current(); l != nil {
		l.log("INFO", format, args...)
	}
}

// Error logs an error message
func Error(format string, args ...any) {
	if l := current(); l != nil {
		l.log("ERROR", format, args...)
	}
}

// Close closes the log file and disables logging.
func Close() error {
	mu.Lock()
	l := instance
	instance = nil
	mu.Unlock()
	if l == nil {
		return nil
	}
	return l.close()
}

func current() *Logger {
	mu.Lock()
	defer mu.Unlock()
	return instance
}

func (l *Logger) log(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.out.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

func (l *Logger) close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
