// Package logger provides the process-wide structured logger used by the
// pipeline stages to report progress and problems.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Level is the minimum level that gets written
type Level int

const (
	DEBUG Level = iota
	INFO
	ERROR
)

// Options configures the logger
type Options struct {
	Level string // "debug", "info" or "error"
	File  string // Optional log file, written in addition to stderr
}

var (
	log          = slog.New(slog.NewTextHandler(os.Stderr, nil))
	currentLevel = INFO
)

// Configure replaces the global logger according to opts.
// The logger stays usable even when an error is returned.
func Configure(opts Options) error {
	level := currentLevel
	var levelErr error
	if strings.TrimSpace(opts.Level) != "" {
		level, levelErr = ParseLevel(opts.Level)
	}

	writer := io.Writer(os.Stderr)
	var fileErr error
	if strings.TrimSpace(opts.File) != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			fileErr = err
		} else if file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			fileErr = err
		} else {
			writer = io.MultiWriter(os.Stderr, file)
		}
	}

	SetOutput(writer, level)
	return errors.Join(levelErr, fileErr)
}

// SetOutput points the logger at w with the given level
func SetOutput(w io.Writer, level Level) {
	currentLevel = level
	log = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel(level)}))
}

// ParseLevel parses a level name
func ParseLevel(value string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "error":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("invalid log level %q", value)
	}
}

func slogLevel(level Level) slog.Level {
	switch level {
	case DEBUG:
		return slog.LevelDebug
	case ERROR:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Debug(msg string, args ...any) {
	if currentLevel <= DEBUG {
		log.Debug(msg, args...)
	}
}

func Info(msg string, args ...any) {
	if currentLevel <= INFO {
		log.Info(msg, args...)
	}
}

// Warn is written at info level and above
func Warn(msg string, args ...any) {
	if currentLevel <= INFO {
		log.Warn(msg, args...)
	}
}

func Error(msg string, args ...any) {
	if currentLevel <= ERROR {
		log.Error(msg, args...)
	}
}
