// Package logger builds the process logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	global  zerolog.Logger
	defined bool
)

// GetLogger returns the logger installed by the last New or NewWriter call,
// or an info-level console logger on stdout when none was installed.
func GetLogger() zerolog.Logger {
	mu.RLock()
	if defined {
		defer mu.RUnlock()
		return global
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if !defined {
		global = build(os.Stdout, true).Level(zerolog.InfoLevel)
		defined = true
	}
	return global
}

// New builds a logger on stdout. format is "json" or "console".
func New(level, format string) (zerolog.Logger, error) {
	return NewWriter(os.Stdout, level, format)
}

// NewWriter builds a logger on w and installs it as the global logger.
func NewWriter(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Logger{}, err
	}

	var console bool
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
	case "console", "":
		console = true
	default:
		return zerolog.Logger{}, fmt.Errorf("unsupported log format %q", format)
	}

	zerolog.SetGlobalLevel(lvl)
	l := build(w, console).Level(lvl)

	mu.Lock()
	global = l
	defined = true
	mu.Unlock()
	return l, nil
}

func build(w io.Writer, console bool) zerolog.Logger {
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}
