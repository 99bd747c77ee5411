package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dm/sysmap-go/internal/config"
	"github.com/dm/sysmap-go/internal/state"
)

// logFilePath returns where the TUI writes its log; the terminal belongs to
// the UI while it runs.
func logFilePath(cfg config.LogConfig) string {
	if cfg.File != "" {
		return cfg.File
	}
	return filepath.Join(state.Dir(), "sysmap.log")
}

// parseLevel accepts debug, info, warn and error in any case.
func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return lvl, nil
}

func newLogger(w io.Writer, lvl slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// openLogger appends to the file at path. The returned func closes it.
func openLogger(cfg config.LogConfig, path string) (*slog.Logger, func(), error) {
	lvl, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return newLogger(f, lvl), func() { f.Close() }, nil
}

// stderrLogger is used by the one-shot commands, which own the terminal.
// Without an explicit level only warnings get through.
func stderrLogger(cfg config.LogConfig, explicit bool) (*slog.Logger, error) {
	if !explicit {
		return newLogger(os.Stderr, slog.LevelWarn), nil
	}
	lvl, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return newLogger(os.Stderr, lvl), nil
}
