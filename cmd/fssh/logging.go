package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pkt.systems/pslog"

	"github.com/floegence/fssh/internal/appconfig"
)

// withFileLogger binds a logger writing to cfg.File to ctx. The session owns
// the terminal, so nothing may be logged to stdout or stderr while it runs.
func withFileLogger(ctx context.Context, cfg appconfig.LoggingConfig) (context.Context, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
		return ctx, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return ctx, nil, fmt.Errorf("open log file: %w", err)
	}

	opts := pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: pslog.InfoLevel,
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Level)) {
	case "debug":
		opts.MinLevel = pslog.DebugLevel
	case "warn", "warning":
		opts.MinLevel = pslog.WarnLevel
	case "error":
		opts.MinLevel = pslog.ErrorLevel
	}

	logger := pslog.NewWithOptions(f, opts)
	return pslog.ContextWithLogger(ctx, logger), func() { _ = f.Close() }, nil
}
