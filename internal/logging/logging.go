// Package logging builds the zap logger used across the client. The terminal
// belongs to the TUI, so logs go to a file or nowhere.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects where and how much to log.
type Config struct {
	// File is the log destination. Empty disables logging.
	File string
	// Level is a zap level name: debug, info, warn, error.
	Level string
	// Development switches to the human readable console encoder.
	Development bool
}

// New builds a sugared logger from cfg. Values that look like credentials
// are redacted before they reach the encoder.
func New(cfg Config) (*zap.SugaredLogger, error) {
	if strings.TrimSpace(cfg.File) == "" {
		return Nop(), nil
	}

	var zcfg zap.Config
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	if cfg.Level != "" {
		lvl, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
		zcfg.Level = lvl
	}
	zcfg.OutputPaths = []string{cfg.File}
	zcfg.ErrorOutputPaths = []string{cfg.File}

	l, err := zcfg.Build(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return redactingCore{Core: c}
	}))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l.Sugar(), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return Nop()
	}
	return l
}
