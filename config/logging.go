package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. Interactive sessions log to
// <data_dir>/debug.log so output never corrupts the terminal UI; other
// commands log to stderr. Debug level is enabled by TASKCHAT_DEBUG.
func NewLogger(dataDir string, debug, toFile bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}

	if toFile {
		logPath := filepath.Join(dataDir, "debug.log")
		// Create with secure permissions (0600 - may contain conversation text)
		f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open debug log at %s: %w", logPath, err)
		}
		f.Close()
		cfg.OutputPaths = []string{logPath}
		cfg.ErrorOutputPaths = []string{logPath}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
