package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lixenwraith/vi-flight/config"
	"github.com/lixenwraith/vi-flight/logger"
)

const (
	logDir      = "logs"
	logFileName = "vi-flight.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging routes slog and the std logger to logs/vi-flight.log when debug is
// set, or to cfg.File when configured; otherwise output is discarded since the
// terminal owns stdout. The returned file is nil when discarding.
func setupLogging(debug bool, cfg config.LoggingConfig) (*slog.Logger, *os.File) {
	path := cfg.File
	level := cfg.Level
	if debug {
		path = filepath.Join(logDir, logFileName)
		level = "debug"
	}
	if path == "" {
		return discardLogging(level, cfg.Format), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "log directory: %v\n", err)
		return discardLogging(level, cfg.Format), nil
	}
	rotate(path)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file: %v\n", err)
		return discardLogging(level, cfg.Format), nil
	}

	log.SetOutput(f)
	lg := logger.New(logger.Config{Level: level, Format: cfg.Format, Output: f})
	slog.SetDefault(lg)
	return lg, f
}

func discardLogging(level, format string) *slog.Logger {
	log.SetOutput(io.Discard)
	lg := logger.New(logger.Config{Level: level, Format: format, Output: io.Discard})
	slog.SetDefault(lg)
	return lg
}

// rotate renames path aside with a timestamp once it exceeds maxLogSize
func rotate(path string) {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= maxLogSize {
		return
	}
	ext := filepath.Ext(path)
	base := path[:len(path)-len(ext)]
	rotated := fmt.Sprintf("%s-%s%s", base, time.Now().Format("20060102-150405"), ext)
	_ = os.Rename(path, rotated)
}
