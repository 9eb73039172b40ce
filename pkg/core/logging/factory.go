// ============================================================================
// schedclients - Fleet Scheduler Client Library
// ============================================================================
//
// Package:     logging
// Description: Factory functions and process-wide logging defaults
// Created:     2026-03-02
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"sync/atomic"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format ("json" or "text", default: json)
	Format string

	// Output destination (default: stderr, so stdout stays free for command output)
	Output io.Writer

	// Additional outputs
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  "info",
		Format: "json",
	}
}

type settings struct {
	level     Level
	formatter Formatter
	output    *lockedWriter
}

var std atomic.Pointer[settings]

func init() {
	std.Store(&settings{
		level:     LevelInfo,
		formatter: NewJSONFormatter(),
		output:    &lockedWriter{w: os.Stderr},
	})
}

func defaults() *settings {
	return std.Load()
}

// Configure sets the process defaults used by every logger that does not
// override level, format or output. Loggers created earlier follow the change.
func Configure(cfg LoggerConfig) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	format, err := ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	std.Store(&settings{
		level:     level,
		formatter: GetFormatter(format),
		output:    &lockedWriter{w: output},
	})
	return nil
}

// New creates a named logger that follows the process defaults
func New(name string) *Logger {
	return &Logger{
		name:          name,
		contextFields: make(Fields),
	}
}

// NewLogger creates a named logger with its own fixed configuration
func NewLogger(name string, cfg LoggerConfig) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format, err := ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}

	return New(name).WithLevel(level).WithFormat(format).WithOutput(output), nil
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return New("discard").WithOutput(io.Discard).WithLevel(LevelError + 1)
}
