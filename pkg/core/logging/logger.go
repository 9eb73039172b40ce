// File: logger.go
// Title: Core Logger Implementation
// Description: Named structured logger with key/value call sites. Loggers
//              that do not override level, format or output follow the
//              process defaults set by Configure.
// Version: v0.1.0
// Created: 2026-03-02
// Modified: 2026-03-02
//
// Change History:
// - 2026-03-02 v0.1.0: Initial implementation with structured logging

package logging

import (
	"io"
	"sync"
)

// Logger represents a structured logger with contextual information
type Logger struct {
	name string

	// nil means "inherit from the process defaults"
	level     *Level
	formatter Formatter
	output    *lockedWriter

	contextFields Fields

	mutex sync.RWMutex
}

// lockedWriter serializes writes of whole entries to one destination
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.name
}

// WithName returns a copy of the logger with a different name
func (l *Logger) WithName(name string) *Logger {
	clone := l.clone()
	clone.name = name
	return clone
}

// WithLevel returns a copy of the logger with a fixed minimum level
func (l *Logger) WithLevel(level Level) *Logger {
	clone := l.clone()
	clone.level = &level
	return clone
}

// WithFormat returns a copy of the logger with a fixed format
func (l *Logger) WithFormat(format Format) *Logger {
	clone := l.clone()
	clone.formatter = GetFormatter(format)
	return clone
}

// WithOutput returns a copy of the logger writing to output
func (l *Logger) WithOutput(output io.Writer) *Logger {
	clone := l.clone()
	clone.output = &lockedWriter{w: output}
	return clone
}

// With returns a copy of the logger that adds the given key/value pairs to
// every entry
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	clone := l.clone()
	for k, v := range toFields(keysAndValues...) {
		clone.contextFields[k] = v
	}
	return clone
}

// Trace logs a trace level message
func (l *Logger) Trace(msg string, keysAndValues ...interface{}) {
	l.log(LevelTrace, msg, keysAndValues)
}

// Debug logs a debug level message
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.log(LevelDebug, msg, keysAndValues)
}

// Info logs an info level message
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.log(LevelInfo, msg, keysAndValues)
}

// Warn logs a warning level message
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.log(LevelWarn, msg, keysAndValues)
}

// Error logs an error level message
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.log(LevelError, msg, keysAndValues)
}

// IsLevelEnabled returns true if the given level is enabled
func (l *Logger) IsLevelEnabled(level Level) bool {
	return level.ShouldLog(l.effectiveLevel())
}

func (l *Logger) effectiveLevel() Level {
	l.mutex.RLock()
	level := l.level
	l.mutex.RUnlock()

	if level != nil {
		return *level
	}
	return defaults().level
}

// log is the internal logging method
func (l *Logger) log(level Level, msg string, keysAndValues []interface{}) {
	if l == nil {
		return
	}

	l.mutex.RLock()
	minLevel := l.level
	formatter := l.formatter
	output := l.output
	entry := NewEntry(level, msg)
	entry.Logger = l.name
	for k, v := range l.contextFields {
		entry.Fields[k] = v
	}
	l.mutex.RUnlock()

	std := defaults()
	if minLevel == nil {
		minLevel = &std.level
	}
	if !level.ShouldLog(*minLevel) {
		return
	}
	if formatter == nil {
		formatter = std.formatter
	}
	if output == nil {
		output = std.output
	}

	for k, v := range toFields(keysAndValues...) {
		entry.Fields[k] = v
	}

	if formatted, err := formatter.Format(entry); err == nil {
		output.Write(formatted)
	}
}

// clone creates a copy of the logger for immutable operations
func (l *Logger) clone() *Logger {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return &Logger{
		name:          l.name,
		level:         l.level,
		formatter:     l.formatter,
		output:        l.output,
		contextFields: l.contextFields.Clone(),
	}
}
