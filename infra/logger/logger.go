package logger

import corelogger "fieldroute/core/logger"

// Logger re-exports the core logging interface so infra packages and
// wiring code need a single import.
type Logger = corelogger.Logger

// NopLogger discards everything. Used when a component runs without
// observability, and in tests.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

// New returns the default logger implementation for a component.
func New(component string) Logger {
	return NewZerologLogger(component)
}
