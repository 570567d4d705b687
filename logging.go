package voxcollide

import (
	"fmt"
	"sync"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes through the process-wide logs entry point, tagging
// every entry with its component prefix. Debug output is gated per logger on
// top of the global level.
type DefaultLogger struct {
	mu     sync.Mutex
	debug  bool
	prefix string
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	if prefix == "" {
		prefix = "voxcollide"
	}
	return &DefaultLogger{
		debug:  debug,
		prefix: prefix,
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	logs.WithTag("component", l.prefix).Debug(fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	logs.WithTag("component", l.prefix).Info(fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	logs.WithTag("component", l.prefix).Warn(errors.Newf(format, args...))
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	logs.WithTag("component", l.prefix).Error(errors.Newf(format, args...))
}

type nopLogger struct{}

func NewNopLogger() Logger { return &nopLogger{} }
func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}
