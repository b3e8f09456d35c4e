// Package logging holds the swappable zap loggers of the emission packages.
package logging

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var nop = zap.NewNop()

// Logger is a package-level logger slot. The zero value logs nothing.
type Logger struct {
	l    atomic.Pointer[zap.Logger]
	name string
}

// New returns a slot whose installed loggers are named name.
func New(name string) *Logger {
	return &Logger{name: name}
}

// Get returns the installed logger, or a no-op logger.
func (s *Logger) Get() *zap.Logger {
	if l := s.l.Load(); l != nil {
		return l
	}
	return nop
}

// Set installs l. A nil l restores the no-op logger.
func (s *Logger) Set(l *zap.Logger) {
	if l != nil && s.name != "" {
		l = l.Named(s.name)
	}
	s.l.Store(l)
}
