package win32res

import (
	"go.uber.org/zap"

	"github.com/wippyai/pe-emit/internal/logging"
)

var log = logging.New("win32res")

// Logger returns the win32res package logger. It discards everything until
// SetLogger installs one.
func Logger() *zap.Logger { return log.Get() }

// SetLogger installs the win32res package logger. The logger is named "win32res".
func SetLogger(l *zap.Logger) { log.Set(l) }
