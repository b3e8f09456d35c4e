package emit

import (
	"go.uber.org/zap"

	"github.com/wippyai/pe-emit/internal/logging"
)

var log = logging.New("emit")

// Logger returns the emit package logger. It discards everything until
// SetLogger installs one.
func Logger() *zap.Logger { return log.Get() }

// SetLogger installs the emit package logger. The logger is named "emit".
func SetLogger(l *zap.Logger) { log.Set(l) }
