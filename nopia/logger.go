package nopia

import (
	"go.uber.org/zap"

	"github.com/wippyai/pe-emit/internal/logging"
)

var log = logging.New("nopia")

// Logger returns the nopia package logger. It discards everything until
// SetLogger installs one.
func Logger() *zap.Logger { return log.Get() }

// SetLogger installs the nopia package logger. The logger is named "nopia".
func SetLogger(l *zap.Logger) { log.Set(l) }
