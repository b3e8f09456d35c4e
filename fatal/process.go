package fatal

import "go.uber.org/zap"

var process = NewSink()

// Default returns the process-wide sink used by top-level entry points.
func Default() *Sink {
	return process
}

// SetHandler installs the process-wide crash handler. It panics if one is
// already installed.
func SetHandler(h Handler) {
	process.SetHandler(h)
}

// OverwriteHandler replaces the process-wide crash handler.
func OverwriteHandler(h Handler) {
	process.OverwriteHandler(h)
}

// Report reports err to the process-wide sink and returns false.
func Report(err error) bool {
	return process.Report(err)
}

// ZapHandler returns a handler that logs each report at error level.
func ZapHandler(logger *zap.Logger) Handler {
	return func(err error) {
		logger.Error("fatal error reported",
			zap.Error(err),
			zap.Stringer("category", Classify(err)),
			zap.Stack("stack"))
	}
}
