// Package fatal reports unexpected failures to a host-installed crash handler
// without handling them.
//
// A Sink holds a single handler and the last reported error. Report records
// the error, invokes the handler synchronously and returns false, so an
// observation point can report and still let the failure propagate:
//
//	if err := emitBody(m); err != nil {
//	    sink.ReportUnlessCanceled(err)
//	    return err
//	}
//
// Classify is a pure predicate deciding whether an error is expected:
// cooperative cancellation (context.Canceled) and not-yet-implemented stubs
// (ErrNotImplemented). ReportUnlessCanceled and ReportUnlessNotImplemented
// skip the matching category entirely.
//
// Components receive a *Sink explicitly. Default returns the process-wide
// sink for true top-level entry points; its handler is write-once.
package fatal
