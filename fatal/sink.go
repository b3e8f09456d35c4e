package fatal

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync/atomic"

	"github.com/wippyai/pe-emit/errors"
)

// ErrNotImplemented marks a not-yet-implemented code path.
var ErrNotImplemented = stderrors.New("not implemented")

// Category classifies a reported error.
type Category int

const (
	CategoryOther Category = iota
	CategoryCanceled
	CategoryNotImplemented
)

func (c Category) String() string {
	switch c {
	case CategoryCanceled:
		return "canceled"
	case CategoryNotImplemented:
		return "not_implemented"
	default:
		return "other"
	}
}

// Classify returns the category of err.
func Classify(err error) Category {
	switch {
	case stderrors.Is(err, context.Canceled):
		return CategoryCanceled
	case stderrors.Is(err, ErrNotImplemented):
		return CategoryNotImplemented
	default:
		return CategoryOther
	}
}

// Handler is a host crash policy. It may log, file a report or terminate the
// process.
type Handler func(err error)

type lastReport struct {
	err     error
	message string
}

// Sink routes reported errors to a handler. Slots are updated atomically with
// last-write-wins semantics. The zero value is ready to use.
type Sink struct {
	handler atomic.Pointer[Handler]
	last    atomic.Pointer[lastReport]
}

// NewSink creates a sink with no handler installed.
func NewSink() *Sink {
	return &Sink{}
}

// Handler returns the installed handler, or nil.
func (s *Sink) Handler() Handler {
	if h := s.handler.Load(); h != nil {
		return *h
	}
	return nil
}

// SetHandler installs h. A host registers exactly one crash policy: installing
// a handler when one is already present panics. Use OverwriteHandler in tests.
func (s *Sink) SetHandler(h Handler) {
	if h == nil {
		return
	}
	if !s.handler.CompareAndSwap(nil, &h) {
		panic(errors.Violation(errors.PhaseFatal, "fatal error handler already set"))
	}
}

// OverwriteHandler replaces the handler unconditionally. A nil h removes it.
func (s *Sink) OverwriteHandler(h Handler) {
	if h == nil {
		s.handler.Store(nil)
		return
	}
	s.handler.Store(&h)
}

// Report records err as the last reported error and passes it to the
// handler. It always returns false: the caller keeps propagating err.
func (s *Sink) Report(err error) bool {
	s.last.Store(&lastReport{err: err, message: describe(err)})

	if h := s.Handler(); h != nil {
		h(err)
	}
	return false
}

// ReportUnlessCanceled reports err unless it is a cancellation. It always
// returns false.
func (s *Sink) ReportUnlessCanceled(err error) bool {
	if Classify(err) == CategoryCanceled {
		return false
	}
	return s.Report(err)
}

// ReportUnlessNotImplemented reports err unless it marks an unimplemented
// stub. It always returns false.
func (s *Sink) ReportUnlessNotImplemented(err error) bool {
	if Classify(err) == CategoryNotImplemented {
		return false
	}
	return s.Report(err)
}

// LastReported returns the most recently reported error.
func (s *Sink) LastReported() error {
	if r := s.last.Load(); r != nil {
		return r.err
	}
	return nil
}

// LastReportedMessage returns the message of the most recently reported
// error, captured at report time.
func (s *Sink) LastReportedMessage() string {
	if r := s.last.Load(); r != nil {
		return r.message
	}
	return ""
}

// Observe runs fn as an observation point. A returned error is reported
// unless it is a cancellation, then returned. A panic is reported the same
// way and re-raised with its original value.
func (s *Sink) Observe(fn func() error) error {
	defer func() {
		if r := recover(); r != nil {
			s.ReportUnlessCanceled(panicError(r))
			panic(r)
		}
	}()

	err := fn()
	if err != nil {
		s.ReportUnlessCanceled(err)
	}
	return err
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}

func describe(err error) string {
	if err == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T: %v", err, err)
}
