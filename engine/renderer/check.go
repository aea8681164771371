package renderer

import (
	"errors"

	"github.com/spaghettifunk/deimos/engine/core"
	"github.com/spaghettifunk/deimos/engine/renderer/glconst"
)

// ErrorReporter receives every error the backend reports. What it does with
// it (log, count, abort) is up to the implementation.
type ErrorReporter interface {
	ReportBackendError(err *core.BackendError)
}

// ReporterFunc adapts a plain function to an ErrorReporter.
type ReporterFunc func(err *core.BackendError)

func (f ReporterFunc) ReportBackendError(err *core.BackendError) {
	f(err)
}

// LogReporter logs backend errors at error level.
type LogReporter struct{}

func (LogReporter) ReportBackendError(err *core.BackendError) {
	core.LogError("graphics backend: %s", err.Error())
}

// Silently discards the outcome of a buffer or mesh operation. It marks the
// call sites that deliberately keep the fail-silent policy.
func Silently(err error) {}

// IsPrecondition reports whether err came from a call skipped because the
// object was not ready or an argument was rejected.
func IsPrecondition(err error) bool {
	return errors.Is(err, core.ErrNotCreated) || errors.Is(err, core.ErrInvalidArgument)
}

// glCheck collects backend errors raised by a sequence of calls. It keeps the
// first one for the caller and reports all of them.
type glCheck struct {
	ctx      GraphicsContext
	reporter ErrorReporter
	first    *core.BackendError
}

// after drains the context error queue once call has been issued.
func (c *glCheck) after(call string) {
	for i := 0; i < maxDrainedErrors; i++ {
		code := c.ctx.GetError()
		if code == glconst.NO_ERROR {
			return
		}
		err := &core.BackendError{Call: call, Code: code}
		if c.reporter != nil {
			c.reporter.ReportBackendError(err)
		}
		if c.first == nil {
			c.first = err
		}
	}
}

func (c *glCheck) err() error {
	if c.first == nil {
		return nil
	}
	return c.first
}

// GetError may keep returning codes without a current context.
const maxDrainedErrors = 8
