package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotCreated      = errors.New("buffer object not created")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrEmptyData       = fmt.Errorf("%w: empty data", ErrInvalidArgument)
	ErrBackend         = errors.New("backend error")
)

// BackendError is a non-zero code reported by the graphics backend right
// after Call was issued.
type BackendError struct {
	Call string
	Code uint32
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s (0x%04X) after %s", ErrBackend, BackendErrorString(e.Code), e.Code, e.Call)
}

func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}

// BackendErrorString returns the OpenGL name of an error code.
func BackendErrorString(code uint32) string {
	switch code {
	case 0x0000:
		return "GL_NO_ERROR"
	case 0x0500:
		return "GL_INVALID_ENUM"
	case 0x0501:
		return "GL_INVALID_VALUE"
	case 0x0502:
		return "GL_INVALID_OPERATION"
	case 0x0503:
		return "GL_STACK_OVERFLOW"
	case 0x0504:
		return "GL_STACK_UNDERFLOW"
	case 0x0505:
		return "GL_OUT_OF_MEMORY"
	case 0x0506:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return "GL_UNKNOWN_ERROR"
	}
}
