package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestBackendErrorMatchesSentinel(t *testing.T) {
	var err error = &BackendError{Call: "glBufferData", Code: 0x0505}
	wrapped := fmt.Errorf("upload: %w", err)

	if !errors.Is(wrapped, ErrBackend) {
		t.Fatal("wrapped backend error should match ErrBackend")
	}
	var be *BackendError
	if !errors.As(wrapped, &be) || be.Code != 0x0505 {
		t.Fatalf("errors.As = %v", be)
	}
	if !errors.Is(ErrEmptyData, ErrInvalidArgument) {
		t.Fatal("ErrEmptyData should wrap ErrInvalidArgument")
	}
	if got := BackendErrorString(0x0500); got != "GL_INVALID_ENUM" {
		t.Fatalf("BackendErrorString = %q", got)
	}
}
