package graphics

import (
	"errors"
	"fmt"
)

var (
	// ErrContextLost is returned by any call made after the backend was closed
	// or before its context became available.
	ErrContextLost = errors.New("no render context available")
	// ErrWrongBackend is returned when a texture is passed to a backend that
	// did not create it.
	ErrWrongBackend = errors.New("texture was not created by this backend")
	// ErrSurfaceAllocation is returned when a surface or framebuffer cannot be created.
	ErrSurfaceAllocation = errors.New("failed to allocate surface")
	// ErrUnsupported is returned for operations a backend cannot perform.
	ErrUnsupported = errors.New("operation not supported by this backend")
)

// RenderError is a recoverable rendering failure.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render: %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// NewRenderError wraps err for operation op.
func NewRenderError(op string, err error) error {
	return &RenderError{Op: op, Err: err}
}

// ShaderError reports a compile or link failure with the driver's info log.
type ShaderError struct {
	Stage string
	Log   string
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("failed to %s shader: %s", e.Stage, e.Log)
}

// ResourceLoadError reports a missing or malformed resource file.
type ResourceLoadError struct {
	Path string
	Err  error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *ResourceLoadError) Unwrap() error {
	return e.Err
}
