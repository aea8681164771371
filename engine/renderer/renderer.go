package renderer

import (
	"github.com/spaghettifunk/deimos/engine/core"
	"github.com/spaghettifunk/deimos/engine/math"
)

// Renderer drives frames on a backend and builds meshes bound to its
// context. All calls must come from the thread that owns the context.
type Renderer struct {
	backend  RendererBackend
	reporter ErrorReporter
}

func New(backend RendererBackend, reporter ErrorReporter) *Renderer {
	if reporter == nil {
		reporter = LogReporter{}
	}
	return &Renderer{
		backend:  backend,
		reporter: reporter,
	}
}

func (r *Renderer) Initialize() error {
	return r.backend.Initialize()
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}

func (r *Renderer) Context() GraphicsContext {
	return r.backend
}

func (r *Renderer) NewBufferObject() *BufferObject {
	return NewBufferObject(r.backend, WithReporter(r.reporter))
}

func (r *Renderer) NewMesh(name string, vertices []math.Vertex3D, opts ...MeshOption) *Mesh {
	opts = append([]MeshOption{WithBufferOptions(WithReporter(r.reporter))}, opts...)
	m := NewMesh(r.backend, vertices, opts...)
	m.Name = name
	return m
}

// DrawFrame wraps draw between BeginFrame and EndFrame.
func (r *Renderer) DrawFrame(deltaTime float64, draw func() error) error {
	if err := r.backend.BeginFrame(deltaTime); err != nil {
		core.LogError(err.Error())
		return err
	}
	if draw != nil {
		if err := draw(); err != nil {
			core.LogError("frame draw failed: %s", err)
		}
	}
	if err := r.backend.EndFrame(deltaTime); err != nil {
		core.LogError("RendererEndFrame failed. Application shutting down...")
		return err
	}
	return nil
}
