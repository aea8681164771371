package renderer

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/deimos/engine/core"
	"github.com/spaghettifunk/deimos/engine/math"
	"github.com/spaghettifunk/deimos/engine/renderer/glconst"
	"github.com/spaghettifunk/deimos/engine/renderer/metadata"
)

// Residency tells where a mesh's vertex data currently lives.
type Residency uint8

const (
	// No vertices on either side.
	ResidencyNone Residency = iota
	ResidencyClient
	ResidencyGPU
	ResidencyBoth
)

func (r Residency) String() string {
	switch r {
	case ResidencyClient:
		return "client"
	case ResidencyGPU:
		return "gpu"
	case ResidencyBoth:
		return "both"
	default:
		return "none"
	}
}

// Mesh pairs a client-side vertex slice with the GPU buffer built from it.
type Mesh struct {
	Name string

	vertices []math.Vertex3D
	buffer   *BufferObject
	usage    metadata.BufferUsage
	streams  metadata.StreamKind
}

type MeshOption func(*Mesh)

// WithUsage sets the usage hint passed on upload. The default is static.
func WithUsage(usage metadata.BufferUsage) MeshOption {
	return func(m *Mesh) {
		m.usage = usage
	}
}

// WithStreams selects the attribute streams configured by CreateGPUBuffer.
// The vertex and texture streams are always configured, their client
// arrays being enabled by BufferObject.Create.
func WithStreams(streams metadata.StreamKind) MeshOption {
	return func(m *Mesh) {
		m.streams = streams | alwaysStreams
	}
}

const alwaysStreams = metadata.STREAM_VERTEX | metadata.STREAM_TEXTURE

// WithBufferOptions forwards options to the owned BufferObject.
func WithBufferOptions(opts ...BufferOption) MeshOption {
	return func(m *Mesh) {
		m.buffer = NewBufferObject(m.buffer.ctx, opts...)
	}
}

// NewMesh builds a mesh over a copy of vertices. No GPU state is touched
// until CreateGPUBuffer.
func NewMesh(ctx GraphicsContext, vertices []math.Vertex3D, opts ...MeshOption) *Mesh {
	m := &Mesh{
		vertices: append([]math.Vertex3D(nil), vertices...),
		buffer:   NewBufferObject(ctx),
		usage:    metadata.BUFFER_USAGE_STATIC,
		streams:  alwaysStreams,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// SetVertexData replaces the client-side vertices. The GPU buffer keeps its
// old contents until CreateGPUBuffer is called again.
func (m *Mesh) SetVertexData(vertices []math.Vertex3D) {
	m.vertices = append([]math.Vertex3D(nil), vertices...)
}

// VertexData returns the client-side vertices without copying. It is empty
// once the client copy was discarded.
func (m *Mesh) VertexData() []math.Vertex3D {
	return m.vertices
}

func (m *Mesh) Buffer() *BufferObject {
	return m.buffer
}

func (m *Mesh) Residency() Residency {
	client := len(m.vertices) > 0
	gpu := m.buffer.Created() && m.buffer.ElementCount() > 0
	switch {
	case client && gpu:
		return ResidencyBoth
	case gpu:
		return ResidencyGPU
	case client:
		return ResidencyClient
	default:
		return ResidencyNone
	}
}

// Drawable reports whether Draw would reach the backend with a non-empty
// default count.
func (m *Mesh) Drawable() bool {
	return m.buffer.Created() && m.buffer.ElementCount() > 0
}

// CreateGPUBuffer (re)creates the owned buffer, uploads the client vertices
// and points the attribute streams at them. With discardClientCopy the
// client vertices are dropped afterwards and the GPU buffer becomes the only
// copy.
func (m *Mesh) CreateGPUBuffer(discardClientCopy bool) error {
	var errs []error
	if err := m.buffer.Create(); err != nil {
		errs = append(errs, err)
	}

	data := metadata.BufferData{
		Bytes:       math.VerticesAsBytes(m.vertices),
		ElementSize: math.VertexStride,
	}
	if err := m.buffer.Upload(data, m.usage); err != nil && !errors.Is(err, core.ErrEmptyData) {
		errs = append(errs, err)
	}

	for _, s := range m.streamConfigs() {
		if err := s.configure(s.cfg); err != nil {
			errs = append(errs, err)
		}
	}
	if m.streams.Has(metadata.STREAM_COLOR) && m.buffer.Created() {
		if err := m.enableColorArray(); err != nil {
			errs = append(errs, err)
		}
	}

	if discardClientCopy {
		m.vertices = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("mesh %q: %w", m.Name, errors.Join(errs...))
	}
	return nil
}

// BufferObject.Create leaves the colour array disabled.
func (m *Mesh) enableColorArray() error {
	c := m.buffer.check()
	m.buffer.ctx.EnableClientState(glconst.COLOR_ARRAY)
	c.after("glEnableClientState(GL_COLOR_ARRAY)")
	return c.err()
}

type streamConfig struct {
	configure func(metadata.AttributeConfig) error
	cfg       metadata.AttributeConfig
}

func (m *Mesh) streamConfigs() []streamConfig {
	configs := []streamConfig{{
		configure: m.buffer.ConfigureVertexStream,
		cfg: metadata.AttributeConfig{
			ComponentCount: 3,
			DataType:       metadata.DATA_TYPE_FLOAT,
			Stride:         math.VertexStride,
			ByteOffset:     math.VertexPositionOffset,
		},
	}}
	if m.streams.Has(metadata.STREAM_COLOR) {
		configs = append(configs, streamConfig{
			configure: m.buffer.ConfigureColorStream,
			cfg: metadata.AttributeConfig{
				ComponentCount: 4,
				DataType:       metadata.DATA_TYPE_FLOAT,
				Stride:         math.VertexStride,
				ByteOffset:     math.VertexColourOffset,
			},
		})
	}
	if m.streams.Has(metadata.STREAM_TEXTURE) {
		configs = append(configs, streamConfig{
			configure: m.buffer.ConfigureTextureStream,
			cfg: metadata.AttributeConfig{
				ComponentCount: 2,
				DataType:       metadata.DATA_TYPE_FLOAT,
				Stride:         math.VertexStride,
				ByteOffset:     math.VertexTexcoordOffset,
			},
		})
	}
	return configs
}

func (m *Mesh) Draw(kind metadata.PrimitiveKind) error {
	return m.buffer.Draw(kind)
}

// DrawRange draws count vertices from start; see BufferObject.DrawRange.
func (m *Mesh) DrawRange(kind metadata.PrimitiveKind, start, count int) error {
	return m.buffer.DrawRange(kind, start, count)
}

// Destroy releases the GPU buffer. The client vertices are kept.
func (m *Mesh) Destroy() error {
	if !m.buffer.Created() {
		return nil
	}
	return m.buffer.Destroy()
}
