package renderer

import "fmt"

// GraphicsContext is the slice of the graphics API that buffer objects use.
// It stands for the single active context: the bound array buffer and the
// enabled client arrays are shared by every BufferObject built on it.
type GraphicsContext interface {
	GenBuffer() uint32
	DeleteBuffer(handle uint32)
	BindArrayBuffer(handle uint32)
	BufferData(data []byte, usage uint32)
	VertexPointer(size int32, xtype uint32, stride int32, offset int)
	ColorPointer(size int32, xtype uint32, stride int32, offset int)
	TexCoordPointer(size int32, xtype uint32, stride int32, offset int)
	EnableClientState(array uint32)
	DrawArrays(mode uint32, first int32, count int32)
	// GetError returns and clears the oldest pending error code.
	GetError() uint32
}

// RendererBackend is a GraphicsContext that can also drive a frame.
type RendererBackend interface {
	GraphicsContext
	Initialize() error
	Shutdown() error
	BeginFrame(deltaTime float64) error
	EndFrame(deltaTime float64) error
}

type RendererType uint8

const (
	OpenGL RendererType = iota
	Headless
)

func (t RendererType) String() string {
	switch t {
	case OpenGL:
		return "opengl"
	case Headless:
		return "headless"
	default:
		return "unknown"
	}
}

func (t *RendererType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "opengl", "gl":
		*t = OpenGL
	case "headless", "none":
		*t = Headless
	default:
		return fmt.Errorf("unknown renderer backend %q", string(text))
	}
	return nil
}
