package renderer

import (
	"fmt"

	"github.com/spaghettifunk/deimos/engine/core"
	"github.com/spaghettifunk/deimos/engine/renderer/glconst"
	"github.com/spaghettifunk/deimos/engine/renderer/metadata"
)

// BufferObject owns one GPU array buffer holding vertex data.
//
// The zero state is "not created": every operation except Create and Unbind
// returns core.ErrNotCreated without touching the backend. The handle is
// valid exactly while Created reports true.
type BufferObject struct {
	ctx      GraphicsContext
	reporter ErrorReporter

	created bool
	handle  uint32
	// Default draw count, fixed by the first upload after Create.
	elementCount int
}

type BufferOption func(*BufferObject)

// WithReporter sends backend errors to r instead of the log.
func WithReporter(r ErrorReporter) BufferOption {
	return func(b *BufferObject) {
		b.reporter = r
	}
}

func NewBufferObject(ctx GraphicsContext, opts ...BufferOption) *BufferObject {
	b := &BufferObject{
		ctx:      ctx,
		reporter: LogReporter{},
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

func (b *BufferObject) Created() bool {
	return b.created
}

func (b *BufferObject) Handle() uint32 {
	return b.handle
}

func (b *BufferObject) ElementCount() int {
	return b.elementCount
}

func (b *BufferObject) check() *glCheck {
	return &glCheck{ctx: b.ctx, reporter: b.reporter}
}

// Create allocates a new backend buffer, destroying the current one first.
// It also enables the vertex and texture coordinate client arrays, which is
// context-wide state rather than part of this buffer.
func (b *BufferObject) Create() error {
	c := b.check()
	if b.created {
		b.destroy(c)
	}

	b.handle = b.ctx.GenBuffer()
	c.after("glGenBuffers")
	b.created = true

	b.ctx.EnableClientState(glconst.VERTEX_ARRAY)
	c.after("glEnableClientState(GL_VERTEX_ARRAY)")
	b.ctx.EnableClientState(glconst.TEXTURE_COORD_ARRAY)
	c.after("glEnableClientState(GL_TEXTURE_COORD_ARRAY)")

	return c.err()
}

func (b *BufferObject) Destroy() error {
	if !b.created {
		return core.ErrNotCreated
	}
	c := b.check()
	b.destroy(c)
	return c.err()
}

func (b *BufferObject) destroy(c *glCheck) {
	b.ctx.DeleteBuffer(b.handle)
	c.after("glDeleteBuffers")
	b.handle = 0
	b.created = false
	b.elementCount = 0
}

func (b *BufferObject) Bind() error {
	if !b.created {
		return core.ErrNotCreated
	}
	c := b.check()
	b.bind(c)
	return c.err()
}

func (b *BufferObject) bind(c *glCheck) {
	b.ctx.BindArrayBuffer(b.handle)
	c.after("glBindBuffer")
}

// Unbind clears the array buffer binding of the context, whichever buffer
// holds it.
func (b *BufferObject) Unbind() error {
	c := b.check()
	b.ctx.BindArrayBuffer(0)
	c.after("glBindBuffer(0)")
	return c.err()
}

// Upload replaces the buffer contents with data. Only the first upload after
// Create sets the default draw count; later uploads of a different size keep
// it.
func (b *BufferObject) Upload(data metadata.BufferData, usage metadata.BufferUsage) error {
	if !b.created {
		return core.ErrNotCreated
	}
	if data.Empty() {
		return core.ErrEmptyData
	}
	hint, err := UsageHint(usage)
	if err != nil {
		return err
	}

	if b.elementCount <= 0 {
		b.elementCount = data.ElementCount()
	}

	c := b.check()
	b.bind(c)
	b.ctx.BufferData(data.Bytes, hint)
	c.after("glBufferData")
	return c.err()
}

func (b *BufferObject) ConfigureVertexStream(cfg metadata.AttributeConfig) error {
	return b.configure(metadata.STREAM_VERTEX, cfg)
}

func (b *BufferObject) ConfigureColorStream(cfg metadata.AttributeConfig) error {
	return b.configure(metadata.STREAM_COLOR, cfg)
}

func (b *BufferObject) ConfigureTextureStream(cfg metadata.AttributeConfig) error {
	return b.configure(metadata.STREAM_TEXTURE, cfg)
}

func (b *BufferObject) configure(stream metadata.StreamKind, cfg metadata.AttributeConfig) error {
	if !b.created {
		return core.ErrNotCreated
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %s", core.ErrInvalidArgument, err)
	}
	xtype, err := BackendDataType(cfg.DataType)
	if err != nil {
		return err
	}

	c := b.check()
	b.bind(c)
	size, stride := int32(cfg.ComponentCount), int32(cfg.Stride)
	switch stream {
	case metadata.STREAM_VERTEX:
		b.ctx.VertexPointer(size, xtype, stride, cfg.ByteOffset)
		c.after("glVertexPointer")
	case metadata.STREAM_COLOR:
		b.ctx.ColorPointer(size, xtype, stride, cfg.ByteOffset)
		c.after("glColorPointer")
	case metadata.STREAM_TEXTURE:
		b.ctx.TexCoordPointer(size, xtype, stride, cfg.ByteOffset)
		c.after("glTexCoordPointer")
	}
	return c.err()
}

// Draw issues a draw of every element from the first upload.
func (b *BufferObject) Draw(kind metadata.PrimitiveKind) error {
	return b.DrawRange(kind, 0, 0)
}

// DrawRange draws count elements starting at start. A count of zero or less
// means the default draw count. A negative start draws nothing.
func (b *BufferObject) DrawRange(kind metadata.PrimitiveKind, start, count int) error {
	if !b.created {
		return core.ErrNotCreated
	}
	if start < 0 {
		return fmt.Errorf("%w: negative start %d", core.ErrInvalidArgument, start)
	}
	mode, err := PrimitiveMode(kind)
	if err != nil {
		return err
	}
	if count <= 0 {
		count = b.elementCount
	}

	c := b.check()
	b.bind(c)
	b.ctx.DrawArrays(mode, int32(start), int32(count))
	c.after("glDrawArrays")
	return c.err()
}
