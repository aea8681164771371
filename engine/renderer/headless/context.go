// Package headless is a graphics backend with no GPU behind it. It keeps
// the state a real context would (handles, binding, enabled arrays, buffer
// contents) and records every call, so it serves both tests and runs
// without a display.
package headless

import (
	"fmt"
	"slices"

	"github.com/spaghettifunk/deimos/engine/containers"
	"github.com/spaghettifunk/deimos/engine/core"
	"github.com/spaghettifunk/deimos/engine/renderer/glconst"
)

type Call struct {
	Name string
	Args []int64
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

type Pointer struct {
	Size   int32
	Type   uint32
	Stride int32
	Offset int
	Buffer uint32
}

type Context struct {
	handles *core.IdentifierPool
	calls   []Call
	// Raised codes waiting for GetError. Codes past capacity are dropped.
	errors *containers.RingQueue[uint32]
	// Codes queued by FailNext, raised by the next call of that name.
	pending map[string][]uint32

	bound    uint32
	enabled  map[uint32]bool
	data     map[uint32][]byte
	usage    map[uint32]uint32
	pointers map[uint32]Pointer
	frames   uint64

	// Raise INVALID_OPERATION on draws with an enabled array that has no pointer.
	strictArrays bool
}

type Option func(*Context)

// WithStrictArrays makes DrawArrays fail when an enabled client array was
// never given a pointer. Real drivers read through a null pointer instead.
func WithStrictArrays() Option {
	return func(c *Context) {
		c.strictArrays = true
	}
}

func New(opts ...Option) *Context {
	c := &Context{
		handles:  core.NewIdentifierPool(16),
		errors:   containers.NewRingQueue[uint32](maxPendingErrors),
		pending:  make(map[string][]uint32),
		enabled:  make(map[uint32]bool),
		data:     make(map[uint32][]byte),
		usage:    make(map[uint32]uint32),
		pointers: make(map[uint32]Pointer),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

const maxPendingErrors = 16

func (c *Context) raise(code uint32) {
	_ = c.errors.Enqueue(code)
}

func (c *Context) record(name string, args ...int64) {
	c.calls = append(c.calls, Call{Name: name, Args: args})
	if codes := c.pending[name]; len(codes) > 0 {
		c.raise(codes[0])
		c.pending[name] = codes[1:]
	}
}

// FailNext makes the next call named name raise code through GetError.
func (c *Context) FailNext(name string, code uint32) {
	c.pending[name] = append(c.pending[name], code)
}

// Handle 0 means "no buffer", so ids from the pool are shifted by one.
func (c *Context) GenBuffer() uint32 {
	handle := c.handles.Acquire("buffer") + 1
	c.record("GenBuffer", int64(handle))
	return handle
}

func (c *Context) DeleteBuffer(handle uint32) {
	c.record("DeleteBuffer", int64(handle))
	if handle == 0 {
		return
	}
	if err := c.handles.Release(handle - 1); err != nil {
		c.raise(glconst.INVALID_VALUE)
		return
	}
	delete(c.data, handle)
	delete(c.usage, handle)
	if c.bound == handle {
		c.bound = 0
	}
}

func (c *Context) BindArrayBuffer(handle uint32) {
	c.record("BindArrayBuffer", int64(handle))
	if handle != 0 {
		if _, ok := c.handles.Owner(handle - 1); !ok {
			c.raise(glconst.INVALID_VALUE)
			return
		}
	}
	c.bound = handle
}

func (c *Context) BufferData(data []byte, usage uint32) {
	c.record("BufferData", int64(len(data)), int64(usage))
	if c.bound == 0 {
		c.raise(glconst.INVALID_OPERATION)
		return
	}
	c.data[c.bound] = append([]byte(nil), data...)
	c.usage[c.bound] = usage
}

func (c *Context) pointer(name string, array uint32, size int32, xtype uint32, stride int32, offset int) {
	c.record(name, int64(size), int64(xtype), int64(stride), int64(offset))
	c.pointers[array] = Pointer{Size: size, Type: xtype, Stride: stride, Offset: offset, Buffer: c.bound}
}

func (c *Context) VertexPointer(size int32, xtype uint32, stride int32, offset int) {
	c.pointer("VertexPointer", glconst.VERTEX_ARRAY, size, xtype, stride, offset)
}

func (c *Context) ColorPointer(size int32, xtype uint32, stride int32, offset int) {
	c.pointer("ColorPointer", glconst.COLOR_ARRAY, size, xtype, stride, offset)
}

func (c *Context) TexCoordPointer(size int32, xtype uint32, stride int32, offset int) {
	c.pointer("TexCoordPointer", glconst.TEXTURE_COORD_ARRAY, size, xtype, stride, offset)
}

func (c *Context) EnableClientState(array uint32) {
	c.record("EnableClientState", int64(array))
	c.enabled[array] = true
}

func (c *Context) DrawArrays(mode uint32, first int32, count int32) {
	c.record("DrawArrays", int64(mode), int64(first), int64(count))
	if !c.strictArrays {
		return
	}
	for array, on := range c.enabled {
		if _, ok := c.pointers[array]; on && !ok {
			c.raise(glconst.INVALID_OPERATION)
			return
		}
	}
}

func (c *Context) GetError() uint32 {
	code, err := c.errors.Dequeue()
	if err != nil {
		return glconst.NO_ERROR
	}
	return code
}

func (c *Context) Initialize() error {
	core.LogInfo("headless renderer initialized")
	return nil
}

func (c *Context) Shutdown() error {
	if live := c.handles.Live(); live > 0 {
		core.LogWarn("headless renderer shut down with %d live buffers", live)
	}
	return nil
}

func (c *Context) BeginFrame(deltaTime float64) error {
	return nil
}

func (c *Context) EndFrame(deltaTime float64) error {
	c.frames++
	return nil
}

// Calls returns the recorded calls, oldest first.
func (c *Context) Calls() []Call {
	return c.calls
}

// CallsNamed returns the recorded calls named name.
func (c *Context) CallsNamed(name string) []Call {
	var out []Call
	for _, call := range c.calls {
		if call.Name == name {
			out = append(out, call)
		}
	}
	return out
}

func (c *Context) ResetCalls() {
	c.calls = nil
}

// LiveBuffers is the number of generated and not yet deleted handles.
func (c *Context) LiveBuffers() int {
	return c.handles.Live()
}

func (c *Context) Bound() uint32 {
	return c.bound
}

func (c *Context) Enabled(array uint32) bool {
	return c.enabled[array]
}

// EnabledArrays lists the enabled client arrays in ascending order.
func (c *Context) EnabledArrays() []uint32 {
	var arrays []uint32
	for array, on := range c.enabled {
		if on {
			arrays = append(arrays, array)
		}
	}
	slices.Sort(arrays)
	return arrays
}

// Data returns the bytes last uploaded into handle.
func (c *Context) Data(handle uint32) []byte {
	return c.data[handle]
}

func (c *Context) Usage(handle uint32) uint32 {
	return c.usage[handle]
}

func (c *Context) Pointer(array uint32) (Pointer, bool) {
	p, ok := c.pointers[array]
	return p, ok
}

func (c *Context) Frames() uint64 {
	return c.frames
}
