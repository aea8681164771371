// Package opengl implements the renderer backend on a legacy (2.1
// compatibility) OpenGL context, the profile that still has client-side
// attribute arrays.
package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/spaghettifunk/deimos/engine/core"
	"github.com/spaghettifunk/deimos/engine/math"
	"github.com/spaghettifunk/deimos/engine/renderer/glconst"
)

// Context forwards to the GL context current on the calling thread. The
// window owner must make the context current before Initialize.
type Context struct {
	clearColour math.Vec4
	swap        func()
}

func New(clearColour math.Vec4, swap func()) *Context {
	return &Context{
		clearColour: clearColour,
		swap:        swap,
	}
}

func (c *Context) Initialize() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL bindings: %w", err)
	}
	if err := validateConstants(); err != nil {
		return err
	}
	core.LogInfo("OpenGL %s (%s)", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))
	return nil
}

func (c *Context) Shutdown() error {
	return nil
}

func (c *Context) BeginFrame(deltaTime float64) error {
	gl.ClearColor(c.clearColour.X, c.clearColour.Y, c.clearColour.Z, c.clearColour.W)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	return nil
}

func (c *Context) EndFrame(deltaTime float64) error {
	if c.swap != nil {
		c.swap()
	}
	return nil
}

func (c *Context) GenBuffer() uint32 {
	var handle uint32
	gl.GenBuffers(1, &handle)
	return handle
}

func (c *Context) DeleteBuffer(handle uint32) {
	gl.DeleteBuffers(1, &handle)
}

func (c *Context) BindArrayBuffer(handle uint32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, handle)
}

func (c *Context) BufferData(data []byte, usage uint32) {
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, usage)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data), gl.Ptr(data), usage)
}

func (c *Context) VertexPointer(size int32, xtype uint32, stride int32, offset int) {
	gl.VertexPointer(size, xtype, stride, gl.PtrOffset(offset))
}

func (c *Context) ColorPointer(size int32, xtype uint32, stride int32, offset int) {
	gl.ColorPointer(size, xtype, stride, gl.PtrOffset(offset))
}

func (c *Context) TexCoordPointer(size int32, xtype uint32, stride int32, offset int) {
	gl.TexCoordPointer(size, xtype, stride, gl.PtrOffset(offset))
}

func (c *Context) EnableClientState(array uint32) {
	gl.EnableClientState(array)
}

func (c *Context) DrawArrays(mode uint32, first int32, count int32) {
	gl.DrawArrays(mode, first, count)
}

func (c *Context) GetError() uint32 {
	return gl.GetError()
}

// validateConstants checks that the numbers the renderer emits match the
// loaded binding.
func validateConstants() error {
	pairs := []struct {
		name        string
		ours, their uint32
	}{
		{"NO_ERROR", glconst.NO_ERROR, gl.NO_ERROR},
		{"LINES", glconst.LINES, gl.LINES},
		{"LINE_LOOP", glconst.LINE_LOOP, gl.LINE_LOOP},
		{"LINE_STRIP", glconst.LINE_STRIP, gl.LINE_STRIP},
		{"TRIANGLES", glconst.TRIANGLES, gl.TRIANGLES},
		{"TRIANGLE_STRIP", glconst.TRIANGLE_STRIP, gl.TRIANGLE_STRIP},
		{"TRIANGLE_FAN", glconst.TRIANGLE_FAN, gl.TRIANGLE_FAN},
		{"SHORT", glconst.SHORT, gl.SHORT},
		{"INT", glconst.INT, gl.INT},
		{"FLOAT", glconst.FLOAT, gl.FLOAT},
		{"DOUBLE", glconst.DOUBLE, gl.DOUBLE},
		{"ARRAY_BUFFER", glconst.ARRAY_BUFFER, gl.ARRAY_BUFFER},
		{"STATIC_DRAW", glconst.STATIC_DRAW, gl.STATIC_DRAW},
		{"DYNAMIC_DRAW", glconst.DYNAMIC_DRAW, gl.DYNAMIC_DRAW},
		{"STREAM_DRAW", glconst.STREAM_DRAW, gl.STREAM_DRAW},
		{"VERTEX_ARRAY", glconst.VERTEX_ARRAY, gl.VERTEX_ARRAY},
		{"COLOR_ARRAY", glconst.COLOR_ARRAY, gl.COLOR_ARRAY},
		{"TEXTURE_COORD_ARRAY", glconst.TEXTURE_COORD_ARRAY, gl.TEXTURE_COORD_ARRAY},
	}
	for _, p := range pairs {
		if p.ours != p.their {
			return fmt.Errorf("GL constant %s mismatch: renderer uses 0x%04X, binding has 0x%04X", p.name, p.ours, p.their)
		}
	}
	return nil
}
