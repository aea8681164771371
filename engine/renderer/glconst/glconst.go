// Package glconst holds the OpenGL enum values the renderer emits. They are
// plain numbers so the renderer and its tests do not need a live GL binding.
package glconst

const (
	NO_ERROR          = 0x0000
	INVALID_ENUM      = 0x0500
	INVALID_VALUE     = 0x0501
	INVALID_OPERATION = 0x0502
	OUT_OF_MEMORY     = 0x0505

	POINTS         = 0x0000
	LINES          = 0x0001
	LINE_LOOP      = 0x0002
	LINE_STRIP     = 0x0003
	TRIANGLES      = 0x0004
	TRIANGLE_STRIP = 0x0005
	TRIANGLE_FAN   = 0x0006

	SHORT  = 0x1402
	INT    = 0x1404
	FLOAT  = 0x1406
	DOUBLE = 0x140A

	ARRAY_BUFFER = 0x8892

	STREAM_DRAW  = 0x88E0
	STATIC_DRAW  = 0x88E4
	DYNAMIC_DRAW = 0x88E8

	VERTEX_ARRAY        = 0x8074
	COLOR_ARRAY         = 0x8076
	TEXTURE_COORD_ARRAY = 0x8078
)
