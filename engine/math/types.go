package math

import "unsafe"

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

/**
 * @brief Represents a single vertex in 3D space. The layout is tightly packed
 * float32 data and is uploaded to the GPU as is.
 */
type Vertex3D struct {
	/** @brief The position of the vertex */
	Position Vec3
	/** @brief The colour of the vertex. */
	Colour Vec4
	/** @brief The texture coordinate of the vertex. */
	Texcoord Vec2
}

var (
	// VertexStride is the size in bytes of one Vertex3D.
	VertexStride = int(unsafe.Sizeof(Vertex3D{}))

	VertexPositionOffset = int(unsafe.Offsetof(Vertex3D{}.Position))
	VertexColourOffset   = int(unsafe.Offsetof(Vertex3D{}.Colour))
	VertexTexcoordOffset = int(unsafe.Offsetof(Vertex3D{}.Texcoord))
)

// VerticesAsBytes views the vertex slice as raw bytes without copying.
// The result aliases vertices and must not outlive it.
func VerticesAsBytes(vertices []Vertex3D) []byte {
	if len(vertices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), len(vertices)*VertexStride)
}
