package metadata

import "github.com/spaghettifunk/deimos/engine/math"

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Not a resource the engine knows how to load. */
	ResourceTypeNone ResourceType = iota
	/** @brief Mesh resource type (vertex list plus draw settings). */
	ResourceTypeMesh
)

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The resource type. */
	Type ResourceType
	/** @brief The size of the resource file in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}

/**
 * @brief Everything needed to build and draw a mesh. Produced by the mesh
 * loader as Resource.Data.
 */
type MeshConfig struct {
	Name      string
	Primitive PrimitiveKind
	Usage     BufferUsage
	Vertices  []math.Vertex3D
}
