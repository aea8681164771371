package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/deimos/engine/math"
	"github.com/spaghettifunk/deimos/engine/renderer/metadata"
)

// MeshExtension is the file extension of mesh assets.
const MeshExtension = ".mesh"

type meshFile struct {
	Name      string                 `toml:"name"`
	Primitive metadata.PrimitiveKind `toml:"primitive"`
	Usage     metadata.BufferUsage   `toml:"usage"`
	Vertices  []vertexEntry          `toml:"vertices"`
}

type vertexEntry struct {
	Position []float32 `toml:"position"`
	Colour   []float32 `toml:"colour"`
	Texcoord []float32 `toml:"texcoord"`
}

// MeshLoader reads TOML mesh files:
//
//	name = "triangle"
//	primitive = "triangles"
//	usage = "static"
//
//	[[vertices]]
//	position = [-0.5, -0.5, 0.0]
//	colour = [1.0, 0.0, 0.0, 1.0]
//	texcoord = [0.0, 0.0]
//
// colour defaults to opaque white and texcoord to zero.
type MeshLoader struct{}

func (ml *MeshLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	if assetType != metadata.ResourceTypeMesh {
		return nil, fmt.Errorf("mesh loader cannot load resource type %d", assetType)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config, err := parseMesh(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mesh '%s': %w", path, err)
	}
	if config.Name == "" {
		config.Name = strings.TrimSuffix(filepath.Base(path), MeshExtension)
	}
	if config.Name == "" {
		config.Name = "mesh-" + uuid.NewString()
	}
	return &metadata.Resource{
		Name:     config.Name,
		FullPath: path,
		Type:     metadata.ResourceTypeMesh,
		DataSize: uint64(len(data)),
		Data:     config,
	}, nil
}

func (ml *MeshLoader) Unload(resource *metadata.Resource) error {
	if resource == nil {
		return fmt.Errorf("cannot unload a nil resource")
	}
	resource.Data = nil
	resource.DataSize = 0
	return nil
}

// ParseMesh decodes a mesh file. A mesh without a name gets a random one.
func ParseMesh(data []byte) (*metadata.MeshConfig, error) {
	config, err := parseMesh(data)
	if err != nil {
		return nil, err
	}
	if config.Name == "" {
		config.Name = "mesh-" + uuid.NewString()
	}
	return config, nil
}

func parseMesh(data []byte) (*metadata.MeshConfig, error) {
	file := meshFile{
		Primitive: metadata.PRIMITIVE_TRIANGLES,
		Usage:     metadata.BUFFER_USAGE_STATIC,
	}
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	config := &metadata.MeshConfig{
		Name:      file.Name,
		Primitive: file.Primitive,
		Usage:     file.Usage,
		Vertices:  make([]math.Vertex3D, len(file.Vertices)),
	}
	for i, v := range file.Vertices {
		vertex, err := v.toVertex()
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		config.Vertices[i] = vertex
	}
	return config, nil
}

func (v vertexEntry) toVertex() (math.Vertex3D, error) {
	vertex := math.Vertex3D{Colour: math.NewColourWhite()}
	if len(v.Position) != 3 {
		return vertex, fmt.Errorf("position needs 3 components, got %d", len(v.Position))
	}
	vertex.Position = math.NewVec3(v.Position[0], v.Position[1], v.Position[2])

	switch len(v.Colour) {
	case 0:
	case 3:
		vertex.Colour = math.NewColour(v.Colour[0], v.Colour[1], v.Colour[2], 1)
	case 4:
		vertex.Colour = math.NewColour(v.Colour[0], v.Colour[1], v.Colour[2], v.Colour[3])
	default:
		return vertex, fmt.Errorf("colour needs 3 or 4 components, got %d", len(v.Colour))
	}

	switch len(v.Texcoord) {
	case 0:
	case 2:
		vertex.Texcoord = math.NewVec2(v.Texcoord[0], v.Texcoord[1])
	default:
		return vertex, fmt.Errorf("texcoord needs 2 components, got %d", len(v.Texcoord))
	}
	return vertex, nil
}
