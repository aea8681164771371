package renderer

import (
	"fmt"

	"github.com/spaghettifunk/deimos/engine/core"
	"github.com/spaghettifunk/deimos/engine/renderer/glconst"
	"github.com/spaghettifunk/deimos/engine/renderer/metadata"
)

// Default behavior is to draw lines: kinds without a direct equivalent in
// the table fall back to LINES, POINTS included.
var primitiveModes = map[metadata.PrimitiveKind]uint32{
	metadata.PRIMITIVE_POINTS:         glconst.LINES,
	metadata.PRIMITIVE_LINES:          glconst.LINES,
	metadata.PRIMITIVE_LINE_STRIP:     glconst.LINE_STRIP,
	metadata.PRIMITIVE_LINE_LOOP:      glconst.LINE_LOOP,
	metadata.PRIMITIVE_TRIANGLES:      glconst.TRIANGLES,
	metadata.PRIMITIVE_TRIANGLE_STRIP: glconst.TRIANGLE_STRIP,
	metadata.PRIMITIVE_TRIANGLE_FAN:   glconst.TRIANGLE_FAN,
	metadata.PRIMITIVE_QUADS:          glconst.LINES,
	metadata.PRIMITIVE_QUAD_STRIP:     glconst.LINES,
	metadata.PRIMITIVE_POLYGON:        glconst.LINES,
}

var usageHints = map[metadata.BufferUsage]uint32{
	metadata.BUFFER_USAGE_STATIC:  glconst.STATIC_DRAW,
	metadata.BUFFER_USAGE_DYNAMIC: glconst.DYNAMIC_DRAW,
	metadata.BUFFER_USAGE_STREAM:  glconst.STREAM_DRAW,
}

var dataTypes = map[metadata.DataType]uint32{
	metadata.DATA_TYPE_SHORT:  glconst.SHORT,
	metadata.DATA_TYPE_INT:    glconst.INT,
	metadata.DATA_TYPE_FLOAT:  glconst.FLOAT,
	metadata.DATA_TYPE_DOUBLE: glconst.DOUBLE,
}

func init() {
	if err := validateTables(); err != nil {
		panic(err)
	}
}

func validateTables() error {
	if err := checkTable("primitive mode", primitiveModes, metadata.PrimitiveKinds()); err != nil {
		return err
	}
	if err := checkTable("usage hint", usageHints, metadata.BufferUsages()); err != nil {
		return err
	}
	return checkTable("data type", dataTypes, metadata.DataTypes())
}

func checkTable[K comparable](name string, table map[K]uint32, keys []K) error {
	if len(table) != len(keys) {
		return fmt.Errorf("%s table has %d entries, want %d", name, len(table), len(keys))
	}
	for _, k := range keys {
		if _, ok := table[k]; !ok {
			return fmt.Errorf("%s table is missing %v", name, k)
		}
	}
	return nil
}

// PrimitiveMode translates a PrimitiveKind to the backend draw mode.
func PrimitiveMode(kind metadata.PrimitiveKind) (uint32, error) {
	mode, ok := primitiveModes[kind]
	if !ok {
		return 0, fmt.Errorf("%w: primitive %s", core.ErrInvalidArgument, kind)
	}
	return mode, nil
}

// UsageHint translates a BufferUsage to the backend usage constant.
func UsageHint(usage metadata.BufferUsage) (uint32, error) {
	hint, ok := usageHints[usage]
	if !ok {
		return 0, fmt.Errorf("%w: usage %s", core.ErrInvalidArgument, usage)
	}
	return hint, nil
}

// BackendDataType translates a DataType to the backend scalar type constant.
func BackendDataType(dataType metadata.DataType) (uint32, error) {
	t, ok := dataTypes[dataType]
	if !ok {
		return 0, fmt.Errorf("%w: data type %s", core.ErrInvalidArgument, dataType)
	}
	return t, nil
}
