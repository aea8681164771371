package metadata

import (
	"fmt"
	"strings"
)

/** @brief The topology used to interpret a sequence of vertices. */
type PrimitiveKind int

const (
	PRIMITIVE_POINTS PrimitiveKind = iota
	PRIMITIVE_LINES
	PRIMITIVE_LINE_STRIP
	PRIMITIVE_LINE_LOOP
	PRIMITIVE_TRIANGLES
	PRIMITIVE_TRIANGLE_STRIP
	PRIMITIVE_TRIANGLE_FAN
	PRIMITIVE_QUADS
	PRIMITIVE_QUAD_STRIP
	PRIMITIVE_POLYGON
)

var primitiveNames = map[PrimitiveKind]string{
	PRIMITIVE_POINTS:         "points",
	PRIMITIVE_LINES:          "lines",
	PRIMITIVE_LINE_STRIP:     "line_strip",
	PRIMITIVE_LINE_LOOP:      "line_loop",
	PRIMITIVE_TRIANGLES:      "triangles",
	PRIMITIVE_TRIANGLE_STRIP: "triangle_strip",
	PRIMITIVE_TRIANGLE_FAN:   "triangle_fan",
	PRIMITIVE_QUADS:          "quads",
	PRIMITIVE_QUAD_STRIP:     "quad_strip",
	PRIMITIVE_POLYGON:        "polygon",
}

// PrimitiveKinds lists every valid PrimitiveKind.
func PrimitiveKinds() []PrimitiveKind {
	return []PrimitiveKind{
		PRIMITIVE_POINTS,
		PRIMITIVE_LINES,
		PRIMITIVE_LINE_STRIP,
		PRIMITIVE_LINE_LOOP,
		PRIMITIVE_TRIANGLES,
		PRIMITIVE_TRIANGLE_STRIP,
		PRIMITIVE_TRIANGLE_FAN,
		PRIMITIVE_QUADS,
		PRIMITIVE_QUAD_STRIP,
		PRIMITIVE_POLYGON,
	}
}

func (p PrimitiveKind) String() string {
	if name, ok := primitiveNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PrimitiveKind(%d)", int(p))
}

func (p *PrimitiveKind) UnmarshalText(text []byte) error {
	v, err := parseName(string(text), primitiveNames)
	if err != nil {
		return fmt.Errorf("primitive: %w", err)
	}
	*p = v
	return nil
}

func (p PrimitiveKind) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

/** @brief A hint to the backend about how often the buffer contents change. */
type BufferUsage int

const (
	/** @brief Set once, drawn many times. */
	BUFFER_USAGE_STATIC BufferUsage = iota
	/** @brief Changed often, drawn many times. */
	BUFFER_USAGE_DYNAMIC
	/** @brief Set once, drawn at most a few times. */
	BUFFER_USAGE_STREAM
)

var usageNames = map[BufferUsage]string{
	BUFFER_USAGE_STATIC:  "static",
	BUFFER_USAGE_DYNAMIC: "dynamic",
	BUFFER_USAGE_STREAM:  "stream",
}

func BufferUsages() []BufferUsage {
	return []BufferUsage{BUFFER_USAGE_STATIC, BUFFER_USAGE_DYNAMIC, BUFFER_USAGE_STREAM}
}

func (u BufferUsage) String() string {
	if name, ok := usageNames[u]; ok {
		return name
	}
	return fmt.Sprintf("BufferUsage(%d)", int(u))
}

func (u *BufferUsage) UnmarshalText(text []byte) error {
	v, err := parseName(string(text), usageNames)
	if err != nil {
		return fmt.Errorf("usage: %w", err)
	}
	*u = v
	return nil
}

func (u BufferUsage) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

/** @brief Scalar type of one attribute component. */
type DataType int

const (
	DATA_TYPE_SHORT DataType = iota
	DATA_TYPE_INT
	DATA_TYPE_FLOAT
	DATA_TYPE_DOUBLE
)

var dataTypeNames = map[DataType]string{
	DATA_TYPE_SHORT:  "short",
	DATA_TYPE_INT:    "int",
	DATA_TYPE_FLOAT:  "float",
	DATA_TYPE_DOUBLE: "double",
}

func DataTypes() []DataType {
	return []DataType{DATA_TYPE_SHORT, DATA_TYPE_INT, DATA_TYPE_FLOAT, DATA_TYPE_DOUBLE}
}

func (d DataType) String() string {
	if name, ok := dataTypeNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DataType(%d)", int(d))
}

func (d *DataType) UnmarshalText(text []byte) error {
	v, err := parseName(string(text), dataTypeNames)
	if err != nil {
		return fmt.Errorf("data type: %w", err)
	}
	*d = v
	return nil
}

func (d DataType) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func parseName[T comparable](text string, names map[T]string) (T, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	for v, name := range names {
		if name == text {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown value %q", text)
}

/** @brief The per-vertex attribute channels a buffer can feed. */
type StreamKind uint8

const (
	STREAM_VERTEX  StreamKind = 0x1
	STREAM_COLOR   StreamKind = 0x2
	STREAM_TEXTURE StreamKind = 0x4
)

func (s StreamKind) Has(flag StreamKind) bool {
	return s&flag != 0
}

/**
 * @brief Describes where one attribute stream lives inside the bound buffer.
 */
type AttributeConfig struct {
	/** @brief Number of components per vertex (e.g. 3 for xyz). */
	ComponentCount int
	/** @brief Scalar type of each component. */
	DataType DataType
	/** @brief Byte distance between consecutive vertices. 0 means tightly packed. */
	Stride int
	/** @brief Byte offset from the start of the bound buffer. */
	ByteOffset int
}

// Validate reports whether the config can be handed to the backend.
func (c AttributeConfig) Validate() error {
	if c.ComponentCount <= 0 {
		return fmt.Errorf("component count must be positive, got %d", c.ComponentCount)
	}
	if _, ok := dataTypeNames[c.DataType]; !ok {
		return fmt.Errorf("unknown data type %d", int(c.DataType))
	}
	if c.Stride < 0 {
		return fmt.Errorf("stride must not be negative, got %d", c.Stride)
	}
	if c.ByteOffset < 0 {
		return fmt.Errorf("byte offset must not be negative, got %d", c.ByteOffset)
	}
	return nil
}

/**
 * @brief A block of bytes to upload. ElementSize splits the bytes into
 * elements; 0 or 1 means every byte is one element.
 */
type BufferData struct {
	Bytes       []byte
	ElementSize int
}

func (d BufferData) Empty() bool {
	return len(d.Bytes) == 0
}

// ElementCount is the number of whole elements in Bytes.
func (d BufferData) ElementCount() int {
	if d.ElementSize <= 1 {
		return len(d.Bytes)
	}
	return len(d.Bytes) / d.ElementSize
}
