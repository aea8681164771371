package math

import (
	m "math"
	"time"

	"golang.org/x/exp/rand"
)

const (
	/** @brief An approximate representation of PI. */
	K_PI float32 = 3.14159265358979323846
	/** @brief An approximate representation of PI multiplied by 2. */
	K_PI_2 float32 = 2.0 * K_PI
	/** @brief A multiplier used to convert degrees to radians. */
	K_DEG2RAD_MULTIPLIER float32 = K_PI / 180.0
	/** @brief A multiplier used to convert radians to degrees. */
	K_RAD2DEG_MULTIPLIER float32 = 180.0 / K_PI
	/** @brief Smallest positive number where 1.0 + FLOAT_EPSILON != 0 */
	K_FLOAT_EPSILON float32 = 1.192092896e-07
)

var rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))

// Seed resets the generator used by the Random* helpers.
func Seed(seed uint64) {
	rng.Seed(seed)
}

func ksin(x float32) float32 {
	return float32(m.Sin(float64(x)))
}

func kcos(x float32) float32 {
	return float32(m.Cos(float64(x)))
}

// RandomInRange returns a random value in [min, max).
func RandomInRange(min, max float32) float32 {
	if max <= min {
		return min
	}
	return min + rng.Float32()*(max-min)
}

func DegToRad(degrees float32) float32 {
	return degrees * K_DEG2RAD_MULTIPLIER
}

func RadToDeg(radians float32) float32 {
	return radians * K_RAD2DEG_MULTIPLIER
}

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

func (v Vec3) MulScalar(s float32) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) Compare(other Vec3, tolerance float32) bool {
	return kabs(v.X-other.X) <= tolerance &&
		kabs(v.Y-other.Y) <= tolerance &&
		kabs(v.Z-other.Z) <= tolerance
}

func kabs(x float32) float32 {
	return float32(m.Abs(float64(x)))
}

// NewColour builds an RGBA colour with every channel clamped to [0, 1].
func NewColour(r, g, b, a float32) Vec4 {
	return Vec4{
		X: Clamp(r, 0, 1),
		Y: Clamp(g, 0, 1),
		Z: Clamp(b, 0, 1),
		W: Clamp(a, 0, 1),
	}
}

func NewColourWhite() Vec4 {
	return Vec4{X: 1, Y: 1, Z: 1, W: 1}
}

// RandomColour returns an opaque colour with random RGB channels.
func RandomColour() Vec4 {
	return NewColour(RandomInRange(0, 1), RandomInRange(0, 1), RandomInRange(0, 1), 1)
}
