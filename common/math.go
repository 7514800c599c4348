package common

import (
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ParallelThreshold is the absolute cosine above which two unit vectors are treated as parallel
// when choosing a perpendicular axis.
const ParallelThreshold float32 = 0.99

var (
	// AxisX is the world X axis.
	AxisX = mgl32.Vec3{1, 0, 0}
	// AxisY is the world Y axis.
	AxisY = mgl32.Vec3{0, 1, 0}
	// AxisZ is the world Z axis.
	AxisZ = mgl32.Vec3{0, 0, 1}
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// Perspective creates a perspective projection matrix.
// Maps view-space depth in [-near, -far] to the WebGPU clip-space depth range [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / math32.Tan(fovY/2.0)
	out := mgl32.Ident4()

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	out[15] = 0.0
	return out
}

// Orthographic creates a symmetric orthographic projection matrix whose vertical extent is height
// world units. Maps view-space depth in [-near, -far] to the WebGPU clip-space depth range [0, 1].
//
// Parameters:
//   - height: world-space vertical extent mapped onto the viewport
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance
//   - far: far clipping plane distance (must differ from near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Orthographic(height, aspect, near, far float32) mgl32.Mat4 {
	width := height * aspect
	out := mgl32.Ident4()

	out[0] = 2.0 / width
	out[5] = 2.0 / height
	out[10] = 1.0 / (near - far)
	out[14] = near / (near - far)
	return out
}

// Unproject maps a window-space point back into world space.
// The x, y components are physical pixels with a top-left origin, z is the clip-space depth in [0, 1].
//
// Parameters:
//   - win: window coordinates (x, y in pixels, z depth)
//   - inverseViewProj: the inverse of the combined view-projection matrix
//   - viewport: the viewport the pixel coordinates are relative to
//
// Returns:
//   - mgl32.Vec3: the world-space point
func Unproject(win mgl32.Vec3, inverseViewProj mgl32.Mat4, viewport Viewport) mgl32.Vec3 {
	ndc := mgl32.Vec4{
		2*(win[0]-float32(viewport.X))/float32(viewport.Width) - 1,
		1 - 2*(win[1]-float32(viewport.Y))/float32(viewport.Height),
		win[2],
		1,
	}
	obj := inverseViewProj.Mul4x1(ndc)
	if obj[3] == 0 {
		return obj.Vec3()
	}
	return obj.Vec3().Mul(1 / obj[3])
}

// IsParallel reports whether two vectors point along the same line within ParallelThreshold.
// Zero-length vectors are reported as parallel to everything.
func IsParallel(a, b mgl32.Vec3) bool {
	la, lb := a.Len(), b.Len()
	if la == 0 || lb == 0 {
		return true
	}
	return math32.Abs(a.Dot(b)/(la*lb)) > ParallelThreshold
}

// PerpendicularAxis returns a unit vector perpendicular to dir.
// It crosses dir with the X axis, substituting the Y axis when dir lies within ParallelThreshold
// of X so the result never degenerates to a near-zero vector.
//
// Parameters:
//   - dir: the direction to find a perpendicular for (need not be unit length)
//
// Returns:
//   - mgl32.Vec3: a unit vector perpendicular to dir
func PerpendicularAxis(dir mgl32.Vec3) mgl32.Vec3 {
	return CrossWithFallback(dir, AxisX, AxisY)
}

// CrossWithFallback returns normalize(dir x preferred), or normalize(dir x fallback) when dir and
// preferred are within ParallelThreshold of each other.
//
// Parameters:
//   - dir: the left-hand operand
//   - preferred: the axis to cross with in the common case
//   - fallback: the axis substituted when dir is nearly parallel to preferred
//
// Returns:
//   - mgl32.Vec3: the normalized cross product
func CrossWithFallback(dir, preferred, fallback mgl32.Vec3) mgl32.Vec3 {
	if IsParallel(dir, preferred) {
		return dir.Cross(fallback).Normalize()
	}
	return dir.Cross(preferred).Normalize()
}

// ClampFloat clamps v to [lo, hi]. When lo > hi the bounds are empty and lo wins.
func ClampFloat(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(v, hi))
}
