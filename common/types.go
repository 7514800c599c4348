// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Viewport is a rectangle of physical pixels with a top-left origin.
type Viewport struct {
	// X and Y are the offset of the viewport's top-left corner inside the window, in pixels.
	X, Y int
	// Width and Height are the viewport dimensions in pixels. Both must be positive for a usable viewport.
	Width, Height int
}

// NewViewportAtOrigin returns a viewport of the given size anchored at (0, 0).
//
// Parameters:
//   - width: viewport width in pixels
//   - height: viewport height in pixels
//
// Returns:
//   - Viewport: the viewport
func NewViewportAtOrigin(width, height int) Viewport {
	return Viewport{Width: width, Height: height}
}

// Valid reports whether both dimensions are positive.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0
}

// Aspect returns width / height, or 1 for an invalid viewport.
func (v Viewport) Aspect() float32 {
	if !v.Valid() {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// Center returns the viewport centre in window pixels.
func (v Viewport) Center() mgl32.Vec2 {
	return mgl32.Vec2{
		float32(v.X) + float32(v.Width)/2,
		float32(v.Y) + float32(v.Height)/2,
	}
}

// Contains reports whether a window pixel lies inside the viewport.
func (v Viewport) Contains(pixel mgl32.Vec2) bool {
	return pixel[0] >= float32(v.X) && pixel[0] < float32(v.X+v.Width) &&
		pixel[1] >= float32(v.Y) && pixel[1] < float32(v.Y+v.Height)
}

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyAABB returns an inverted box that any call to Expand will overwrite.
func EmptyAABB() AABB {
	inf := math32.Inf(1)
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// NewAABB returns the smallest box enclosing all points. With no points the box is empty.
//
// Parameters:
//   - points: the points to enclose
//
// Returns:
//   - AABB: the enclosing box
func NewAABB(points ...mgl32.Vec3) AABB {
	b := EmptyAABB()
	for _, p := range points {
		b = b.Expand(p)
	}
	return b
}

// IsEmpty reports whether the box encloses no point.
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Expand returns the box grown to include p.
func (b AABB) Expand(p mgl32.Vec3) AABB {
	for i := range 3 {
		b.Min[i] = math32.Min(b.Min[i], p[i])
		b.Max[i] = math32.Max(b.Max[i], p[i])
	}
	return b
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent of the box along each axis.
func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Corners returns the eight corners of the box.
func (b AABB) Corners() [8]mgl32.Vec3 {
	return [8]mgl32.Vec3{
		{b.Min[0], b.Min[1], b.Min[2]},
		{b.Max[0], b.Min[1], b.Min[2]},
		{b.Min[0], b.Max[1], b.Min[2]},
		{b.Max[0], b.Max[1], b.Min[2]},
		{b.Min[0], b.Min[1], b.Max[2]},
		{b.Max[0], b.Min[1], b.Max[2]},
		{b.Min[0], b.Max[1], b.Max[2]},
		{b.Max[0], b.Max[1], b.Max[2]},
	}
}

// Transform returns the axis-aligned box enclosing this box after transformation by m.
//
// Parameters:
//   - m: the affine transform to apply
//
// Returns:
//   - AABB: the enclosing box of the transformed corners
func (b AABB) Transform(m mgl32.Mat4) AABB {
	if b.IsEmpty() {
		return b
	}
	out := EmptyAABB()
	for _, c := range b.Corners() {
		out = out.Expand(mgl32.TransformCoordinate(c, m))
	}
	return out
}

