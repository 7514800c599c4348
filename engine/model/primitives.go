package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// boxIndices winds every face counter-clockwise seen from outside. Corner i of the box sits at
// -half or +half on x, y and z according to bits 0, 1 and 2 of i.
var boxIndices = []uint32{
	0, 2, 1, 1, 2, 3, // -Z
	4, 5, 6, 5, 7, 6, // +Z
	0, 4, 2, 2, 4, 6, // -X
	1, 3, 5, 3, 7, 5, // +X
	0, 1, 4, 1, 5, 4, // -Y
	2, 6, 3, 3, 6, 7, // +Y
}

// NewBox creates an axis-aligned box centred on the origin.
//
// Parameters:
//   - name: the model identifier
//   - size: the extent along each axis
//
// Returns:
//   - Model: the box model
func NewBox(name string, size mgl32.Vec3) Model {
	half := size.Mul(0.5)
	positions := make([]mgl32.Vec3, 8)
	for i := range positions {
		for axis := range 3 {
			if i&(1<<axis) != 0 {
				positions[i][axis] = half[axis]
			} else {
				positions[i][axis] = -half[axis]
			}
		}
	}
	return NewModel(WithName(name), WithPositions(positions), WithIndices(boxIndices))
}

// NewQuad creates a rectangle in the z = 0 plane centred on the origin, facing +Z.
//
// Parameters:
//   - name: the model identifier
//   - width: the extent along X
//   - height: the extent along Y
//
// Returns:
//   - Model: the quad model
func NewQuad(name string, width, height float32) Model {
	w, h := width/2, height/2
	return NewModel(
		WithName(name),
		WithPositions([]mgl32.Vec3{{-w, -h, 0}, {w, -h, 0}, {w, h, 0}, {-w, h, 0}}),
		WithIndices([]uint32{0, 1, 2, 0, 2, 3}),
	)
}
