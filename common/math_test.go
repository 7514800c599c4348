package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const standardTol = float32(1e-4)

func assertVecNear(t *testing.T, want, got mgl32.Vec3, tol float32) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], float64(tol), "component %d of %v vs %v", i, want, got)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := Perspective(mgl32.DegToRad(60), 1.5, 0.5, 50)

	near := proj.Mul4x1(mgl32.Vec4{0, 0, -0.5, 1})
	far := proj.Mul4x1(mgl32.Vec4{0, 0, -50, 1})

	assert.InDelta(t, 0, near[2]/near[3], 1e-5)
	assert.InDelta(t, 1, far[2]/far[3], 1e-5)
}

func TestOrthographicDepthRangeAndExtent(t *testing.T) {
	proj := Orthographic(10, 2, 1, 21)

	near := proj.Mul4x1(mgl32.Vec4{0, 0, -1, 1})
	far := proj.Mul4x1(mgl32.Vec4{0, 0, -21, 1})
	corner := proj.Mul4x1(mgl32.Vec4{10, 5, -3, 1})

	assert.InDelta(t, 0, near[2], 1e-6)
	assert.InDelta(t, 1, far[2], 1e-6)
	assert.InDelta(t, 1, corner[0], 1e-6)
	assert.InDelta(t, 1, corner[1], 1e-6)
}

func TestUnprojectInvertsProjection(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{3, 4, 10}, mgl32.Vec3{0, 0, 0}, AxisY)
	proj := Perspective(mgl32.DegToRad(45), 4.0/3.0, 1, 100)
	vp := proj.Mul4(view)
	viewport := Viewport{X: 10, Y: 20, Width: 400, Height: 300}

	world := mgl32.Vec3{0.5, -0.25, 1}
	clip := vp.Mul4x1(world.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip[3])
	pixel := mgl32.Vec3{
		float32(viewport.X) + (ndc[0]+1)/2*float32(viewport.Width),
		float32(viewport.Y) + (1-ndc[1])/2*float32(viewport.Height),
		ndc[2],
	}

	assertVecNear(t, world, Unproject(pixel, vp.Inv(), viewport), 5e-3)
}

func TestPerpendicularAxisFallback(t *testing.T) {
	tests := []struct {
		name string
		dir  mgl32.Vec3
	}{
		{"along z", mgl32.Vec3{0, 0, -1}},
		{"along x", mgl32.Vec3{1, 0, 0}},
		{"nearly x", mgl32.Vec3{1, 0.01, 0.01}},
		{"diagonal", mgl32.Vec3{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axis := PerpendicularAxis(tt.dir)
			assert.InDelta(t, 1, axis.Len(), 1e-5)
			assert.InDelta(t, 0, axis.Dot(tt.dir.Normalize()), 1e-5)
		})
	}
}

func TestClampFloat(t *testing.T) {
	assert.Equal(t, float32(2), ClampFloat(5, 1, 2))
	assert.Equal(t, float32(1), ClampFloat(-5, 1, 2))
	assert.Equal(t, float32(1.5), ClampFloat(1.5, 1, 2))
}
