package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quad returns a square of half size s in the plane z, counter-clockwise seen from +Z.
func quad(key string, s, z float32) *DepthMesh {
	return &DepthMesh{
		Key: key,
		Positions: []mgl32.Vec3{
			{-s, -s, z}, {s, -s, z}, {s, s, z}, {-s, s, z},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
		Model:   mgl32.Ident4(),
	}
}

func topDownCamera(far float32) camera.Camera {
	return camera.NewCamera(
		camera.WithView(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 0}, common.AxisY),
		camera.WithOrthographic(10, 0.1, far),
		camera.WithViewport(common.NewViewportAtOrigin(4, 4)),
	)
}

func renderRed(t *testing.T, r Renderer, cam camera.Camera, meshes ...*DepthMesh) []float32 {
	t.Helper()
	target, err := r.NewRenderTarget(4, 4)
	require.NoError(t, err)
	defer target.Release()

	err = target.Write(ClearState{Red: 1, Depth: 1}, func() error {
		for _, m := range meshes {
			if err := r.DrawDepth(cam, m, 20); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	red, err := target.ReadRed()
	require.NoError(t, err)
	return red
}

func TestNewRenderTargetValidatesSize(t *testing.T) {
	r := NewRenderer(BackendTypeSoftware)
	defer r.Release()

	_, err := r.NewRenderTarget(0, 1)
	assert.ErrorIs(t, err, ErrInvalidTargetSize)
	_, err = r.NewRenderTarget(1, -1)
	assert.ErrorIs(t, err, ErrInvalidTargetSize)

	target, err := r.NewRenderTarget(3, 2)
	require.NoError(t, err)
	w, h := target.Size()
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
	target.Release()
	target.Release()

	r.Release()
	_, err = r.NewRenderTarget(1, 1)
	assert.ErrorIs(t, err, ErrRendererReleased)
}

func TestDrawDepthRequiresBoundTarget(t *testing.T) {
	r := NewRenderer(BackendTypeSoftware)
	defer r.Release()

	err := r.DrawDepth(topDownCamera(100), quad("q", 1, 0), 20)
	assert.ErrorIs(t, err, ErrNoBoundTarget)
	assert.Nil(t, r.BoundTarget())
}

func TestDrawDepthWritesViewDistance(t *testing.T) {
	r := NewRenderer(BackendTypeSoftware)
	defer r.Release()

	red := renderRed(t, r, topDownCamera(100), quad("q", 2.5, 0))

	// the quad spans NDC [-0.5, 0.5], covering the two middle columns and rows
	want := []float32{
		1, 1, 1, 1,
		1, 0.5, 0.5, 1,
		1, 0.5, 0.5, 1,
		1, 1, 1, 1,
	}
	assert.InDeltaSlice(t, want, red, 1e-5)
}

func TestDrawDepthKeepsNearestFragment(t *testing.T) {
	r := NewRenderer(BackendTypeSoftware)
	defer r.Release()

	cam := topDownCamera(100)
	near := quad("near", 10, 2)
	far := quad("far", 10, 0)

	for _, order := range [][]*DepthMesh{{near, far}, {far, near}} {
		red := renderRed(t, r, cam, order...)
		for _, v := range red {
			assert.InDelta(t, 0.4, v, 1e-5)
		}
	}
}

func TestDrawDepthAppliesModelMatrix(t *testing.T) {
	r := NewRenderer(BackendTypeSoftware)
	defer r.Release()

	m := quad("moved", 10, 0)
	m.Model = mgl32.Translate3D(0, 0, 4)
	red := renderRed(t, r, topDownCamera(100), m)
	assert.InDelta(t, 0.3, red[5], 1e-5)
}

func TestDrawDepthPerspective(t *testing.T) {
	r := NewRenderer(BackendTypeSoftware)
	defer r.Release()

	cam := camera.NewCamera(
		camera.WithView(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 0}, common.AxisY),
		camera.WithPerspective(mgl32.DegToRad(60), 0.1, 100),
		camera.WithViewport(common.NewViewportAtOrigin(4, 4)),
	)
	red := renderRed(t, r, cam, quad("wide", 50, 0))
	for _, v := range red {
		assert.InDelta(t, 0.5, v, 1e-4)
	}
}

func TestDrawDepthRejectsFragmentsBeyondFar(t *testing.T) {
	r := NewRenderer(BackendTypeSoftware)
	defer r.Release()

	red := renderRed(t, r, topDownCamera(5), quad("q", 10, 0))
	for _, v := range red {
		assert.Equal(t, float32(1), v)
	}
}

func TestDepthPipelineCullMode(t *testing.T) {
	r := NewRenderer(BackendTypeSoftware,
		WithDepthPipeline(NewDepthPipeline(pipeline.WithCullMode(wgpu.CullModeBack))))
	defer r.Release()

	cam := topDownCamera(100)
	front := quad("front", 10, 0)
	back := quad("back", 10, 0)
	back.Indices = []uint32{0, 2, 1, 0, 3, 2}

	assert.InDelta(t, 0.5, renderRed(t, r, cam, front)[0], 1e-5)
	assert.Equal(t, float32(1), renderRed(t, r, cam, back)[0])
}

func TestDrawDepthValidatesInput(t *testing.T) {
	r := NewRenderer(BackendTypeSoftware)
	defer r.Release()

	target, err := r.NewRenderTarget(1, 1)
	require.NoError(t, err)
	defer target.Release()

	cam := topDownCamera(100)
	bad := quad("bad", 1, 0)
	bad.Indices = []uint32{0, 1, 7}

	err = target.Write(ClearState{}, func() error {
		assert.ErrorIs(t, r.DrawDepth(cam, bad, 20), ErrInvalidMesh)
		bad.Indices = []uint32{0, 1}
		assert.ErrorIs(t, r.DrawDepth(cam, bad, 20), ErrInvalidMesh)
		assert.ErrorIs(t, r.DrawDepth(cam, quad("q", 1, 0), 0), ErrInvalidDepthRange)
		return nil
	})
	require.NoError(t, err)
}

func TestWriteNestsAndRestoresBinding(t *testing.T) {
	r := NewRenderer(BackendTypeSoftware)
	defer r.Release()

	outer, err := r.NewRenderTarget(1, 1)
	require.NoError(t, err)
	defer outer.Release()
	inner, err := r.NewRenderTarget(1, 1)
	require.NoError(t, err)
	defer inner.Release()

	cam := topDownCamera(100)
	err = outer.Write(ClearState{Red: 1, Depth: 1}, func() error {
		assert.Same(t, outer, r.BoundTarget())
		innerErr := inner.Write(ClearState{Red: 1, Depth: 1}, func() error {
			assert.Same(t, inner, r.BoundTarget())
			return r.DrawDepth(cam, quad("q", 10, 0), 20)
		})
		require.NoError(t, innerErr)
		assert.Same(t, outer, r.BoundTarget())
		return nil
	})
	require.NoError(t, err)
	assert.Nil(t, r.BoundTarget())

	outerRed, err := outer.ReadRed()
	require.NoError(t, err)
	innerRed, err := inner.ReadRed()
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, outerRed)
	assert.InDeltaSlice(t, []float32{0.5}, innerRed, 1e-5)
}

func TestWriteRestoresBindingOnFailure(t *testing.T) {
	r := NewRenderer(BackendTypeSoftware)
	defer r.Release()

	target, err := r.NewRenderTarget(1, 1)
	require.NoError(t, err)

	boom := errors.New("boom")
	assert.ErrorIs(t, target.Write(ClearState{}, func() error { return boom }), boom)
	assert.Nil(t, r.BoundTarget())

	assert.Panics(t, func() {
		_ = target.Write(ClearState{}, func() error { panic("draw panicked") })
	})
	assert.Nil(t, r.BoundTarget())

	target.Release()
	assert.ErrorIs(t, target.Write(ClearState{}, nil), ErrTargetReleased)
	_, err = target.ReadRed()
	assert.ErrorIs(t, err, ErrTargetReleased)
}

func TestBackendTypeString(t *testing.T) {
	assert.Equal(t, "wgpu", BackendTypeWGPU.String())
	assert.Equal(t, "software", BackendTypeSoftware.String())
	assert.Equal(t, "unknown", RendererBackendType(9).String())
	assert.Equal(t, BackendTypeSoftware, NewRenderer(BackendTypeSoftware).BackendType())
}

func TestMeshTransformLayout(t *testing.T) {
	m := NewGPUMeshTransform(mgl32.Translate3D(1, 2, 3))
	assert.Equal(t, 64, m.Size())
	assert.Len(t, m.Marshal(), 64)
	assert.Contains(t, GPUMeshTransformSource, "MeshTransform")
	assert.Contains(t, NewDepthPipeline().Shader(0).Source(), "struct CameraUniform")
}
