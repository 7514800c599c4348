package renderer

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUMeshTransformSource is the canonical WGSL definition of the MeshTransform struct.
// Matches GPUMeshTransform layout exactly (64 bytes).
//
//go:embed assets/mesh_transform.wgsl
var GPUMeshTransformSource string

//go:embed assets/depth.wgsl
var depthShaderSource string

// GPUMeshTransform is the GPU-aligned per-draw model matrix uniform.
// Size: 64 bytes.
type GPUMeshTransform struct {
	Model [16]float32 // offset 0: model matrix (mat4x4<f32>)
}

// NewGPUMeshTransform packs a model matrix for upload.
func NewGPUMeshTransform(model mgl32.Mat4) GPUMeshTransform {
	return GPUMeshTransform{Model: [16]float32(model)}
}

// Size returns the size of the GPUMeshTransform struct in bytes.
func (g *GPUMeshTransform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMeshTransform into a byte buffer suitable for GPU upload.
func (g *GPUMeshTransform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
	}
	return buf
}
