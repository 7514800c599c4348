package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCameraUniformSource declares CameraUniform for inclusion in depth shaders.
// Matches GPUCameraUniform layout exactly (96 bytes, uniform aligned).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is the camera data a depth draw needs, laid out like the WGSL CameraUniform.
// Size: 96 bytes.
type GPUCameraUniform struct {
	ViewProj       [16]float32 // offset  0: combined view-projection matrix (mat4x4<f32>)
	CameraPosition [3]float32  // offset 64: world-space camera position (vec3<f32>)
	MaxDepth       float32     // offset 76: distance encoded as 1.0 by the depth pass (f32)
	ViewDirection  [3]float32  // offset 80: unit view direction (vec3<f32>)
	_pad           float32     // offset 92: padding to 96 bytes
}

// Size is the uniform buffer size in bytes.
//
// Returns:
//   - int: the struct size in bytes (96)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal packs the uniform little-endian for upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.CameraPosition[i]))
	}
	binary.LittleEndian.PutUint32(buf[76:], math.Float32bits(g.MaxDepth))
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[80+i*4:], math.Float32bits(g.ViewDirection[i]))
	}
	binary.LittleEndian.PutUint32(buf[92:], 0) // _pad
	return buf
}

// EncodeDepth maps a world-space point to the value the depth pass writes into the red channel:
// its distance in front of the camera along the view direction divided by MaxDepth.
//
// Parameters:
//   - p: the world-space point
//
// Returns:
//   - float32: the encoded depth, 0 at the camera plane and 1 at MaxDepth
func (g *GPUCameraUniform) EncodeDepth(p [3]float32) float32 {
	var d float32
	for i := range 3 {
		d += (p[i] - g.CameraPosition[i]) * g.ViewDirection[i]
	}
	return d / g.MaxDepth
}
