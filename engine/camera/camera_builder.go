package camera

import (
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/go-gl/mathgl/mgl32"
)

type CameraBuilderOption func(*cameraImpl)

// WithView sets the camera's position, target and up vector.
//
// Parameters:
//   - position: the eye position
//   - target: the look-at point
//   - up: the up hint
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's view
func WithView(position, target, up mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = position
		c.target = target
		c.up = up
	}
}

// WithPerspective selects a perspective projection.
//
// Parameters:
//   - fov: vertical field of view in radians
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's projection
func WithPerspective(fov, near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection = Projection{Type: ProjectionPerspective, Fov: fov}
		c.near = near
		c.far = far
	}
}

// WithOrthographic selects an orthographic projection.
//
// Parameters:
//   - height: world-space vertical extent of the viewport
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's projection
func WithOrthographic(height, near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection = Projection{Type: ProjectionOrthographic, Height: height}
		c.near = near
		c.far = far
	}
}

// WithViewport sets the viewport rectangle in physical pixels.
//
// Parameters:
//   - viewport: the viewport
//
// Returns:
//   - CameraBuilderOption: functional option to set the viewport
func WithViewport(viewport common.Viewport) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.viewport = viewport
	}
}
