package camera

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ProjectionType selects how the camera maps view space onto the viewport.
type ProjectionType int

const (
	ProjectionPerspective ProjectionType = iota
	ProjectionOrthographic
)

func (p ProjectionType) String() string {
	switch p {
	case ProjectionPerspective:
		return "perspective"
	case ProjectionOrthographic:
		return "orthographic"
	default:
		return "unknown"
	}
}

// Projection describes the active projection.
// Height is only meaningful for ProjectionOrthographic and Fov only for ProjectionPerspective.
type Projection struct {
	Type   ProjectionType
	Height float32 // world-space vertical extent of the viewport
	Fov    float32 // vertical field of view in radians
}

// Pivot selects which end of the view vector stays fixed during Yaw and Pitch.
type Pivot int

const (
	// PivotTarget holds the target fixed and moves the position on a sphere around it.
	PivotTarget Pivot = iota
	// PivotPosition holds the position fixed and swings the target around it.
	PivotPosition
)

var (
	// ErrInvalidView is returned when position, target and up do not define an orientation.
	ErrInvalidView = errors.New("invalid camera view")
	// ErrInvalidProjection is returned for out-of-range projection parameters.
	ErrInvalidProjection = errors.New("invalid camera projection")
	// ErrInvalidViewport is returned for a viewport without positive area.
	ErrInvalidViewport = errors.New("invalid camera viewport")
)

const (
	// minViewLength is the shortest accepted distance between position and target.
	minViewLength float32 = 1e-6
	// minUpSine is the smallest accepted sine of the angle between up and the view direction.
	minUpSine float32 = 1e-4
	// pitchLimit keeps Pitch from rotating the view direction within this cosine distance of up.
	pitchLimit float32 = 1e-3
)

type cameraImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3
	up       mgl32.Vec3

	projection Projection
	near       float32
	far        float32
	viewport   common.Viewport

	direction mgl32.Vec3
	right     mgl32.Vec3
	screenUp  mgl32.Vec3

	viewMatrix                  mgl32.Mat4
	projectionMatrix            mgl32.Mat4
	viewProjectionMatrix        mgl32.Mat4
	inverseViewProjectionMatrix mgl32.Mat4
	frustum                     common.Frustum
}

// Camera holds view and projection state and keeps every derived matrix consistent with it.
// All mutation goes through the setters below, each of which either applies completely or
// returns an error and leaves the camera untouched.
type Camera interface {
	// Position returns the eye position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// Up returns the up vector exactly as it was passed to SetView.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector, not necessarily unit length
	Up() mgl32.Vec3

	// Direction returns the unit view direction, normalize(target - position).
	//
	// Returns:
	//   - mgl32.Vec3: the view direction
	Direction() mgl32.Vec3

	// Right returns normalize(up x direction), the controllers' reference right vector.
	// In a right-handed frame this points towards the left edge of the screen; use ScreenRight
	// for the on-screen direction.
	//
	// Returns:
	//   - mgl32.Vec3: the unit right vector
	Right() mgl32.Vec3

	// ScreenRight returns the unit vector pointing towards the right edge of the screen, -Right().
	//
	// Returns:
	//   - mgl32.Vec3: the unit screen-right vector
	ScreenRight() mgl32.Vec3

	// ScreenUp returns the unit vector pointing towards the top edge of the screen.
	// It is up with the component along the view direction removed.
	//
	// Returns:
	//   - mgl32.Vec3: the unit screen-up vector
	ScreenUp() mgl32.Vec3

	// DistanceToTarget returns |target - position|.
	//
	// Returns:
	//   - float32: the distance
	DistanceToTarget() float32

	// Projection returns the active projection.
	//
	// Returns:
	//   - Projection: projection kind and its parameter
	Projection() Projection

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// Viewport returns the viewport in physical pixels.
	Viewport() common.Viewport

	// ViewMatrix returns the world-to-view matrix.
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the view-to-clip matrix with depth in [0, 1].
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns ProjectionMatrix * ViewMatrix.
	ViewProjectionMatrix() mgl32.Mat4

	// InverseViewProjectionMatrix returns the inverse of ViewProjectionMatrix.
	InverseViewProjectionMatrix() mgl32.Mat4

	// Frustum returns the six world-space planes of the current view volume.
	Frustum() common.Frustum

	// Uniform packs the camera into the layout shared with the depth shader.
	//
	// Parameters:
	//   - maxDepth: the distance that encodes to 1.0
	//
	// Returns:
	//   - GPUCameraUniform: the uniform contents
	Uniform(maxDepth float32) GPUCameraUniform

	// SetView sets position, target and up together.
	//
	// Parameters:
	//   - position: the eye position
	//   - target: the look-at point, must differ from position
	//   - up: the up hint, must not be parallel to target - position
	//
	// Returns:
	//   - error: wraps ErrInvalidView if the triple does not define an orientation
	SetView(position, target, up mgl32.Vec3) error

	// SetOrthographicProjection switches to an orthographic projection.
	//
	// Parameters:
	//   - height: world-space vertical extent, must be positive
	//   - near: near plane distance
	//   - far: far plane distance, must differ from near
	//
	// Returns:
	//   - error: wraps ErrInvalidProjection on invalid parameters
	SetOrthographicProjection(height, near, far float32) error

	// SetPerspectiveProjection switches to a perspective projection.
	//
	// Parameters:
	//   - fov: vertical field of view in radians, in (0, pi)
	//   - near: near plane distance, must be positive
	//   - far: far plane distance, must be greater than near
	//
	// Returns:
	//   - error: wraps ErrInvalidProjection on invalid parameters
	SetPerspectiveProjection(fov, near, far float32) error

	// SetViewport sets the viewport rectangle.
	//
	// Parameters:
	//   - viewport: the viewport in physical pixels
	//
	// Returns:
	//   - error: wraps ErrInvalidViewport if width or height is not positive
	SetViewport(viewport common.Viewport) error

	// Yaw rotates the view direction about the up axis.
	// Positive angles turn the view to the left.
	//
	// Parameters:
	//   - degrees: signed rotation angle in degrees
	//   - pivot: which of position or target stays fixed
	Yaw(degrees float32, pivot Pivot)

	// Pitch rotates the view direction about the right axis.
	// Positive angles tilt the view downwards. A rotation that would leave the view direction
	// almost parallel to up is ignored.
	//
	// Parameters:
	//   - degrees: signed rotation angle in degrees
	//   - pivot: which of position or target stays fixed
	//
	// Returns:
	//   - bool: false if the rotation was ignored
	Pitch(degrees float32, pivot Pivot) bool

	// ViewDirectionAtPixel returns the unit direction of the view ray through a pixel.
	//
	// Parameters:
	//   - pixel: window position in physical pixels, top-left origin
	//
	// Returns:
	//   - mgl32.Vec3: the ray direction
	ViewDirectionAtPixel(pixel mgl32.Vec2) mgl32.Vec3

	// PositionAtPixel returns the origin of the view ray through a pixel.
	// For a perspective camera every ray starts at the eye; for an orthographic camera the
	// origin lies on the near plane under the pixel.
	//
	// Parameters:
	//   - pixel: window position in physical pixels, top-left origin
	//
	// Returns:
	//   - mgl32.Vec3: the ray origin
	PositionAtPixel(pixel mgl32.Vec2) mgl32.Vec3

	// InFrustum reports whether a box is not trivially outside the view volume.
	//
	// Parameters:
	//   - box: the world-space bounding box
	//
	// Returns:
	//   - bool: false only if the box is separated from the frustum by one of its planes
	InFrustum(box common.AABB) bool
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera. Without options the camera sits at (0, 0, 10) looking at the
// origin with +Y up, a 45 degree perspective projection and a 1x1 viewport.
// Panics if the options leave the camera in an invalid state.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		position: mgl32.Vec3{0, 0, 10},
		target:   mgl32.Vec3{0, 0, 0},
		up:       common.AxisY,
		projection: Projection{
			Type: ProjectionPerspective,
			Fov:  mgl32.DegToRad(45),
		},
		near:     0.1,
		far:      100.0,
		viewport: common.NewViewportAtOrigin(1, 1),
	}
	for _, option := range options {
		option(c)
	}
	if err := c.validate(); err != nil {
		panic(fmt.Sprintf("failed to create camera: %v", err))
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Direction() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.direction
}

func (c *cameraImpl) Right() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.right
}

func (c *cameraImpl) ScreenRight() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screenRight()
}

func (c *cameraImpl) ScreenUp() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screenUp
}

func (c *cameraImpl) DistanceToTarget() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target.Sub(c.position).Len()
}

func (c *cameraImpl) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Viewport() common.Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewport
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) InverseViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverseViewProjectionMatrix
}

func (c *cameraImpl) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frustum
}

func (c *cameraImpl) Uniform(maxDepth float32) GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		ViewProj:       c.viewProjectionMatrix,
		CameraPosition: c.position,
		MaxDepth:       maxDepth,
		ViewDirection:  c.direction,
	}
}

func (c *cameraImpl) SetView(position, target, up mgl32.Vec3) error {
	if err := validateView(position, target, up); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = position
	c.target = target
	c.up = up
	c.updateMatrices()
	return nil
}

func (c *cameraImpl) SetOrthographicProjection(height, near, far float32) error {
	p := Projection{Type: ProjectionOrthographic, Height: height}
	if err := validateProjection(p, near, far); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection = p
	c.near = near
	c.far = far
	c.updateMatrices()
	return nil
}

func (c *cameraImpl) SetPerspectiveProjection(fov, near, far float32) error {
	p := Projection{Type: ProjectionPerspective, Fov: fov}
	if err := validateProjection(p, near, far); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection = p
	c.near = near
	c.far = far
	c.updateMatrices()
	return nil
}

func (c *cameraImpl) SetViewport(viewport common.Viewport) error {
	if !viewport.Valid() {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, viewport.Width, viewport.Height)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewport = viewport
	c.updateMatrices()
	return nil
}

func (c *cameraImpl) Yaw(degrees float32, pivot Pivot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rot := mgl32.QuatRotate(mgl32.DegToRad(degrees), c.up.Normalize())
	c.rotate(rot.Rotate(c.direction), pivot)
}

func (c *cameraImpl) Pitch(degrees float32, pivot Pivot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	rot := mgl32.QuatRotate(mgl32.DegToRad(degrees), c.right)
	dir := rot.Rotate(c.direction).Normalize()
	if math32.Abs(dir.Dot(c.up.Normalize())) > 1-pitchLimit {
		return false
	}
	c.rotate(dir, pivot)
	return true
}

func (c *cameraImpl) ViewDirectionAtPixel(pixel mgl32.Vec2) mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.projection.Type == ProjectionOrthographic {
		return c.direction
	}
	ndc := c.pixelToNDC(pixel)
	tanHalf := math32.Tan(c.projection.Fov / 2)
	x := ndc[0] * tanHalf * c.viewport.Aspect()
	y := ndc[1] * tanHalf
	return c.direction.Add(c.screenRight().Mul(x)).Add(c.screenUp.Mul(y)).Normalize()
}

func (c *cameraImpl) PositionAtPixel(pixel mgl32.Vec2) mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.projection.Type == ProjectionPerspective {
		return c.position
	}
	// clip depth 0 is the near plane
	return common.Unproject(mgl32.Vec3{pixel[0], pixel[1], 0}, c.inverseViewProjectionMatrix, c.viewport)
}

func (c *cameraImpl) InFrustum(box common.AABB) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frustum.IntersectsAABB(box)
}

// rotate replaces the view direction, keeping the distance between position and target and
// holding the pivot end fixed. Caller must hold the mutex.
func (c *cameraImpl) rotate(dir mgl32.Vec3, pivot Pivot) {
	dist := c.target.Sub(c.position).Len()
	dir = dir.Normalize()
	switch pivot {
	case PivotPosition:
		c.target = c.position.Add(dir.Mul(dist))
	default:
		c.position = c.target.Sub(dir.Mul(dist))
	}
	c.updateMatrices()
}

// pixelToNDC converts a window pixel to normalized device x, y with +y up.
// Caller must hold the mutex.
func (c *cameraImpl) pixelToNDC(pixel mgl32.Vec2) mgl32.Vec2 {
	vp := c.viewport
	return mgl32.Vec2{
		2*(pixel[0]-float32(vp.X))/float32(vp.Width) - 1,
		1 - 2*(pixel[1]-float32(vp.Y))/float32(vp.Height),
	}
}

// screenRight returns the unit vector towards the right edge of the screen.
// Caller must hold the mutex.
func (c *cameraImpl) screenRight() mgl32.Vec3 {
	return c.right.Mul(-1)
}

// validate checks the full camera state. Used once at construction.
func (c *cameraImpl) validate() error {
	if err := validateView(c.position, c.target, c.up); err != nil {
		return err
	}
	if err := validateProjection(c.projection, c.near, c.far); err != nil {
		return err
	}
	if !c.viewport.Valid() {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, c.viewport.Width, c.viewport.Height)
	}
	return nil
}

// updateMatrices recalculates every derived vector and matrix from position, target, up,
// projection and viewport. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.direction = c.target.Sub(c.position).Normalize()
	c.right = c.up.Cross(c.direction).Normalize()
	c.screenUp = c.direction.Cross(c.right).Normalize()

	c.viewMatrix = mgl32.LookAtV(c.position, c.target, c.up)

	aspect := c.viewport.Aspect()
	switch c.projection.Type {
	case ProjectionOrthographic:
		c.projectionMatrix = common.Orthographic(c.projection.Height, aspect, c.near, c.far)
	default:
		c.projectionMatrix = common.Perspective(c.projection.Fov, aspect, c.near, c.far)
	}

	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
	c.inverseViewProjectionMatrix = c.viewProjectionMatrix.Inv()
	c.frustum = common.ExtractFrustumFromMatrix(c.viewProjectionMatrix)
}

func validateView(position, target, up mgl32.Vec3) error {
	if !finiteVec(position) || !finiteVec(target) || !finiteVec(up) {
		return fmt.Errorf("%w: non-finite component", ErrInvalidView)
	}
	dir := target.Sub(position)
	if dir.Len() < minViewLength {
		return fmt.Errorf("%w: target %v coincides with position", ErrInvalidView, target)
	}
	if up.Len() == 0 {
		return fmt.Errorf("%w: zero up vector", ErrInvalidView)
	}
	if dir.Normalize().Cross(up.Normalize()).Len() < minUpSine {
		return fmt.Errorf("%w: up %v is parallel to the view direction", ErrInvalidView, up)
	}
	return nil
}

func validateProjection(p Projection, near, far float32) error {
	if !finite(near) || !finite(far) {
		return fmt.Errorf("%w: non-finite clip planes", ErrInvalidProjection)
	}
	switch p.Type {
	case ProjectionOrthographic:
		if !finite(p.Height) || p.Height <= 0 {
			return fmt.Errorf("%w: orthographic height %v must be positive", ErrInvalidProjection, p.Height)
		}
		if near == far {
			return fmt.Errorf("%w: near and far are both %v", ErrInvalidProjection, near)
		}
	case ProjectionPerspective:
		if !finite(p.Fov) || p.Fov <= 0 || p.Fov >= math32.Pi {
			return fmt.Errorf("%w: field of view %v out of (0, pi)", ErrInvalidProjection, p.Fov)
		}
		if near <= 0 || far <= near {
			return fmt.Errorf("%w: perspective requires 0 < near < far, got %v, %v", ErrInvalidProjection, near, far)
		}
	default:
		return fmt.Errorf("%w: unknown projection type %d", ErrInvalidProjection, p.Type)
	}
	return nil
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}

func finiteVec(v mgl32.Vec3) bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2])
}
