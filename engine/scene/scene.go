package scene

import (
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/event"
	"github.com/Carmen-Shannon/oxy-view/engine/game_object"
	"github.com/Carmen-Shannon/oxy-view/engine/picker"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// Scene ties a Camera, the CameraController driving it and a registry of GameObjects together.
// Input batches are routed to the active controller and picks run against the registered
// objects. Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene currently receives input.
	Active() bool

	// SetActive sets whether this scene receives input.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Renderer returns the renderer used for picking.
	Renderer() renderer.Renderer

	// SetRenderer replaces the renderer used for picking.
	//
	// Parameters:
	//   - r: the new renderer
	SetRenderer(r renderer.Renderer)

	// Controller returns the controller that receives input, nil if none.
	Controller() camera.CameraController

	// SetController replaces the controller that receives input.
	//
	// Parameters:
	//   - c: the new controller, nil to ignore input
	SetController(c camera.CameraController)

	// PickDepth returns the furthest distance considered by Pick. Zero means the camera's far plane.
	PickDepth() float32

	// SetPickDepth sets the furthest distance considered by Pick.
	//
	// Parameters:
	//   - depth: the distance, or zero to follow the camera's far plane
	SetPickDepth(depth float32)

	// Count returns the number of GameObjects in the registry.
	Count() int

	// Add registers a GameObject, assigning it an ID if it has none.
	//
	// Parameters:
	//   - obj: the GameObject to add
	//
	// Returns:
	//   - uint64: the object's ID
	Add(obj game_object.GameObject) uint64

	// Get retrieves a GameObject by its ID. Returns nil if not found.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove removes a GameObject from the registry by ID.
	//
	// Parameters:
	//   - id: the object's unique ID
	Remove(id uint64)

	// Clear removes all objects from the scene.
	Clear()

	// Objects returns the registered GameObjects ordered by ID.
	Objects() []game_object.GameObject

	// HandleEvents hands a frame's event batch to the controller. Inactive scenes and scenes
	// without a controller ignore input.
	//
	// Parameters:
	//   - events: the frame's event batch
	//
	// Returns:
	//   - bool: the controller's result, false if no controller ran
	HandleEvents(events []event.Event) bool

	// Pick returns the world-space point under the pixel, if any registered object covers it.
	// Pixels outside the camera's viewport miss without rendering.
	//
	// Parameters:
	//   - pixel: the pixel in physical coordinates, top-left origin
	//
	// Returns:
	//   - mgl32.Vec3: the hit point
	//   - bool: true if something was hit
	//   - error: a picker error
	Pick(pixel mgl32.Vec2) (mgl32.Vec3, bool, error)
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu     *sync.RWMutex
	name   string
	active bool

	cam        camera.Camera
	r          renderer.Renderer
	controller camera.CameraController
	pickDepth  float32

	registry map[uint64]game_object.GameObject
	nextID   uint64
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene around the given camera and renderer. Both are required and
// NewScene panics if either is nil.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - r: the renderer used for picking (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		mu:       &sync.RWMutex{},
		name:     name,
		active:   true,
		cam:      cam,
		r:        r,
		registry: make(map[uint64]game_object.GameObject),
		nextID:   1,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r
}

func (s *scene) SetRenderer(r renderer.Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r = r
}

func (s *scene) Controller() camera.CameraController {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.controller
}

func (s *scene) SetController(c camera.CameraController) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controller = c
	if c != nil {
		slog.Debug("controller switched", "component", "Scene", "scene", s.name, "controller", c.Kind().String())
	}
}

func (s *scene) PickDepth() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pickDepth
}

func (s *scene) SetPickDepth(depth float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pickDepth = depth
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if obj.ID() == 0 {
		obj.SetID(atomic.AddUint64(&s.nextID, 1) - 1)
	}
	s.registry[obj.ID()] = obj
	return obj.ID()
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.registry, id)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.registry)
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]game_object.GameObject, 0, len(s.registry))
	for _, obj := range s.registry {
		out = append(out, obj)
	}
	slices.SortFunc(out, func(a, b game_object.GameObject) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		default:
			return 0
		}
	})
	return out
}

func (s *scene) HandleEvents(events []event.Event) bool {
	s.mu.RLock()
	active, cam, controller := s.active, s.cam, s.controller
	s.mu.RUnlock()

	if !active || controller == nil {
		return false
	}
	return controller.HandleEvents(cam, events)
}

func (s *scene) Pick(pixel mgl32.Vec2) (mgl32.Vec3, bool, error) {
	s.mu.RLock()
	cam, r, depth := s.cam, s.r, s.pickDepth
	s.mu.RUnlock()

	if !cam.Viewport().Contains(pixel) {
		return mgl32.Vec3{}, false, nil
	}
	if depth <= 0 {
		depth = cam.Far()
	}
	objects := s.Objects()
	geometries := make([]picker.Geometry, len(objects))
	for i, obj := range objects {
		geometries[i] = obj
	}
	return picker.Pick(r, cam, pixel, depth, geometries)
}
