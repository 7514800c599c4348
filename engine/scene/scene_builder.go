package scene

import (
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/game_object"
)

// SceneBuilderOption configures a scene in NewScene.
type SceneBuilderOption func(s *scene)

// WithActive starts the scene inactive when false. Inactive scenes ignore input.
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithObjects registers the initial objects, numbering any whose ID is zero from 1 upwards.
//
// Parameters:
//   - objects: the objects to register
//
// Returns:
//   - SceneBuilderOption: the option
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		for _, obj := range objects {
			if obj.ID() == 0 {
				obj.SetID(s.nextID)
				s.nextID++
			}
			s.registry[obj.ID()] = obj
		}
	}
}

// WithController sets the controller that receives the scene's input.
//
// Parameters:
//   - c: the controller
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithController(c camera.CameraController) SceneBuilderOption {
	return func(s *scene) {
		s.controller = c
	}
}

// WithPickDepth sets the furthest distance considered by Pick. Defaults to the camera's far plane.
//
// Parameters:
//   - depth: the pick distance
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPickDepth(depth float32) SceneBuilderOption {
	return func(s *scene) {
		s.pickDepth = depth
	}
}
