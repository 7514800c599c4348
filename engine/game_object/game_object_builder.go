package game_object

import (
	"github.com/Carmen-Shannon/oxy-view/engine/model"
)

// GameObjectBuilderOption configures a GameObject in NewGameObject.
type GameObjectBuilderOption func(*gameObject)

// WithID presets the object's ID. Scenes assign one on Add when it is left at zero.
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithEnabled starts the object disabled when false. Disabled objects are skipped by picks.
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithModel attaches the mesh whose depth the object draws.
//
// Parameters:
//   - m: the model, shared freely between objects
//
// Returns:
//   - GameObjectBuilderOption: the option
func WithModel(m model.Model) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mdl = m
	}
}

// WithPosition places the object's origin in world space.
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = [3]float32{x, y, z}
	}
}

// WithScale scales the model about its origin. The default is 1 on every axis.
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = [3]float32{sx, sy, sz}
	}
}

// WithRotation sets Euler angles in degrees, applied about X, then Y, then Z.
//
// Parameters:
//   - rx, ry, rz: rotation about each world axis
//
// Returns:
//   - GameObjectBuilderOption: the option
func WithRotation(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = [3]float32{rx, ry, rz}
	}
}
