package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithPositions is an option builder that sets the model-space vertex positions.
//
// Parameters:
//   - positions: the vertex positions; the slice is retained, not copied
//
// Returns:
//   - ModelBuilderOption: a function that applies the positions option to a model
func WithPositions(positions []mgl32.Vec3) ModelBuilderOption {
	return func(m *model) {
		m.positions = positions
	}
}

// WithIndices is an option builder that sets the triangle list indices.
//
// Parameters:
//   - indices: three indices per triangle, counter-clockwise seen from the front
//
// Returns:
//   - ModelBuilderOption: a function that applies the indices option to a model
func WithIndices(indices []uint32) ModelBuilderOption {
	return func(m *model) {
		m.indices = indices
	}
}
