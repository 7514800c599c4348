package model

import (
	"fmt"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

var nextModelID atomic.Uint64

// model is the implementation of the Model interface.
type model struct {
	name           string
	key            string
	positions      []mgl32.Vec3
	indices        []uint32
	bounds         common.AABB
	boundingRadius float32
}

// Model defines the interface for an immutable indexed triangle mesh in model space.
// A Model carries no transform; game objects place it in the world.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Key returns an identifier unique to this model instance, used to cache its GPU buffers.
	//
	// Returns:
	//   - string: the cache key
	Key() string

	// Positions returns the model-space vertex positions.
	//
	// Returns:
	//   - []mgl32.Vec3: the vertex positions
	Positions() []mgl32.Vec3

	// Indices returns the triangle list indices.
	//
	// Returns:
	//   - []uint32: the indices, three per triangle
	Indices() []uint32

	// IndexCount returns the number of indices in the model's mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// Bounds returns the model-space bounding box.
	//
	// Returns:
	//   - common.AABB: the bounds, empty for a model without vertices
	Bounds() common.AABB

	// BoundingRadius returns the bounding sphere radius for this model, measured as
	// the maximum vertex distance from the origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// DepthMesh packages the model for a depth draw under the given model matrix.
	//
	// Parameters:
	//   - transform: the model-to-world matrix
	//
	// Returns:
	//   - *renderer.DepthMesh: the mesh, sharing this model's vertex and index slices
	DepthMesh(transform mgl32.Mat4) *renderer.DepthMesh
}

var _ Model = &model{}

// NewModel creates a Model from the supplied options. It panics if the indices do not form
// whole triangles within the vertex range.
//
// Parameters:
//   - options: functional options to configure the model
//
// Returns:
//   - Model: the newly created model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, option := range options {
		option(m)
	}
	m.key = fmt.Sprintf("%s#%d", m.name, nextModelID.Add(1))

	mesh := renderer.DepthMesh{Positions: m.positions, Indices: m.indices}
	if err := mesh.Validate(); err != nil {
		panic(fmt.Sprintf("failed to create model %q: %v", m.name, err))
	}

	m.bounds = common.NewAABB(m.positions...)
	for _, p := range m.positions {
		m.boundingRadius = max(m.boundingRadius, p.Len())
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Key() string {
	return m.key
}

func (m *model) Positions() []mgl32.Vec3 {
	return m.positions
}

func (m *model) Indices() []uint32 {
	return m.indices
}

func (m *model) IndexCount() int {
	return len(m.indices)
}

func (m *model) Bounds() common.AABB {
	return m.bounds
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) DepthMesh(transform mgl32.Mat4) *renderer.DepthMesh {
	return &renderer.DepthMesh{
		Key:       m.key,
		Positions: m.positions,
		Indices:   m.indices,
		Model:     transform,
	}
}
