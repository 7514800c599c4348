package event

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Queue collects events from platform callbacks until the frame update drains them.
// Push may be called from any goroutine.
type Queue interface {
	// Push appends an event to the pending batch.
	//
	// Parameters:
	//   - e: the event to append
	Push(e Event)

	// Drain returns all pending events in delivery order and empties the queue.
	// Returns an empty, non-nil slice when nothing is pending.
	//
	// Returns:
	//   - []Event: the frame's event batch
	Drain() []Event

	// Len returns the number of pending events.
	//
	// Returns:
	//   - int: pending event count
	Len() int

	// Modifiers returns the most recent modifier state seen by the queue.
	//
	// Returns:
	//   - Modifiers: the current modifier state
	Modifiers() Modifiers

	// CursorPosition returns the most recent pointer position seen by the queue.
	//
	// Returns:
	//   - mgl32.Vec2: the pointer position in physical pixels
	CursorPosition() mgl32.Vec2
}

type queueImpl struct {
	mu *sync.Mutex

	pending   []Event
	modifiers Modifiers
	cursor    mgl32.Vec2
}

var _ Queue = &queueImpl{}

// NewQueue creates an empty event queue.
//
// Returns:
//   - Queue: the new queue
func NewQueue() Queue {
	return &queueImpl{
		mu:      &sync.Mutex{},
		pending: make([]Event, 0, 32),
	}
}

func (q *queueImpl) Push(e Event) {
	if e == nil {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	switch ev := e.(type) {
	case *ModifiersChange:
		q.modifiers = ev.Modifiers
	case *MouseMotion:
		q.cursor = ev.Position
	case *MouseWheel:
		q.cursor = ev.Position
	case *MousePress:
		q.cursor = ev.Position
	case *MouseRelease:
		q.cursor = ev.Position
	}
	q.pending = append(q.pending, e)
}

func (q *queueImpl) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	batch := q.pending
	q.pending = make([]Event, 0, cap(batch))
	return batch
}

func (q *queueImpl) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *queueImpl) Modifiers() Modifiers {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.modifiers
}

func (q *queueImpl) CursorPosition() mgl32.Vec2 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.cursor
}
