package engine

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/event"
	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
	"github.com/Carmen-Shannon/oxy-view/engine/scene"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrNoInputScene is returned by Pick when no active scene is registered.
var ErrNoInputScene = errors.New("engine: no active scene")

// engine implements the Engine interface.
// Coordinates the tick loop and the window's message loop.
type engine struct {
	mu *sync.Mutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window
	queue  event.Queue

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32, events []event.Event)

	scenes map[int]scene.Scene
}

// Engine is the main entry point for an interactive viewer.
// Once per tick it drains the event queue into a single batch, hands the batch to the input scene's
// camera controller and then to the tick callback.
type Engine interface {
	// Window returns the underlying window, nil for a headless engine.
	Window() window.Window

	// Events returns the queue drained every tick.
	Events() event.Queue

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick after the input scene has
	// handled the batch. Events the controller consumed are marked handled.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds and the tick's event batch
	SetTickCallback(callback func(deltaTime float32, events []event.Event))

	// AddScene registers a scene at the given z-index key.
	// The active scene with the highest key receives input.
	//
	// Parameters:
	//   - key: the z-index
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// InputScene returns the scene that currently receives input, nil if none is active.
	InputScene() scene.Scene

	// Pick picks against the input scene and records the pick's latency in the profiler.
	//
	// Parameters:
	//   - pixel: the pixel in physical coordinates, top-left origin
	//
	// Returns:
	//   - mgl32.Vec3: the hit point
	//   - bool: true if something was hit
	//   - error: ErrNoInputScene or a picker error
	Pick(pixel mgl32.Vec2) (mgl32.Vec3, bool, error)

	// Run starts the tick loop and, when a window is attached, the window's message loop.
	// Blocks until the window closes or Quit is called.
	Run()

	// Quit signals the tick loop to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Without a window the engine creates its own event queue, which the host feeds directly.
//
// Parameters:
//   - options: functional options for engine configuration (window, profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:               &sync.Mutex{},
		tickRateChannel:  make(chan time.Duration, 1),
		quitChannel:      make(chan struct{}),
		scenes:           make(map[int]scene.Scene),
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.queue = e.window.Events()
		e.window.SetResizeCallback(e.resize)
		e.resize(e.window.Width(), e.window.Height())
	} else if e.queue == nil {
		e.queue = event.NewQueue()
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Events() event.Queue {
	return e.queue
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.wg.Add(1)
	go e.handleEngine()

	if e.window != nil {
		e.window.ProcessMessages()
		e.Quit()
	}
	e.wg.Wait()
	slog.Info("engine stopped", "component", "Engine")
}

// Quit signals the tick loop to exit.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handleEngine runs the fixed-rate tick loop in its own goroutine.
// Listens for dynamic rate changes via tickRateChannel and exits when the quit channel is closed.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleEngine() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("tick goroutine recovered from panic", "component", "Engine", "panic", r)
			e.Quit()
		}
	}()

	e.mu.Lock()
	ticker := time.NewTicker(e.engineTickRate)
	e.mu.Unlock()
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now
			e.step(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.mu.Lock()
			e.engineTickRate = newRate
			e.mu.Unlock()
		}
	}
}

// step drains the queue and delivers the batch to the input scene and then the tick callback.
func (e *engine) step(dt float32) {
	batch := e.queue.Drain()

	if s := e.InputScene(); s != nil && len(batch) > 0 {
		s.HandleEvents(batch)
	}

	e.mu.Lock()
	callback, profiling := e.tickCallback, e.profilingEnabled
	e.mu.Unlock()

	if callback != nil {
		callback(dt, batch)
	}
	if profiling {
		e.profiler.Tick()
	}
}

// resize keeps every scene camera's viewport matched to the framebuffer.
func (e *engine) resize(width, height int) {
	viewport := common.NewViewportAtOrigin(width, height)
	if !viewport.Valid() {
		return
	}
	e.mu.Lock()
	scenes := make([]scene.Scene, 0, len(e.scenes))
	for _, s := range e.scenes {
		scenes = append(scenes, s)
	}
	e.mu.Unlock()

	for _, s := range scenes {
		if err := s.Camera().SetViewport(viewport); err != nil {
			slog.Warn("viewport rejected", "component", "Engine", "scene", s.Name(), "error", err)
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	e.mu.Lock()
	running := e.running
	if !running {
		e.engineTickRate = newRate
	}
	e.mu.Unlock()
	if !running {
		return
	}

	// Non-blocking send - if channel is full, replace the pending value
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32, events []event.Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scenes[key]
}

func (e *engine) InputScene() scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))
	for _, k := range keys {
		if s := e.scenes[k]; s.Active() {
			return s
		}
	}
	return nil
}

func (e *engine) Pick(pixel mgl32.Vec2) (mgl32.Vec3, bool, error) {
	s := e.InputScene()
	if s == nil {
		return mgl32.Vec3{}, false, ErrNoInputScene
	}

	start := time.Now()
	hit, ok, err := s.Pick(pixel)
	e.profiler.RecordPick(time.Since(start), ok)
	if err != nil {
		slog.Warn("pick failed", "component", "Engine", "scene", s.Name(), "error", err)
	}
	return hit, ok, err
}
