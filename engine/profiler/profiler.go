package profiler

import (
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// Stats is one interval's worth of measurements.
type Stats struct {
	TicksPerSecond float64
	HeapMB         float64
	AllocRateMB    float64
	GCCount        uint32
	Picks          int
	PickHits       int
	AvgPick        time.Duration
	MaxPick        time.Duration
}

// Profiler tracks tick rate, pick latency and memory statistics.
// Outputs stats through slog at a configurable interval.
type Profiler struct {
	mu             *sync.Mutex
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64

	picks     int
	pickHits  int
	pickTotal time.Duration
	pickMax   time.Duration

	now func() time.Time
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		mu:             &sync.Mutex{},
		lastTime:       time.Now(),
		updateInterval: time.Second,
		now:            time.Now,
	}
}

// RecordPick adds one pick's latency to the current interval.
//
// Parameters:
//   - d: how long the pick took
//   - hit: whether it hit anything
func (p *Profiler) RecordPick(d time.Duration, hit bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.picks++
	if hit {
		p.pickHits++
	}
	p.pickTotal += d
	p.pickMax = max(p.pickMax, d)
}

// Tick should be called once per engine tick.
// Logs statistics when the update interval has elapsed and starts a new interval.
//
// Returns:
//   - Stats: the finished interval's statistics
//   - bool: true if an interval finished this tick
func (p *Profiler) Tick() (Stats, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Stats{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	stats := Stats{
		TicksPerSecond: float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:         float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:    float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:        p.memStats.NumGC,
		Picks:          p.picks,
		PickHits:       p.pickHits,
		MaxPick:        p.pickMax,
	}
	if p.picks > 0 {
		stats.AvgPick = p.pickTotal / time.Duration(p.picks)
	}

	slog.Info("stats",
		"component", "Profiler",
		"tps", stats.TicksPerSecond,
		"heap_mb", stats.HeapMB,
		"alloc_rate_mb", stats.AllocRateMB,
		"gc", stats.GCCount,
		"picks", stats.Picks,
		"pick_hits", stats.PickHits,
		"pick_avg", stats.AvgPick,
		"pick_max", stats.MaxPick,
	)

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.picks, p.pickHits, p.pickTotal, p.pickMax = 0, 0, 0, 0
	return stats, true
}
