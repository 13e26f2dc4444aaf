package profiler

import (
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/loov/hrtime"
)

// Stats is the summary of one profiler interval.
type Stats struct {
	FPS     float64
	Frames  int
	Skipped int
	HeapMB  float64
}

// Profiler tracks frame rate, skipped frames and heap usage, logging a summary at a fixed
// interval.
type Profiler struct {
	mu sync.Mutex

	clock          func() time.Duration
	logf           func(format string, args ...any)
	updateInterval time.Duration

	frameCount   int
	skippedCount int
	lastTime     time.Duration
	last         Stats
	memStats     runtime.MemStats
}

// NewProfiler creates a Profiler. The update interval defaults to 1 second and the clock to
// the high-resolution monotonic clock.
//
// Parameters:
//   - options: variadic list of ProfilerBuilderOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		clock:          hrtime.Now,
		logf:           log.Printf,
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.clock()
	return p
}

// FrameSkipped records that the current frame bailed out before drawing.
func (p *Profiler) FrameSkipped() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.skippedCount++
}

// Tick should be called once per frame. When the update interval has elapsed it logs the
// frame rate, the number of skipped frames and heap usage, then starts a new interval.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	now := p.clock()
	elapsed := now - p.lastTime
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	p.last = Stats{
		FPS:     float64(p.frameCount) / elapsed.Seconds(),
		Frames:  p.frameCount,
		Skipped: p.skippedCount,
		HeapMB:  float64(p.memStats.Alloc) / 1024 / 1024,
	}
	p.logf("[Profiler] FPS: %.2f | Skipped: %d/%d | Heap: %.2f MB | GC: %d",
		p.last.FPS, p.last.Skipped, p.last.Frames, p.last.HeapMB, p.memStats.NumGC)

	p.frameCount = 0
	p.skippedCount = 0
	p.lastTime = now
	return true
}

// Last returns the stats of the most recently completed interval.
func (p *Profiler) Last() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
