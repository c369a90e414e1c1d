package profiler

import (
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/loov/hrtime"
)

// Phase is one timed section recorded by a Profiler.
type Phase struct {
	// Name identifies the section (e.g., "mipmap generate").
	Name string
	// Duration is the wall time spent in the section.
	Duration time.Duration
	// AllocBytes is the number of heap bytes allocated process-wide while the section ran.
	AllocBytes uint64
}

// Profiler times named phases of texture loading and tracks their allocation churn.
// Outputs one line per phase to its logger. A nil *Profiler is valid and records nothing.
type Profiler struct {
	mu     sync.Mutex
	logger *log.Logger
	phases []Phase
}

// NewProfiler creates a new Profiler logging to logger, or to log.Default() when logger is nil.
//
// Parameters:
//   - logger: the destination of phase lines
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(logger *log.Logger) *Profiler {
	if logger == nil {
		logger = log.Default()
	}
	return &Profiler{logger: logger}
}

// Begin starts timing a phase. The returned function ends it, records it and logs it.
// The end function must be called once.
//
// Parameters:
//   - name: the phase name
//
// Returns:
//   - func(): ends the phase
func (p *Profiler) Begin(name string) func() {
	if p == nil {
		return func() {}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	startAlloc := memStats.TotalAlloc
	start := hrtime.Now()

	return func() {
		elapsed := hrtime.Since(start)
		runtime.ReadMemStats(&memStats)
		// TotalAlloc only grows, so the delta is the allocation churn of the phase.
		phase := Phase{
			Name:       name,
			Duration:   elapsed,
			AllocBytes: memStats.TotalAlloc - startAlloc,
		}

		p.mu.Lock()
		p.phases = append(p.phases, phase)
		p.mu.Unlock()

		p.logger.Printf("[Profiler] %s: %s | Alloc: %.2f MB", name, elapsed, float64(phase.AllocBytes)/1024/1024)
	}
}

// Phases retrieves every phase recorded so far.
//
// Returns:
//   - []Phase: the recorded phases, in completion order
func (p *Profiler) Phases() []Phase {
	if p == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]Phase(nil), p.phases...)
}

// Reset discards every recorded phase.
func (p *Profiler) Reset() {
	if p == nil {
		return
	}

	p.mu.Lock()
	p.phases = nil
	p.mu.Unlock()
}
