package profiler

import "time"

// ProfilerBuilderOption is a functional option applied to a profiler during construction via NewProfiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often stats are logged. Non-positive values are ignored.
func WithInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithClock replaces the monotonic clock, mainly for tests.
func WithClock(clock func() time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithLogf replaces the log sink.
func WithLogf(logf func(format string, args ...any)) ProfilerBuilderOption {
	return func(p *Profiler) {
		if logf != nil {
			p.logf = logf
		}
	}
}
