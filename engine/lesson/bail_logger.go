package lesson

import (
	"time"
)

// bailLogger rate-limits per-frame diagnostics to one line per reason per interval.
// Lines dropped in between are counted and reported with the next line for that reason.
type bailLogger struct {
	logf     func(format string, args ...any)
	clock    func() time.Duration
	interval time.Duration

	last       map[string]time.Duration
	suppressed map[string]int
}

func newBailLogger(logf func(format string, args ...any), clock func() time.Duration, interval time.Duration) *bailLogger {
	return &bailLogger{
		logf:       logf,
		clock:      clock,
		interval:   interval,
		last:       make(map[string]time.Duration),
		suppressed: make(map[string]int),
	}
}

// Printf logs the line unless the same reason was logged less than interval ago.
// Reports whether the line was written.
func (b *bailLogger) Printf(reason, format string, args ...any) bool {
	now := b.clock()
	if last, ok := b.last[reason]; ok && now-last < b.interval {
		b.suppressed[reason]++
		return false
	}

	if n := b.suppressed[reason]; n > 0 {
		format += " (%d similar suppressed)"
		args = append(args, n)
		b.suppressed[reason] = 0
	}
	b.last[reason] = now
	b.logf(format, args...)
	return true
}
