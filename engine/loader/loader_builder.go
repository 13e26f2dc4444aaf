package loader

import "github.com/Carmen-Shannon/automation/tools/worker"

// LoaderBuilderOption is a functional option applied to a loader during construction via NewLoader.
type LoaderBuilderOption func(*loader)

// WithWorkers sets the maximum number of goroutines packing objects in parallel.
//
// Parameters:
//   - n: the worker count, ignored when not positive
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithWorkerPool shares an existing pool instead of creating one.
func WithWorkerPool(pool worker.DynamicWorkerPool) LoaderBuilderOption {
	return func(l *loader) {
		l.pool = pool
	}
}
