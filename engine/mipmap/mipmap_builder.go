package mipmap

// GeneratorBuilderOption is a functional option used to configure a Generator during construction.
type GeneratorBuilderOption func(*generator)

// WithMaxLevels sets the maximum number of levels in generated chains, including level 0.
// A value below 1 makes every Generate call fail with ErrInvalidLevelCount.
//
// Parameters:
//   - levels: the level cap
//
// Returns:
//   - GeneratorBuilderOption: a function that applies the level cap to a generator
func WithMaxLevels(levels uint32) GeneratorBuilderOption {
	return func(g *generator) {
		g.maxLevels = levels
	}
}

// WithWorkers sets the number of workers used by GenerateAll. Values below 1 are ignored.
//
// Parameters:
//   - workers: the worker count
//
// Returns:
//   - GeneratorBuilderOption: a function that applies the worker count to a generator
func WithWorkers(workers int) GeneratorBuilderOption {
	return func(g *generator) {
		if workers > 0 {
			g.workers = workers
		}
	}
}

// WithQueueSize sets the task queue capacity of the GenerateAll worker pool. Values below 1 are ignored.
//
// Parameters:
//   - size: the queue capacity
//
// Returns:
//   - GeneratorBuilderOption: a function that applies the queue size to a generator
func WithQueueSize(size int) GeneratorBuilderOption {
	return func(g *generator) {
		if size > 0 {
			g.queueSize = size
		}
	}
}
