package loader

import (
	"log"

	"github.com/Carmen-Shannon/oxy-mipmap/engine/mipmap"
	"github.com/Carmen-Shannon/oxy-mipmap/engine/profiler"
	"github.com/Carmen-Shannon/oxy-mipmap/engine/renderer/texture"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithGenerator is an option builder that sets the mipmap Generator used by the Loader.
//
// Parameters:
//   - g: the generator instance
//
// Returns:
//   - LoaderBuilderOption: a function that applies the generator option to a loader
func WithGenerator(g mipmap.Generator) LoaderBuilderOption {
	return func(l *loader) {
		l.generator = g
	}
}

// WithUploader is an option builder that sets the texture Uploader used by the Loader.
// A configured uploader keeps its own label and logger settings.
//
// Parameters:
//   - u: the uploader instance
//
// Returns:
//   - LoaderBuilderOption: a function that applies the uploader option to a loader
func WithUploader(u texture.Uploader) LoaderBuilderOption {
	return func(l *loader) {
		l.uploader = u
	}
}

// WithLogger is an option builder that sets the logger for load progress. A nil logger discards output.
//
// Parameters:
//   - logger: the destination logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *log.Logger) LoaderBuilderOption {
	return func(l *loader) {
		l.logger = logger
	}
}

// WithProfiler is an option builder that enables phase timing with the given Profiler.
//
// Parameters:
//   - p: the profiler instance, nil to disable profiling
//
// Returns:
//   - LoaderBuilderOption: a function that applies the profiler option to a loader
func WithProfiler(p *profiler.Profiler) LoaderBuilderOption {
	return func(l *loader) {
		l.profiler = p
	}
}

// WithTexture is an option builder that pre-populates the texture cache.
//
// Parameters:
//   - key: the cache key for the texture
//   - t: the texture to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the texture option to a loader
func WithTexture(key string, t texture.TextureHandle) LoaderBuilderOption {
	return func(l *loader) {
		l.textureCache[key] = t
	}
}
