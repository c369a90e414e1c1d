package loader

import (
	"io"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-mipmap/common"
	"github.com/Carmen-Shannon/oxy-mipmap/engine/mipmap"
	"github.com/Carmen-Shannon/oxy-mipmap/engine/profiler"
	"github.com/Carmen-Shannon/oxy-mipmap/engine/renderer/texture"
	"github.com/cockroachdb/errors"
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	generator mipmap.Generator
	uploader  texture.Uploader
	logger    *log.Logger
	profiler  *profiler.Profiler

	textureCache map[string]texture.TextureHandle
}

// Loader decodes images, builds their mipmap chains and records their upload into GPU textures.
// Errors from generation and upload are returned unwrapped.
// Textures loaded by key are cached; the caller owns every returned texture but must not release
// a cached one without calling Evict.
type Loader interface {
	// LoadImage generates the mipmap chain of img and uploads it. The result is not cached.
	//
	// Parameters:
	//   - device: the device that creates the texture and transfer buffers
	//   - encoder: the encoder the copy commands are recorded into
	//   - img: the square source image
	//
	// Returns:
	//   - texture.TextureHandle: the created texture
	//   - error: a validation error from generation or a GPU resource error from upload
	LoadImage(device texture.Device, encoder texture.CommandEncoder, img common.SourceImage) (texture.TextureHandle, error)

	// Load decodes an imported texture and loads it, caching the result under the texture's key.
	// A cached texture is returned without any device or encoder call.
	//
	// Parameters:
	//   - device: the device that creates the texture and transfer buffers
	//   - encoder: the encoder the copy commands are recorded into
	//   - tex: the encoded texture, from memory or disk
	//
	// Returns:
	//   - texture.TextureHandle: the created or cached texture
	//   - error: error if decoding, generation or upload fails
	Load(device texture.Device, encoder texture.CommandEncoder, tex *common.ImportedTexture) (texture.TextureHandle, error)

	// LoadFile loads the image file at path, cached by path.
	//
	// Parameters:
	//   - device: the device that creates the texture and transfer buffers
	//   - encoder: the encoder the copy commands are recorded into
	//   - path: the image file path
	//
	// Returns:
	//   - texture.TextureHandle: the created or cached texture
	//   - error: error if loading fails
	LoadFile(device texture.Device, encoder texture.CommandEncoder, path string) (texture.TextureHandle, error)

	// LoadBytes loads encoded image bytes, cached by name.
	//
	// Parameters:
	//   - device: the device that creates the texture and transfer buffers
	//   - encoder: the encoder the copy commands are recorded into
	//   - name: the cache key
	//   - data: the encoded image bytes
	//
	// Returns:
	//   - texture.TextureHandle: the created or cached texture
	//   - error: error if loading fails
	LoadBytes(device texture.Device, encoder texture.CommandEncoder, name string, data []byte) (texture.TextureHandle, error)

	// Texture retrieves a cached texture by key.
	//
	// Parameters:
	//   - key: the cache key
	//
	// Returns:
	//   - texture.TextureHandle: the cached texture, or nil
	//   - bool: true if the key was cached
	Texture(key string) (texture.TextureHandle, bool)

	// Evict removes a texture from the cache and releases it.
	//
	// Parameters:
	//   - key: the cache key
	//
	// Returns:
	//   - bool: true if a texture was evicted
	Evict(key string) bool
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the specified options applied.
// Defaults to a Generator with mipmap.DefaultMaxLevels, an uploader labelling textures by cache key
// and logging to log.Default(), with profiling disabled.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided options
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:           sync.RWMutex{},
		logger:       log.Default(),
		textureCache: make(map[string]texture.TextureHandle),
	}

	for _, option := range options {
		option(l)
	}

	if l.logger == nil {
		l.logger = log.New(io.Discard, "", 0)
	}
	if l.generator == nil {
		l.generator = mipmap.NewGenerator()
	}
	return l
}

func (l *loader) LoadImage(device texture.Device, encoder texture.CommandEncoder, img common.SourceImage) (texture.TextureHandle, error) {
	return l.load(device, encoder, "", img)
}

func (l *loader) Load(device texture.Device, encoder texture.CommandEncoder, tex *common.ImportedTexture) (texture.TextureHandle, error) {
	if tex == nil {
		return nil, errors.New("texture is nil")
	}

	key := tex.Key()
	if cached, ok := l.Texture(key); ok && key != "" {
		return cached, nil
	}

	end := l.profiler.Begin("decode " + key)
	img, err := tex.Decode()
	end()
	if err != nil {
		return nil, err
	}

	handle, err := l.load(device, encoder, key, img)
	if err != nil {
		return nil, err
	}

	if key != "" {
		l.mu.Lock()
		l.textureCache[key] = handle
		l.mu.Unlock()
	}

	return handle, nil
}

func (l *loader) LoadFile(device texture.Device, encoder texture.CommandEncoder, path string) (texture.TextureHandle, error) {
	return l.Load(device, encoder, &common.ImportedTexture{Path: path})
}

func (l *loader) LoadBytes(device texture.Device, encoder texture.CommandEncoder, name string, data []byte) (texture.TextureHandle, error) {
	return l.Load(device, encoder, &common.ImportedTexture{Name: name, Data: data})
}

func (l *loader) Texture(key string) (texture.TextureHandle, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	t, ok := l.textureCache[key]
	return t, ok
}

func (l *loader) Evict(key string) bool {
	l.mu.Lock()
	t, ok := l.textureCache[key]
	delete(l.textureCache, key)
	l.mu.Unlock()

	if ok {
		t.Release()
	}
	return ok
}

// load runs generation and upload for one image. The label is used when no uploader was configured.
func (l *loader) load(device texture.Device, encoder texture.CommandEncoder, label string, img common.SourceImage) (texture.TextureHandle, error) {
	end := l.profiler.Begin("mipmap generate " + label)
	chain, err := l.generator.Generate(img)
	end()
	if err != nil {
		return nil, err
	}

	up := l.uploader
	if up == nil {
		up = texture.NewUploader(texture.WithLabel(label), texture.WithLogger(l.logger))
	}

	end = l.profiler.Begin("texture upload " + label)
	handle, err := up.Upload(device, encoder, chain)
	end()
	if err != nil {
		return nil, err
	}

	l.logger.Printf("[Loader] loaded %s: %dx%d, %d mip levels", handle.Descriptor().Label, chain.Side(), chain.Side(), chain.Len())
	return handle, nil
}
