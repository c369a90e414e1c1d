package loader

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-mipmap/common"
	"github.com/Carmen-Shannon/oxy-mipmap/engine/mipmap"
	"github.com/Carmen-Shannon/oxy-mipmap/engine/profiler"
	"github.com/Carmen-Shannon/oxy-mipmap/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-mipmap/engine/renderer/texture/recording"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = log.New(io.Discard, "", 0)

func encodePNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadImage(t *testing.T) {
	backend := recording.NewBackend()
	l := NewLoader(WithLogger(quiet), WithGenerator(mipmap.NewGenerator(mipmap.WithMaxLevels(3))))

	img := common.SourceImage{Pixels: bytes.Repeat([]byte{10, 20, 30, 255}, 16*16), Width: 16, Height: 16}
	tex, err := l.LoadImage(backend, backend, img)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), tex.Descriptor().MipLevelCount)
	assert.Len(t, backend.Copies(), 3)
}

func TestLoadBytesCaches(t *testing.T) {
	backend := recording.NewBackend()
	l := NewLoader(WithLogger(quiet))

	data := encodePNG(t, 8, 8, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	tex, err := l.LoadBytes(backend, backend, "dirt", data)
	require.NoError(t, err)
	assert.Equal(t, "dirt", tex.Descriptor().Label)
	assert.Equal(t, uint32(4), tex.Descriptor().MipLevelCount)

	calls := len(backend.Calls())
	again, err := l.LoadBytes(backend, backend, "dirt", data)
	require.NoError(t, err)
	assert.Same(t, tex, again)
	assert.Len(t, backend.Calls(), calls, "cached textures make no device calls")

	cached, ok := l.Texture("dirt")
	require.True(t, ok)
	assert.Same(t, tex, cached)

	last := backend.Copies()[3]
	assert.Equal(t, []byte{200, 100, 50, 255}, last.Data)

	require.True(t, l.Evict("dirt"))
	assert.True(t, backend.Textures()[0].Released())
	assert.False(t, l.Evict("dirt"))
	_, ok = l.Texture("dirt")
	assert.False(t, ok)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leaves.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, 4, 4, color.RGBA{G: 128, A: 255}), 0o644))

	backend := recording.NewBackend()
	p := profiler.NewProfiler(quiet)
	l := NewLoader(WithLogger(quiet), WithProfiler(p))

	tex, err := l.LoadFile(backend, backend, path)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), tex.Descriptor().MipLevelCount)

	_, ok := l.Texture(filepath.Clean(path))
	assert.True(t, ok)

	phases := p.Phases()
	require.Len(t, phases, 3)
	assert.Equal(t, "decode "+filepath.Clean(path), phases[0].Name)
	assert.Equal(t, "mipmap generate "+filepath.Clean(path), phases[1].Name)
	assert.Equal(t, "texture upload "+filepath.Clean(path), phases[2].Name)
}

func TestLoadErrors(t *testing.T) {
	backend := recording.NewBackend()
	l := NewLoader(WithLogger(quiet))

	_, err := l.LoadBytes(backend, backend, "wide", encodePNG(t, 8, 4, color.RGBA{A: 255}))
	assert.True(t, errors.Is(err, common.ErrDimensionMismatch))
	assert.Empty(t, backend.Calls())
	_, ok := l.Texture("wide")
	assert.False(t, ok)

	_, err = l.LoadBytes(backend, backend, "garbage", []byte("not an image"))
	assert.Error(t, err)

	_, err = l.LoadFile(backend, backend, filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	_, err = l.Load(backend, backend, nil)
	assert.Error(t, err)
}

func TestLoadGpuError(t *testing.T) {
	oom := errors.New("out of memory")
	backend := recording.NewBackend(recording.WithFailure(recording.CallCreateTexture, 1, oom))
	l := NewLoader(WithLogger(quiet))

	_, err := l.LoadBytes(backend, backend, "sand", encodePNG(t, 2, 2, color.RGBA{A: 255}))
	require.Error(t, err)
	assert.True(t, common.IsGpuResourceError(err))
	assert.True(t, errors.Is(err, oom))
	_, ok := l.Texture("sand")
	assert.False(t, ok)
}

func TestWithUploaderAndTexture(t *testing.T) {
	backend := recording.NewBackend()
	pre, err := backend.CreateTexture(texture.NewMipmapDescriptor("pre", 1, 1))
	require.NoError(t, err)

	l := NewLoader(
		WithLogger(nil),
		WithUploader(texture.NewUploader(texture.WithLabel("shared"), texture.WithLogger(nil))),
		WithTexture("pre", pre),
	)

	cached, ok := l.Texture("pre")
	require.True(t, ok)
	assert.Same(t, pre, cached)

	tex, err := l.LoadBytes(backend, backend, "water", encodePNG(t, 2, 2, color.RGBA{B: 255, A: 255}))
	require.NoError(t, err)
	assert.Equal(t, "shared", tex.Descriptor().Label)
}
