package texture

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestrideRowsAligned(t *testing.T) {
	data := make([]byte, 256*2)
	for i := range data {
		data[i] = byte(i)
	}

	out, err := restrideRows(data, 0, 256, 256, 2)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestRestrideRowsPadded(t *testing.T) {
	// 2x2 RGBA level: 8 bytes per row padded to 256.
	data := []byte{
		1, 2, 3, 4, 5, 6, 7, 8,
		9, 10, 11, 12, 13, 14, 15, 16,
	}

	out, err := restrideRows(data, 0, 8, 256, 2)
	require.NoError(t, err)
	require.Len(t, out, 512)
	assert.Equal(t, data[:8], out[:8])
	assert.Equal(t, make([]byte, 248), out[8:256])
	assert.Equal(t, data[8:], out[256:264])
}

func TestRestrideRowsOffset(t *testing.T) {
	data := []byte{0xff, 0xff, 1, 2, 3, 4}

	out, err := restrideRows(data, 2, 4, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, out)
}

func TestRestrideRowsShort(t *testing.T) {
	_, err := restrideRows(make([]byte, 12), 0, 8, 256, 2)
	assert.Error(t, err)
}

func TestToWGPU(t *testing.T) {
	f, err := toWGPUFormat(TextureFormatRGBA8Unorm)
	require.NoError(t, err)
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, f)

	_, err = toWGPUFormat(TextureFormat(0))
	assert.Error(t, err)

	assert.Equal(t, wgpu.TextureUsageCopyDst|wgpu.TextureUsageTextureBinding, toWGPUUsage(TextureUsageCopyDst|TextureUsageSampled))
	assert.Equal(t, wgpu.TextureUsageCopyDst, toWGPUUsage(TextureUsageCopyDst))
}

func TestWGPUTransferBufferWrite(t *testing.T) {
	dev := NewWGPUDevice(nil)

	_, err := dev.CreateTransferBuffer(0)
	assert.Error(t, err)

	buf, err := dev.CreateTransferBuffer(8)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), buf.Size())

	require.NoError(t, buf.Write(4, []byte{1, 2, 3, 4}))
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 2, 3, 4}, buf.(*wgpuTransferBuffer).data)
	assert.Error(t, buf.Write(6, []byte{1, 2, 3}))

	buf.Release()
	assert.Equal(t, uint64(0), buf.Size())
}

func TestWGPUEncoderRejectsForeignHandles(t *testing.T) {
	enc := NewWGPUEncoder(nil, nil)
	err := enc.CopyBufferToTexture(BufferView{}, TextureView{}, Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1})
	assert.Error(t, err)
	assert.Equal(t, 0, enc.PendingTransferBuffers())
}
