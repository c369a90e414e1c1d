package recording

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-mipmap/engine/renderer/texture"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendRecords(t *testing.T) {
	b := NewBackend()

	tex, err := b.CreateTexture(texture.NewMipmapDescriptor("t", 2, 1))
	require.NoError(t, err)
	buf, err := b.CreateTransferBuffer(16)
	require.NoError(t, err)
	require.NoError(t, buf.Write(0, []byte{1, 2, 3, 4}))

	err = b.CopyBufferToTexture(
		texture.BufferView{Buffer: buf, BytesPerRow: 8, RowsPerImage: 2},
		texture.TextureView{Texture: tex},
		texture.Extent3D{Width: 2, Height: 2, DepthOrArrayLayers: 1},
	)
	require.NoError(t, err)

	// Writes after recording do not change the snapshot.
	require.NoError(t, buf.Write(0, []byte{9}))

	copies := b.Copies()
	require.Len(t, copies, 1)
	assert.Equal(t, byte(1), copies[0].Data[0])
	assert.Equal(t, 1, b.Count(CallCopyBufferToTexture))
	assert.Equal(t, 2, b.Count(CallWriteBuffer))
	assert.Equal(t, "t", b.Textures()[0].Descriptor().Label)
}

func TestBackendFailure(t *testing.T) {
	boom := errors.New("boom")
	b := NewBackend(WithFailure(CallCreateTransferBuffer, 2, boom))

	_, err := b.CreateTransferBuffer(4)
	require.NoError(t, err)
	_, err = b.CreateTransferBuffer(4)
	assert.ErrorIs(t, err, boom)
	_, err = b.CreateTransferBuffer(4)
	assert.NoError(t, err)

	assert.Len(t, b.Buffers(), 2)
	assert.Equal(t, 3, b.Count(CallCreateTransferBuffer))
}

func TestBackendRelease(t *testing.T) {
	b := NewBackend()
	buf, err := b.CreateTransferBuffer(4)
	require.NoError(t, err)

	b.ReleaseTransferBuffers()
	assert.True(t, b.Buffers()[0].Released())
	assert.Error(t, buf.Write(0, []byte{1}))

	tex, err := b.CreateTexture(texture.NewMipmapDescriptor("t", 1, 1))
	require.NoError(t, err)
	tex.Release()
	assert.True(t, b.Textures()[0].Released())
}

func TestBackendRejectsForeignHandles(t *testing.T) {
	b := NewBackend()
	err := b.CopyBufferToTexture(texture.BufferView{}, texture.TextureView{}, texture.Extent3D{})
	assert.Error(t, err)
	assert.Empty(t, b.Copies())
}

func TestCallKindString(t *testing.T) {
	assert.Equal(t, "CreateTexture", CallCreateTexture.String())
	assert.Equal(t, "CopyBufferToTexture", CallCopyBufferToTexture.String())
	assert.Equal(t, "Unknown", CallKind(42).String())
}
