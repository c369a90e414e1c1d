package texture

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-mipmap/common"
	"github.com/cockroachdb/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuDevice adapts a *wgpu.Device to the Device interface.
type wgpuDevice struct {
	device *wgpu.Device
}

// WGPUTexture is a TextureHandle backed by a *wgpu.Texture.
type WGPUTexture struct {
	texture *wgpu.Texture
	desc    TextureDescriptor
}

// wgpuTransferBuffer stages level bytes on the host until a copy is recorded, at which point the
// bytes are laid out with WebGPU's row alignment into a CopySrc buffer.
type wgpuTransferBuffer struct {
	device *wgpu.Device
	data   []byte
	buffer *wgpu.Buffer
}

// WGPUEncoder adapts a *wgpu.CommandEncoder to the CommandEncoder interface and tracks the
// staging buffers its recorded copies reference.
type WGPUEncoder struct {
	device  *wgpu.Device
	encoder *wgpu.CommandEncoder
	staged  []*wgpuTransferBuffer
}

var (
	_ Device         = &wgpuDevice{}
	_ TextureHandle  = &WGPUTexture{}
	_ BufferHandle   = &wgpuTransferBuffer{}
	_ CommandEncoder = &WGPUEncoder{}
)

// NewWGPUDevice wraps a WebGPU device as a Device. The caller keeps ownership of device.
//
// Parameters:
//   - device: the WebGPU device
//
// Returns:
//   - Device: the adapted device
func NewWGPUDevice(device *wgpu.Device) Device {
	return &wgpuDevice{device: device}
}

// NewWGPUEncoder wraps a WebGPU command encoder as a CommandEncoder. The device is used to create
// the aligned staging buffers referenced by recorded copies. The caller keeps ownership of both and
// must call ReleaseTransferBuffers once the encoded commands have been submitted.
//
// Parameters:
//   - device: the device that created encoder
//   - encoder: the command encoder to record into
//
// Returns:
//   - *WGPUEncoder: the adapted encoder
func NewWGPUEncoder(device *wgpu.Device, encoder *wgpu.CommandEncoder) *WGPUEncoder {
	return &WGPUEncoder{device: device, encoder: encoder}
}

func (d *wgpuDevice) CreateTexture(desc TextureDescriptor) (TextureHandle, error) {
	format, err := toWGPUFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	if desc.Dimension != TextureDimension2D {
		return nil, errors.Newf("unsupported texture dimension %s", desc.Dimension)
	}

	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     desc.Label,
		Usage:     toWGPUUsage(desc.Usage),
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              desc.Size.Width,
			Height:             desc.Size.Height,
			DepthOrArrayLayers: max(desc.Size.DepthOrArrayLayers, desc.ArrayLayerCount, 1),
		},
		Format:        format,
		MipLevelCount: desc.MipLevelCount,
		SampleCount:   common.Coalesce(desc.SampleCount, 1),
	})
	if err != nil {
		return nil, err
	}

	return &WGPUTexture{texture: tex, desc: desc}, nil
}

func (d *wgpuDevice) CreateTransferBuffer(byteLength uint64) (BufferHandle, error) {
	if byteLength == 0 {
		return nil, errors.New("transfer buffer size must be greater than 0")
	}
	return &wgpuTransferBuffer{device: d.device, data: make([]byte, byteLength)}, nil
}

// Texture retrieves the underlying WebGPU texture.
//
// Returns:
//   - *wgpu.Texture: the texture, nil after Release
func (t *WGPUTexture) Texture() *wgpu.Texture {
	return t.texture
}

// CreateView creates a default view covering every mip level, for binding the texture to a shader.
//
// Returns:
//   - *wgpu.TextureView: the created view, released by the caller
//   - error: an error if the view could not be created
func (t *WGPUTexture) CreateView() (*wgpu.TextureView, error) {
	if t.texture == nil {
		return nil, errors.New("texture has been released")
	}
	return t.texture.CreateView(nil)
}

func (t *WGPUTexture) Descriptor() TextureDescriptor {
	return t.desc
}

func (t *WGPUTexture) Release() {
	if t.texture == nil {
		return
	}
	t.texture.Release()
	t.texture = nil
}

func (b *wgpuTransferBuffer) Size() uint64 {
	return uint64(len(b.data))
}

func (b *wgpuTransferBuffer) Write(offset uint64, data []byte) error {
	if b.buffer != nil {
		return errors.New("transfer buffer already recorded")
	}
	if offset+uint64(len(data)) > uint64(len(b.data)) {
		return errors.Newf("write of %d bytes at offset %d exceeds buffer size %d", len(data), offset, len(b.data))
	}
	copy(b.data[offset:], data)
	return nil
}

func (b *wgpuTransferBuffer) Release() {
	if b.buffer != nil {
		b.buffer.Release()
		b.buffer = nil
	}
	b.data = nil
}

// Encoder retrieves the underlying WebGPU command encoder.
//
// Returns:
//   - *wgpu.CommandEncoder: the wrapped encoder
func (e *WGPUEncoder) Encoder() *wgpu.CommandEncoder {
	return e.encoder
}

// CopyBufferToTexture records a buffer-to-texture copy. Rows whose byte length is not a multiple of
// wgpu.CopyBytesPerRowAlignment are padded into a new staging buffer before recording.
func (e *WGPUEncoder) CopyBufferToTexture(src BufferView, dst TextureView, extent Extent3D) error {
	buf, ok := src.Buffer.(*wgpuTransferBuffer)
	if !ok {
		return errors.Newf("buffer %T was not created by a wgpu device", src.Buffer)
	}
	tex, ok := dst.Texture.(*WGPUTexture)
	if !ok {
		return errors.Newf("texture %T was not created by a wgpu device", dst.Texture)
	}
	if tex.texture == nil {
		return errors.New("texture has been released")
	}
	if buf.buffer != nil {
		return errors.New("transfer buffer already recorded")
	}

	rows := src.RowsPerImage * max(extent.DepthOrArrayLayers, 1)
	paddedRow := common.AlignUp(src.BytesPerRow, uint32(wgpu.CopyBytesPerRowAlignment))
	contents, err := restrideRows(buf.data, src.Offset, src.BytesPerRow, paddedRow, rows)
	if err != nil {
		return err
	}

	gpuBuf, err := e.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    fmt.Sprintf("%s Mip %d Staging Buffer", tex.desc.Label, dst.MipLevel),
		Contents: contents,
		Usage:    wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return err
	}
	buf.buffer = gpuBuf
	e.staged = append(e.staged, buf)

	return e.encoder.CopyBufferToTexture(
		&wgpu.ImageCopyBuffer{
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  paddedRow,
				RowsPerImage: src.RowsPerImage,
			},
			Buffer: gpuBuf,
		},
		&wgpu.ImageCopyTexture{
			Texture:  tex.texture,
			MipLevel: dst.MipLevel,
			Origin:   wgpu.Origin3D{X: dst.Origin.X, Y: dst.Origin.Y, Z: dst.Origin.Z + dst.ArrayLayer},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.Extent3D{
			Width:              extent.Width,
			Height:             extent.Height,
			DepthOrArrayLayers: max(extent.DepthOrArrayLayers, 1),
		},
	)
}

// PendingTransferBuffers retrieves the number of staging buffers awaiting ReleaseTransferBuffers.
//
// Returns:
//   - int: the staging buffer count
func (e *WGPUEncoder) PendingTransferBuffers() int {
	return len(e.staged)
}

// ReleaseTransferBuffers releases every staging buffer referenced by copies recorded so far. Call it
// only after the encoded command buffer has been submitted.
func (e *WGPUEncoder) ReleaseTransferBuffers() {
	for _, b := range e.staged {
		b.Release()
	}
	e.staged = e.staged[:0]
}

// restrideRows copies rows of rowBytes bytes starting at offset into a buffer whose rows are
// paddedRow bytes apart. When no padding is needed the source slice is returned unchanged.
func restrideRows(data []byte, offset uint64, rowBytes, paddedRow, rows uint32) ([]byte, error) {
	need := offset + uint64(rowBytes)*uint64(rows)
	if need > uint64(len(data)) {
		return nil, errors.Newf("copy needs %d bytes, buffer holds %d", need, len(data))
	}
	src := data[offset:need]
	if rowBytes == paddedRow {
		return src, nil
	}

	out := make([]byte, uint64(paddedRow)*uint64(rows))
	for r := uint32(0); r < rows; r++ {
		copy(out[r*paddedRow:r*paddedRow+rowBytes], src[r*rowBytes:(r+1)*rowBytes])
	}
	return out, nil
}

func toWGPUFormat(f TextureFormat) (wgpu.TextureFormat, error) {
	switch f {
	case TextureFormatRGBA8Unorm:
		return wgpu.TextureFormatRGBA8Unorm, nil
	}
	return wgpu.TextureFormatUndefined, errors.Newf("unsupported texture format %s", f)
}

func toWGPUUsage(u TextureUsage) wgpu.TextureUsage {
	var usage wgpu.TextureUsage
	if u.Has(TextureUsageCopyDst) {
		usage |= wgpu.TextureUsageCopyDst
	}
	if u.Has(TextureUsageSampled) {
		usage |= wgpu.TextureUsageTextureBinding
	}
	return usage
}
