package texture

import (
	"io"
	"log"

	"github.com/Carmen-Shannon/oxy-mipmap/common"
	"github.com/Carmen-Shannon/oxy-mipmap/engine/mipmap"
	"github.com/google/uuid"
)

// uploader is the implementation of the Uploader interface.
type uploader struct {
	label  string
	logger *log.Logger
}

// Uploader creates mipmapped textures and records the copies that fill every level.
type Uploader interface {
	// Upload creates a texture sized from the chain's base level with one mip level per chain entry,
	// then for each level creates a transfer buffer, writes the level into it and records a copy
	// into the matching mip level on encoder. The encoder is not submitted.
	//
	// Parameters:
	//   - device: the device that creates the texture and transfer buffers
	//   - encoder: the encoder the copy commands are recorded into
	//   - chain: the mipmap chain to upload
	//
	// Returns:
	//   - TextureHandle: the created texture, owned by the caller
	//   - error: ErrEmptyInput or ErrPixelBufferSize for a malformed chain, or a GPU resource error
	//     wrapping the collaborator failure; no texture is returned on error
	Upload(device Device, encoder CommandEncoder, chain mipmap.Chain) (TextureHandle, error)
}

var _ Uploader = &uploader{}

// NewUploader creates a new Uploader with the given options.
// Without WithLabel every texture gets a unique "mipmap-<uuid>" label.
// Without WithLogger progress is logged to log.Default().
//
// Parameters:
//   - options: variadic list of UploaderBuilderOption functions to customize the uploader
//
// Returns:
//   - Uploader: the newly created uploader
func NewUploader(options ...UploaderBuilderOption) Uploader {
	u := &uploader{
		logger: log.Default(),
	}

	for _, option := range options {
		option(u)
	}

	if u.logger == nil {
		u.logger = log.New(io.Discard, "", 0)
	}

	return u
}

// Upload uploads chain with a default Uploader.
//
// Parameters:
//   - device: the device that creates the texture and transfer buffers
//   - encoder: the encoder the copy commands are recorded into
//   - chain: the mipmap chain to upload
//
// Returns:
//   - TextureHandle: the created texture
//   - error: see Uploader.Upload
func Upload(device Device, encoder CommandEncoder, chain mipmap.Chain) (TextureHandle, error) {
	return NewUploader().Upload(device, encoder, chain)
}

func (u *uploader) Upload(device Device, encoder CommandEncoder, chain mipmap.Chain) (TextureHandle, error) {
	if err := chain.Validate(); err != nil {
		return nil, err
	}

	label := u.label
	if label == "" {
		label = "mipmap-" + uuid.NewString()
	}

	side := chain.Side()
	desc := NewMipmapDescriptor(label, side, chain.Len())

	u.logger.Printf("[Texture] creating %s: %dx%d, %d mip levels", label, side, side, desc.MipLevelCount)
	tex, err := device.CreateTexture(desc)
	if err != nil {
		return nil, common.GpuResourceError(err)
	}

	for _, level := range chain {
		u.logger.Printf("[Texture] copying %s mip level %d (%dx%d, %d bytes)", label, level.Index, level.Side, level.Side, len(level.Pixels))

		buf, err := device.CreateTransferBuffer(uint64(len(level.Pixels)))
		if err != nil {
			return nil, common.GpuResourceError(err)
		}
		if err := buf.Write(0, level.Pixels); err != nil {
			return nil, common.GpuResourceError(err)
		}

		err = encoder.CopyBufferToTexture(
			BufferView{
				Buffer:       buf,
				Offset:       0,
				BytesPerRow:  level.BytesPerRow(),
				RowsPerImage: level.Side,
			},
			TextureView{
				Texture:    tex,
				MipLevel:   level.Index,
				ArrayLayer: 0,
				Origin:     Origin3D{},
			},
			Extent3D{
				Width:              level.Side,
				Height:             level.Side,
				DepthOrArrayLayers: 1,
			},
		)
		if err != nil {
			return nil, common.GpuResourceError(err)
		}
	}

	u.logger.Printf("[Texture] %s recorded, %d bytes in %d copies", label, chain.TotalBytes(), chain.Len())

	return tex, nil
}
