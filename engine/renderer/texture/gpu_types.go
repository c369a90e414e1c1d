package texture

import "strings"

// TextureDimension identifies the dimensionality of a texture.
type TextureDimension int

const (
	// TextureDimension2D is a two-dimensional texture.
	TextureDimension2D TextureDimension = iota + 1
)

// String returns the name of the dimension.
func (d TextureDimension) String() string {
	switch d {
	case TextureDimension2D:
		return "2D"
	}
	return "Undefined"
}

// TextureFormat identifies the texel format of a texture.
type TextureFormat int

const (
	// TextureFormatRGBA8Unorm is four 8-bit unsigned-normalized channels, linear (not sRGB).
	TextureFormatRGBA8Unorm TextureFormat = iota + 1
)

// String returns the name of the format.
func (f TextureFormat) String() string {
	switch f {
	case TextureFormatRGBA8Unorm:
		return "RGBA8Unorm"
	}
	return "Undefined"
}

// TextureUsage is a bit set of the ways a texture may be used.
type TextureUsage uint32

const (
	// TextureUsageCopyDst allows the texture to be the destination of copy commands.
	TextureUsageCopyDst TextureUsage = 1 << iota
	// TextureUsageSampled allows the texture to be bound for sampling in shaders.
	TextureUsageSampled
)

// Has reports whether every bit of flag is set in u.
func (u TextureUsage) Has(flag TextureUsage) bool {
	return u&flag == flag
}

// String returns the set flags joined by "|".
func (u TextureUsage) String() string {
	var names []string
	if u.Has(TextureUsageCopyDst) {
		names = append(names, "CopyDst")
	}
	if u.Has(TextureUsageSampled) {
		names = append(names, "Sampled")
	}
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, "|")
}

// Extent3D is the size of a texture or copy region.
type Extent3D struct {
	Width              uint32
	Height             uint32
	DepthOrArrayLayers uint32
}

// Origin3D is the texel offset of a copy region within a texture subresource.
type Origin3D struct {
	X, Y, Z uint32
}

// TextureDescriptor describes a texture to be created by a Device.
type TextureDescriptor struct {
	// Label is a debug name forwarded to the backend.
	Label string
	// Size holds the width, height and depth of level 0.
	Size Extent3D
	// ArrayLayerCount is the number of array layers. Always 1 for mipmapped textures.
	ArrayLayerCount uint32
	// MipLevelCount is the number of mip levels the texture is created with.
	MipLevelCount uint32
	// SampleCount is the number of samples per texel. Always 1 for sampled textures.
	SampleCount uint32
	Dimension   TextureDimension
	Format      TextureFormat
	Usage       TextureUsage
}

// NewMipmapDescriptor creates the descriptor of a square, single layer RGBA8 texture with the given
// number of mip levels, usable as a copy destination and for sampling.
//
// Parameters:
//   - label: the debug name of the texture
//   - side: the width and height of level 0
//   - levels: the mip level count
//
// Returns:
//   - TextureDescriptor: the filled descriptor
func NewMipmapDescriptor(label string, side, levels uint32) TextureDescriptor {
	return TextureDescriptor{
		Label: label,
		Size: Extent3D{
			Width:              side,
			Height:             side,
			DepthOrArrayLayers: 1,
		},
		ArrayLayerCount: 1,
		MipLevelCount:   levels,
		SampleCount:     1,
		Dimension:       TextureDimension2D,
		Format:          TextureFormatRGBA8Unorm,
		Usage:           TextureUsageCopyDst | TextureUsageSampled,
	}
}

// BufferView locates image data inside a transfer buffer.
type BufferView struct {
	Buffer       BufferHandle
	Offset       uint64
	BytesPerRow  uint32
	RowsPerImage uint32
}

// TextureView addresses one subresource of a texture as a copy destination.
type TextureView struct {
	Texture    TextureHandle
	MipLevel   uint32
	ArrayLayer uint32
	Origin     Origin3D
}
