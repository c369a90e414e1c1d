// package common contains common types that are used throughout this module. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// BytesPerPixel is the size of one packed RGBA8 pixel.
const BytesPerPixel = 4

// SourceImage holds tightly packed RGBA pixel data for a texture pending mipmap generation and GPU upload.
// Pixels are row-major with no row padding.
type SourceImage struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// NewSourceImage converts any Go image into a tightly packed RGBA SourceImage.
//
// Parameters:
//   - img: the image to convert
//
// Returns:
//   - SourceImage: the packed RGBA copy of img
func NewSourceImage(img image.Image) SourceImage {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return SourceImage{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}
}

// Side retrieves the side length of a square image. It is only meaningful after Validate succeeds.
//
// Returns:
//   - uint32: the image width
func (s SourceImage) Side() uint32 {
	return s.Width
}

// Validate checks that the image is non-empty, square and that its pixel buffer matches its dimensions.
// Power-of-two sides are not required.
//
// Returns:
//   - error: ErrEmptyInput, ErrDimensionMismatch or ErrPixelBufferSize wrapped with details, otherwise nil
func (s SourceImage) Validate() error {
	if s.Width == 0 || s.Height == 0 || len(s.Pixels) == 0 {
		return errors.Wrapf(ErrEmptyInput, "image is %dx%d with %d bytes", s.Width, s.Height, len(s.Pixels))
	}
	if s.Width != s.Height {
		return errors.Wrapf(ErrDimensionMismatch, "image is %dx%d, must be square", s.Width, s.Height)
	}
	want := uint64(s.Width) * uint64(s.Height) * BytesPerPixel
	if uint64(len(s.Pixels)) != want {
		return errors.Wrapf(ErrPixelBufferSize, "image is %dx%d, expected %d bytes, got %d", s.Width, s.Height, want, len(s.Pixels))
	}
	return nil
}

// ImportedTexture represents encoded texture data, either held in memory or referenced on disk.
// For embedded textures the Data field contains raw image bytes.
// For external textures the Path field contains the file path.
type ImportedTexture struct {
	// Name is an identifier for this texture (e.g., "grass", "stone").
	Name string

	// Path is the file path for external textures (empty for embedded).
	Path string

	// Data contains raw encoded image bytes for embedded textures.
	Data []byte

	// MimeType indicates the image format (e.g., "image/png", "image/jpeg"). Informational only;
	// the decoder is selected from the data itself.
	MimeType string
}

// Key retrieves the cache key for this texture: the Name when set, otherwise the cleaned Path.
//
// Returns:
//   - string: the cache key
func (t *ImportedTexture) Key() string {
	if t.Name != "" {
		return t.Name
	}
	if t.Path != "" {
		return filepath.Clean(t.Path)
	}
	return ""
}

// Decode decodes the texture into a packed RGBA SourceImage.
// Uses either embedded Data bytes or loads from Path on disk.
// Supports PNG, JPEG, BMP, TIFF and WebP formats.
// The result is not validated; callers decide whether non-square images are acceptable.
//
// Returns:
//   - SourceImage: the decoded RGBA pixels and dimensions
//   - error: error if decoding fails
func (t *ImportedTexture) Decode() (SourceImage, error) {
	if t == nil {
		return SourceImage{}, errors.New("texture is nil")
	}

	var img image.Image
	var err error

	if len(t.Data) > 0 {
		img, _, err = image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return SourceImage{}, errors.Wrap(err, "failed to decode embedded image")
		}
	} else if t.Path != "" {
		file, fileErr := os.Open(t.Path)
		if fileErr != nil {
			return SourceImage{}, errors.Wrapf(fileErr, "failed to open texture file %s", t.Path)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return SourceImage{}, errors.Wrapf(err, "failed to decode texture file %s", t.Path)
		}
	} else {
		return SourceImage{}, errors.New("texture has neither data nor path")
	}

	return NewSourceImage(img), nil
}
