package common

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrEmptyInput is returned when an image or mipmap chain has no pixels.
	ErrEmptyInput = errors.New("empty input")

	// ErrDimensionMismatch is returned when an image is not square.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrPixelBufferSize is returned when a pixel buffer length does not match its declared dimensions.
	ErrPixelBufferSize = errors.New("pixel buffer size mismatch")

	// ErrInvalidLevelCount is returned when a mipmap level cap below 1 is requested.
	ErrInvalidLevelCount = errors.New("invalid mipmap level count")

	// ErrGpuResource marks failures reported by a GPU device or command encoder.
	ErrGpuResource = errors.New("gpu resource error")
)

// GpuResourceError marks err as a GPU collaborator failure.
// The message and cause chain of err are preserved, so errors.Is matches both
// ErrGpuResource and the original error.
//
// Parameters:
//   - err: the error reported by the device or encoder
//
// Returns:
//   - error: err marked with ErrGpuResource, or nil if err is nil
func GpuResourceError(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, ErrGpuResource)
}

// IsGpuResourceError reports whether err was produced by GpuResourceError.
//
// Parameters:
//   - err: the error to classify
//
// Returns:
//   - bool: true if err carries the ErrGpuResource mark
func IsGpuResourceError(err error) bool {
	return errors.Is(err, ErrGpuResource)
}
