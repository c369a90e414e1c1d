package mipmap

import "github.com/Carmen-Shannon/oxy-mipmap/common"

// PixelAddr maps (row, column, channel) coordinates of a square packed RGBA8 buffer to byte offsets.
type PixelAddr struct {
	// Side is the width and height of the addressed buffer in pixels.
	Side uint32
}

// Offset computes the byte offset of a channel of the pixel at (row, col).
//
// Parameters:
//   - row: the pixel row, from the top
//   - col: the pixel column, from the left
//   - channel: the channel index (0=R, 1=G, 2=B, 3=A)
//
// Returns:
//   - int: the byte offset into the buffer
func (a PixelAddr) Offset(row, col, channel uint32) int {
	return int((row*a.Side+col)*common.BytesPerPixel + channel)
}

// Pixel computes the byte offset of the first channel of the pixel at (row, col).
//
// Parameters:
//   - row: the pixel row
//   - col: the pixel column
//
// Returns:
//   - int: the byte offset of the red channel
func (a PixelAddr) Pixel(row, col uint32) int {
	return a.Offset(row, col, 0)
}

// Len computes the byte length of a buffer with this addressing.
//
// Returns:
//   - int: Side*Side*4
func (a PixelAddr) Len() int {
	return int(a.Side) * int(a.Side) * common.BytesPerPixel
}

// Level is one entry of a mipmap pyramid.
type Level struct {
	// Index is the mip level, 0 being the full resolution image.
	Index uint32
	// Side is the width and height of this level in pixels (base side >> Index).
	Side uint32
	// Pixels holds Side*Side packed RGBA8 pixels.
	Pixels []byte
}

// Addr retrieves the addressing helper for this level's pixel buffer.
//
// Returns:
//   - PixelAddr: the addressing for a buffer of Side*Side pixels
func (l Level) Addr() PixelAddr {
	return PixelAddr{Side: l.Side}
}

// RGBA retrieves the four channels of the pixel at (row, col).
//
// Parameters:
//   - row: the pixel row
//   - col: the pixel column
//
// Returns:
//   - [4]uint8: the red, green, blue and alpha channels
func (l Level) RGBA(row, col uint32) [4]uint8 {
	o := l.Addr().Pixel(row, col)
	return [4]uint8{l.Pixels[o], l.Pixels[o+1], l.Pixels[o+2], l.Pixels[o+3]}
}

// BytesPerRow retrieves the tightly packed row stride of this level.
//
// Returns:
//   - uint32: Side*4
func (l Level) BytesPerRow() uint32 {
	return l.Side * common.BytesPerPixel
}

// Chain is an index-contiguous sequence of mipmap levels starting at level 0.
type Chain []Level

// Len retrieves the number of levels in the chain.
//
// Returns:
//   - uint32: the chain length
func (c Chain) Len() uint32 {
	return uint32(len(c))
}

// Base retrieves level 0 of the chain. The chain must not be empty.
//
// Returns:
//   - Level: the full resolution level
func (c Chain) Base() Level {
	return c[0]
}

// Side retrieves the side length of level 0, or 0 for an empty chain.
//
// Returns:
//   - uint32: the base side length in pixels
func (c Chain) Side() uint32 {
	if len(c) == 0 {
		return 0
	}
	return c[0].Side
}

// TotalBytes sums the pixel buffer lengths of every level.
//
// Returns:
//   - uint64: the total byte size of the chain
func (c Chain) TotalBytes() uint64 {
	var n uint64
	for _, l := range c {
		n += uint64(len(l.Pixels))
	}
	return n
}
