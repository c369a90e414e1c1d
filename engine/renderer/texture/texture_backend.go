package texture

// Device is the GPU capability needed to create textures and transfer buffers.
// The caller owns the device lifecycle.
type Device interface {
	// CreateTexture creates a texture object from desc.
	//
	// Parameters:
	//   - desc: the texture descriptor
	//
	// Returns:
	//   - TextureHandle: the created texture, owned by the caller
	//   - error: the backend error if creation fails
	CreateTexture(desc TextureDescriptor) (TextureHandle, error)

	// CreateTransferBuffer creates a host-writable buffer usable as the source of copy commands.
	//
	// Parameters:
	//   - byteLength: the buffer size in bytes
	//
	// Returns:
	//   - BufferHandle: the created buffer
	//   - error: the backend error if creation fails
	CreateTransferBuffer(byteLength uint64) (BufferHandle, error)
}

// CommandEncoder records GPU commands for later submission by the caller.
// It is assumed to be used by a single goroutine at a time.
type CommandEncoder interface {
	// CopyBufferToTexture records a copy from a transfer buffer into a texture subresource.
	//
	// Parameters:
	//   - src: the source buffer region and its row layout
	//   - dst: the destination texture subresource and origin
	//   - extent: the size of the copied region
	//
	// Returns:
	//   - error: the backend error if the command could not be recorded
	CopyBufferToTexture(src BufferView, dst TextureView, extent Extent3D) error
}

// TextureHandle is a texture created by a Device.
type TextureHandle interface {
	// Descriptor retrieves the descriptor the texture was created from.
	Descriptor() TextureDescriptor

	// Release frees the texture.
	Release()
}

// BufferHandle is a transfer buffer created by a Device.
// It must stay alive until the encoder that references it has been submitted and executed.
type BufferHandle interface {
	// Size retrieves the buffer size in bytes.
	Size() uint64

	// Write copies data into the buffer starting at offset.
	//
	// Parameters:
	//   - offset: the byte offset to write at
	//   - data: the bytes to write
	//
	// Returns:
	//   - error: an error if the write falls outside the buffer or the backend rejects it
	Write(offset uint64, data []byte) error

	// Release frees the buffer.
	Release()
}
