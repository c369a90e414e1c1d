// Package recording provides an in-memory texture backend that records every device and encoder call.
// It is used as a GPU test double and for headless inspection of upload command streams.
package recording

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-mipmap/engine/renderer/texture"
	"github.com/cockroachdb/errors"
)

// CallKind identifies a recorded backend call.
type CallKind int

const (
	// CallCreateTexture is a Device.CreateTexture call.
	CallCreateTexture CallKind = iota
	// CallCreateTransferBuffer is a Device.CreateTransferBuffer call.
	CallCreateTransferBuffer
	// CallWriteBuffer is a BufferHandle.Write call.
	CallWriteBuffer
	// CallCopyBufferToTexture is a CommandEncoder.CopyBufferToTexture call.
	CallCopyBufferToTexture
)

// String returns the name of the call.
func (k CallKind) String() string {
	switch k {
	case CallCreateTexture:
		return "CreateTexture"
	case CallCreateTransferBuffer:
		return "CreateTransferBuffer"
	case CallWriteBuffer:
		return "WriteBuffer"
	case CallCopyBufferToTexture:
		return "CopyBufferToTexture"
	}
	return "Unknown"
}

// Texture is a recorded texture.
type Texture struct {
	desc     texture.TextureDescriptor
	released bool
}

// Buffer is a recorded transfer buffer.
type Buffer struct {
	ID       int
	Data     []byte
	backend  *Backend
	released bool
}

// Copy is a recorded buffer-to-texture copy. Data holds the buffer contents at the time the copy was recorded.
type Copy struct {
	Source      texture.BufferView
	Destination texture.TextureView
	Extent      texture.Extent3D
	Data        []byte
}

// failure injects err on the n-th call (1-based) of a kind.
type failure struct {
	n   int
	err error
}

// Backend records every call it receives. It implements texture.Device and texture.CommandEncoder
// and is safe for concurrent use.
type Backend struct {
	mu       sync.Mutex
	calls    []CallKind
	counts   map[CallKind]int
	failures map[CallKind]failure

	textures []*Texture
	buffers  []*Buffer
	copies   []Copy
}

var (
	_ texture.Device         = &Backend{}
	_ texture.CommandEncoder = &Backend{}
	_ texture.TextureHandle  = &Texture{}
	_ texture.BufferHandle   = &Buffer{}
)

// NewBackend creates a new recording Backend with the given options.
//
// Parameters:
//   - options: variadic list of BackendOption functions, typically failure injections
//
// Returns:
//   - *Backend: the newly created backend
func NewBackend(options ...BackendOption) *Backend {
	b := &Backend{
		counts:   make(map[CallKind]int),
		failures: make(map[CallKind]failure),
	}

	for _, option := range options {
		option(b)
	}

	return b
}

// record logs a call and returns the injected error for it, if any. Callers must hold mu.
func (b *Backend) record(kind CallKind) error {
	b.calls = append(b.calls, kind)
	b.counts[kind]++
	if f, ok := b.failures[kind]; ok && f.n == b.counts[kind] {
		return f.err
	}
	return nil
}

func (b *Backend) CreateTexture(desc texture.TextureDescriptor) (texture.TextureHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.record(CallCreateTexture); err != nil {
		return nil, err
	}
	t := &Texture{desc: desc}
	b.textures = append(b.textures, t)
	return t, nil
}

func (b *Backend) CreateTransferBuffer(byteLength uint64) (texture.BufferHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.record(CallCreateTransferBuffer); err != nil {
		return nil, err
	}
	buf := &Buffer{ID: len(b.buffers), Data: make([]byte, byteLength), backend: b}
	b.buffers = append(b.buffers, buf)
	return buf, nil
}

func (b *Backend) CopyBufferToTexture(src texture.BufferView, dst texture.TextureView, extent texture.Extent3D) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.record(CallCopyBufferToTexture); err != nil {
		return err
	}
	buf, ok := src.Buffer.(*Buffer)
	if !ok {
		return errors.Newf("buffer %T was not created by this backend", src.Buffer)
	}
	if _, ok := dst.Texture.(*Texture); !ok {
		return errors.Newf("texture %T was not created by this backend", dst.Texture)
	}

	data := make([]byte, len(buf.Data))
	copy(data, buf.Data)
	b.copies = append(b.copies, Copy{Source: src, Destination: dst, Extent: extent, Data: data})
	return nil
}

// Calls retrieves the kinds of every call received, in order.
//
// Returns:
//   - []CallKind: a copy of the call log
func (b *Backend) Calls() []CallKind {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]CallKind, len(b.calls))
	copy(out, b.calls)
	return out
}

// Count retrieves the number of calls of a kind.
//
// Parameters:
//   - kind: the call kind
//
// Returns:
//   - int: the number of calls of that kind, including failed ones
func (b *Backend) Count(kind CallKind) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.counts[kind]
}

// Textures retrieves every texture created so far.
//
// Returns:
//   - []*Texture: the created textures, in creation order
func (b *Backend) Textures() []*Texture {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]*Texture(nil), b.textures...)
}

// Buffers retrieves every transfer buffer created so far.
//
// Returns:
//   - []*Buffer: the created buffers, in creation order
func (b *Backend) Buffers() []*Buffer {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]*Buffer(nil), b.buffers...)
}

// Copies retrieves every copy recorded so far.
//
// Returns:
//   - []Copy: the recorded copies, in recording order
func (b *Backend) Copies() []Copy {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]Copy(nil), b.copies...)
}

// ReleaseTransferBuffers releases every buffer created so far, standing in for post-submission cleanup.
func (b *Backend) ReleaseTransferBuffers() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, buf := range b.buffers {
		buf.released = true
	}
}

func (t *Texture) Descriptor() texture.TextureDescriptor {
	return t.desc
}

func (t *Texture) Release() {
	t.released = true
}

// Released reports whether Release was called.
func (t *Texture) Released() bool {
	return t.released
}

func (buf *Buffer) Size() uint64 {
	return uint64(len(buf.Data))
}

func (buf *Buffer) Write(offset uint64, data []byte) error {
	buf.backend.mu.Lock()
	defer buf.backend.mu.Unlock()

	if err := buf.backend.record(CallWriteBuffer); err != nil {
		return err
	}
	if buf.released {
		return errors.Newf("buffer %d has been released", buf.ID)
	}
	if offset+uint64(len(data)) > uint64(len(buf.Data)) {
		return errors.Newf("write of %d bytes at offset %d exceeds buffer %d size %d", len(data), offset, buf.ID, len(buf.Data))
	}
	copy(buf.Data[offset:], data)
	return nil
}

func (buf *Buffer) Release() {
	buf.backend.mu.Lock()
	defer buf.backend.mu.Unlock()

	buf.released = true
}

// Released reports whether the buffer has been released.
func (buf *Buffer) Released() bool {
	buf.backend.mu.Lock()
	defer buf.backend.mu.Unlock()

	return buf.released
}
