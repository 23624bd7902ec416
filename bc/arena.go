package bc

import "encoding/binary"

// defaultMaxArenaSize is the implementation-defined ceiling spec.md
// §4.A allows an Arena to enforce. 4 GiB comfortably exceeds any
// single compile request's bytecode while keeping offsets addressable
// as plain uint64 without inviting accidental multi-gigabyte arenas
// from a runaway caller.
const defaultMaxArenaSize = 1 << 32

// Arena is an append-only, growable byte buffer. Every on-disk record
// the encoder produces lives inside an Arena and is referenced only by
// its offset from the arena's base — never by a raw pointer or slice —
// because the underlying storage can be reallocated by any subsequent
// allocation (see Handle).
type Arena struct {
	buf     []byte
	maxSize uint64
}

// NewArena returns an empty arena with the default size ceiling.
func NewArena() *Arena {
	return &Arena{
		buf:     make([]byte, 0, 4096),
		maxSize: defaultMaxArenaSize,
	}
}

// Len returns the current size of the arena in bytes.
func (a *Arena) Len() uint64 { return uint64(len(a.buf)) }

// Bytes returns the arena's contents. The returned slice aliases the
// arena's internal buffer and is only valid until the next allocation;
// callers that need a stable copy (e.g. to hand off as
// CompileRequest.GeneratedBytecode) should do so only after all
// encoding has finished.
func (a *Arena) Bytes() []byte { return a.buf }

func alignUp(offset, alignment uint64) uint64 {
	return (offset + alignment - 1) &^ (alignment - 1)
}

// AllocateRaw advances the arena's write cursor to the next position
// aligned to alignment, zero-fills the gap and the newly allocated
// region, and returns the region's starting offset.
func (a *Arena) AllocateRaw(size, alignment uint64) (uint64, error) {
	if alignment == 0 {
		alignment = 1
	}
	current := uint64(len(a.buf))
	begin := alignUp(current, alignment)
	end := begin + size
	if end > a.maxSize {
		return 0, errf(ArenaOverflow, "allocation of %d bytes at offset %d exceeds arena ceiling of %d bytes", size, begin, a.maxSize)
	}
	// The gap between current and begin (alignment padding) and the
	// payload itself are both zero-filled by growing with a zeroed
	// slice; Go never leaves the appended region uninitialized.
	a.buf = append(a.buf, make([]byte, end-current)...)
	return begin, nil
}

// PutUint32 writes v as little-endian at offset. offset+4 must not
// exceed the arena's current length.
func (a *Arena) PutUint32(offset uint64, v uint32) {
	binary.LittleEndian.PutUint32(a.buf[offset:offset+4], v)
}

// PutUint64 writes v as little-endian at offset.
func (a *Arena) PutUint64(offset uint64, v uint64) {
	binary.LittleEndian.PutUint64(a.buf[offset:offset+8], v)
}

// PutBytes copies data into the arena starting at offset.
func (a *Arena) PutBytes(offset uint64, data []byte) {
	copy(a.buf[offset:], data)
}

// PutUint8 writes a single byte at offset.
func (a *Arena) PutUint8(offset uint64, v uint8) {
	a.buf[offset] = v
}

// Handle is a typed, offset-relative reference into an Arena. T is a
// phantom type parameter — Handle never holds a Go pointer derived
// from the arena's backing array — so a Handle survives arena growth
// unconditionally: every read or write goes back through the Arena at
// the moment it is needed, never through a cached address.
//
// Offset 0 doubles as the null handle, because the container's
// BCHeader (see records.go) is always the first thing allocated in
// any arena the encoder produces; no legitimate record other than the
// header itself can ever sit at offset 0.
type Handle[T any] struct {
	Offset uint64
}

// IsNull reports whether h is the null handle.
func (h Handle[T]) IsNull() bool { return h.Offset == 0 }

// Index returns the handle elemSize*i bytes past h, i.e. the i-th
// element of an array of T beginning at h.
func (h Handle[T]) Index(i int, elemSize uint64) Handle[T] {
	return Handle[T]{Offset: h.Offset + uint64(i)*elemSize}
}
