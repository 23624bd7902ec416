package bc

// CodeWriter accumulates the varint-encoded instruction stream for a
// single function while it is being built, before that stream is
// copied into the shared Arena as one contiguous byte array (see
// component F, pass 5). It is deliberately not an Arena: code bytes
// only need to grow and be read back once, in full, at the end.
type CodeWriter struct {
	buf []byte
}

// Len returns the number of bytes written so far.
func (w *CodeWriter) Len() int { return len(w.buf) }

// Bytes returns the accumulated bytes.
func (w *CodeWriter) Bytes() []byte { return w.buf }

// EncodeUint8 appends a single raw byte.
func (w *CodeWriter) EncodeUint8(b uint8) {
	w.buf = append(w.buf, b)
}

// EncodeRaw appends b verbatim, with no varint framing. Used for
// FloatLit's fixed-size payload, which a reader recovers with a plain
// memcpy rather than the varint decode loop.
func (w *CodeWriter) EncodeRaw(b []byte) {
	w.buf = append(w.buf, b...)
}

// EncodeUint writes v as unsigned LEB128, except that unlike the
// classic LEB128 byte order, the most-significant group is written
// first: groups are computed least-significant-first into a scratch
// array and then emitted in reverse. A reader must walk the byte
// stream applying the opposite fold (accumulate seven bits per byte,
// continuation in the high bit) to recover v; this asymmetry between
// "how groups are computed" and "the order they're written in" is
// inherited unchanged from the source format and must be reproduced
// exactly for interoperability with any conforming reader.
func (w *CodeWriter) EncodeUint(v uint64) {
	if v < 128 {
		w.EncodeUint8(uint8(v))
		return
	}

	var groups [10]uint8
	count := 0
	for {
		idx := count
		count++
		groups[idx] = uint8(v & 0x7F)
		v >>= 7
		if v == 0 {
			break
		}
		groups[idx] |= 0x80
	}

	for i := count - 1; i >= 0; i-- {
		w.EncodeUint8(groups[i])
	}
}

// EncodeSInt zig-zag encodes a signed value and writes it with
// EncodeUint: non-negative v maps to 2v, negative v maps to
// (~v<<1)|1. This is the encoding used for every value-operand
// (register ID or bit-complemented imported-constant index); type
// operands always use EncodeUint directly.
func (w *CodeWriter) EncodeSInt(v int64) {
	var u uint64
	if v < 0 {
		u = (^uint64(v) << 1) | 1
	} else {
		u = uint64(v) << 1
	}
	w.EncodeUint(u)
}
