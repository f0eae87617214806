// Package mp4 implements a minimal, region-bounded walker over the
// length-prefixed box ("atom") structure used by MP4-style containers.
//
// Only the pieces a metadata scanner needs are implemented: reading atom
// headers and iterating sibling atoms within a bounded byte region. Stream
// payloads are never interpreted.
package mp4

import (
	"encoding/binary"
	"fmt"
	"io"
)

// HeaderLen is the fixed size of an atom header: 4-byte big-endian length
// (which includes the header itself) followed by a 4-byte type tag.
const HeaderLen = 8

type Header struct {
	// Size is the total atom length in bytes, header included.
	Size uint32
	Type [4]byte
}

func (h Header) TypeString() string {
	return string(h.Type[:])
}

// Region is a half-open byte range [Start, End) of the underlying source.
type Region struct {
	Start int64
	End   int64
}

func (r Region) Len() int64 {
	return r.End - r.Start
}

// StructuralError reports an atom whose declared geometry is inconsistent
// with the region that contains it. Offsets past a bad header are
// unrecoverable, so the walker stops for the rest of the region.
type StructuralError struct {
	Offset int64
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("mp4: structural error at offset %d: %s", e.Offset, e.Reason)
}

// Walker iterates the sibling atoms of one region in file order.
//
// Next returns io.EOF once the region is exhausted or a zero-size
// terminator atom is seen. A *StructuralError ends the walk permanently:
// after one is returned, every later call returns it again.
type Walker struct {
	src    io.ReadSeeker
	pos    int64
	end    int64
	done   bool
	failed *StructuralError
}

func NewWalker(src io.ReadSeeker, region Region) *Walker {
	return &Walker{src: src, pos: region.Start, end: region.End}
}

// FileRegion returns the region covering the whole seekable source.
func FileRegion(src io.ReadSeeker) (Region, error) {
	end, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return Region{}, fmt.Errorf("mp4: seek end: %w", err)
	}
	return Region{Start: 0, End: end}, nil
}

// Next yields the next atom header and the region of its payload
// (the bytes between the header and the atom's declared end).
func (w *Walker) Next() (Header, Region, error) {
	if w.failed != nil {
		return Header{}, Region{}, w.failed
	}
	if w.done || w.pos >= w.end {
		w.done = true
		return Header{}, Region{}, io.EOF
	}
	if w.end-w.pos < HeaderLen {
		return Header{}, Region{}, w.fail("truncated atom header")
	}

	if _, err := w.src.Seek(w.pos, io.SeekStart); err != nil {
		return Header{}, Region{}, fmt.Errorf("mp4: seek %d: %w", w.pos, err)
	}
	var raw [HeaderLen]byte
	if _, err := io.ReadFull(w.src, raw[:]); err != nil {
		return Header{}, Region{}, fmt.Errorf("mp4: read header at %d: %w", w.pos, err)
	}

	var h Header
	h.Size = binary.BigEndian.Uint32(raw[:4])
	copy(h.Type[:], raw[4:])

	// A zero length terminates the region. Recorders pad files this way;
	// it is an end marker, not corruption.
	if h.Size == 0 {
		w.done = true
		return Header{}, Region{}, io.EOF
	}
	if h.Size < HeaderLen {
		return Header{}, Region{}, w.fail(fmt.Sprintf("atom %q declares size %d, smaller than its header", h.TypeString(), h.Size))
	}
	if w.pos+int64(h.Size) > w.end {
		return Header{}, Region{}, w.fail(fmt.Sprintf("atom %q declares size %d, overrunning region end %d", h.TypeString(), h.Size, w.end))
	}

	payload := Region{Start: w.pos + HeaderLen, End: w.pos + int64(h.Size)}
	w.pos += int64(h.Size)
	return h, payload, nil
}

func (w *Walker) fail(reason string) *StructuralError {
	w.failed = &StructuralError{Offset: w.pos, Reason: reason}
	return w.failed
}
