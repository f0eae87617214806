// Package novatek decodes the proprietary GPS telemetry Novatek dash cams
// embed in their MP4 recordings.
//
// The camera writes a "gps " child inside the top-level moov atom. Its
// payload is an index table of (offset, size) pairs, one per one-second
// sampling tick, each pointing at a "free"-typed record elsewhere in the
// file that carries the fix for that tick. Records for ticks without
// satellite reception are present but flagged inactive.
package novatek

import (
	"encoding/binary"
	"errors"
	"io"

	"nvgeotag/internal/mp4"
)

const (
	moovType = "moov"
	gpsType  = "gps "

	// indexSubHeaderLen is the fixed distance from the start of the
	// "gps " atom to the first index entry (atom header plus an 8-byte
	// vendor sub-header).
	indexSubHeaderLen = 16

	indexEntryLen = 8

	// maxRecordSize is a sanity ceiling on a single record. Corrupt index
	// tables otherwise cause absurd allocations.
	maxRecordSize = 100000
)

// IndexEntry is one row of the vendor index table: where a GPS record
// lives in the file and how many bytes it spans.
type IndexEntry struct {
	Offset uint32
	Size   uint32
}

// ErrNoGPSBox reports a structurally sound container that simply carries
// no vendor GPS payload, e.g. footage from a camera without a GPS mount.
var ErrNoGPSBox = errors.New("novatek: container has no gps atom")

// FindIndex walks the container and returns the vendor index table.
//
// It returns ErrNoGPSBox when the moov or "gps " atom is absent, and a
// *mp4.StructuralError when the container geometry is inconsistent; the
// two cases are reported separately so operators can tell corrupt files
// from files recorded without GPS hardware.
func FindIndex(src io.ReadSeeker) ([]IndexEntry, error) {
	fileRegion, err := mp4.FileRegion(src)
	if err != nil {
		return nil, err
	}

	top := mp4.NewWalker(src, fileRegion)
	for {
		h, payload, err := top.Next()
		if err == io.EOF {
			return nil, ErrNoGPSBox
		}
		if err != nil {
			return nil, err
		}
		if h.TypeString() != moovType {
			continue
		}

		children := mp4.NewWalker(src, payload)
		for {
			ch, chPayload, err := children.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
			if ch.TypeString() == gpsType {
				return readIndex(src, chPayload)
			}
		}
		// Only one moov is expected; keep scanning in case the first had
		// no gps child.
	}
}

// readIndex reads the flat entry table that follows the sub-header, up to
// the atom's declared extent.
func readIndex(src io.ReadSeeker, payload mp4.Region) ([]IndexEntry, error) {
	start := payload.Start - mp4.HeaderLen + indexSubHeaderLen
	end := payload.End
	if start > end {
		return nil, &mp4.StructuralError{Offset: payload.Start, Reason: "gps atom shorter than its sub-header"}
	}

	if _, err := src.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}
	table := make([]byte, end-start)
	if _, err := io.ReadFull(src, table); err != nil {
		return nil, &mp4.StructuralError{Offset: start, Reason: "gps index table truncated"}
	}

	entries := make([]IndexEntry, 0, len(table)/indexEntryLen)
	for off := 0; off+indexEntryLen <= len(table); off += indexEntryLen {
		entries = append(entries, IndexEntry{
			Offset: binary.BigEndian.Uint32(table[off:]),
			Size:   binary.BigEndian.Uint32(table[off+4:]),
		})
	}
	return entries, nil
}
