package novatek

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"nvgeotag/internal/track"
)

const (
	recordType  = "free"
	recordMagic = "GPS "

	// recordBodyOffset is where the telemetry fields start within a
	// record; recordMinSize covers the sub-header plus the 44-byte body
	// (six u32 time fields, four flag bytes, four f32 values).
	recordBodyOffset = 16
	recordMinSize    = recordBodyOffset + 44

	knotsToMS = 0.514444
)

// DecodeStatus classifies the outcome of decoding one index entry. Both
// NoFix and Malformed leave the track slot empty; they are distinguished
// only so callers can log and count them separately.
type DecodeStatus int

const (
	StatusOK DecodeStatus = iota
	StatusNoFix
	StatusMalformed
)

// DecodeResult is the discriminated outcome of decoding one record.
// Sample is non-nil exactly when Status is StatusOK; Reason carries the
// diagnostic detail for StatusMalformed.
type DecodeResult struct {
	Status DecodeStatus
	Sample *track.Sample
	Reason string
}

func malformed(format string, args ...any) DecodeResult {
	return DecodeResult{Status: StatusMalformed, Reason: fmt.Sprintf(format, args...)}
}

// DecodeRecord reads and decodes the record an index entry points at.
// Decode problems never escape as errors: a corrupt record is data loss
// for one tick, and the rest of the file must still be processed. Only
// I/O failures on the underlying source are returned.
func DecodeRecord(src io.ReadSeeker, entry IndexEntry, loc *time.Location) (DecodeResult, error) {
	if entry.Size > maxRecordSize {
		return malformed("record size %d exceeds ceiling %d", entry.Size, maxRecordSize), nil
	}
	if entry.Size < recordMinSize {
		return malformed("record size %d below minimum %d", entry.Size, recordMinSize), nil
	}

	if _, err := src.Seek(int64(entry.Offset), io.SeekStart); err != nil {
		return DecodeResult{}, fmt.Errorf("novatek: seek record at %d: %w", entry.Offset, err)
	}
	data := make([]byte, entry.Size)
	if _, err := io.ReadFull(src, data); err != nil {
		return DecodeResult{}, fmt.Errorf("novatek: read record at %d: %w", entry.Offset, err)
	}

	// Sub-header: the record restates its size and identifies itself with
	// a "free" atom type and "GPS " magic. Any mismatch with what the
	// index promised means the index points at garbage.
	selfSize := binary.BigEndian.Uint32(data[:4])
	if selfSize != entry.Size {
		return malformed("self-reported size %d, index promised %d", selfSize, entry.Size), nil
	}
	if typ := string(data[4:8]); typ != recordType {
		return malformed("record type %q, want %q", typ, recordType), nil
	}
	if magic := string(data[8:12]); magic != recordMagic {
		return malformed("record magic %q, want %q", magic, recordMagic), nil
	}

	body := data[recordBodyOffset:]
	hour := binary.LittleEndian.Uint32(body[0:])
	minute := binary.LittleEndian.Uint32(body[4:])
	second := binary.LittleEndian.Uint32(body[8:])
	year := binary.LittleEndian.Uint32(body[12:])
	month := binary.LittleEndian.Uint32(body[16:])
	day := binary.LittleEndian.Uint32(body[20:])

	active := body[24]
	latHemi := body[25]
	lonHemi := body[26]
	// body[27] is reserved.

	rawLat := float64(math.Float32frombits(binary.LittleEndian.Uint32(body[28:])))
	rawLon := float64(math.Float32frombits(binary.LittleEndian.Uint32(body[32:])))
	rawSpeed := float64(math.Float32frombits(binary.LittleEndian.Uint32(body[36:])))
	bearing := float64(math.Float32frombits(binary.LittleEndian.Uint32(body[40:])))

	when, ok := recordTime(hour, minute, second, year, month, day, loc)
	if !ok {
		return malformed("invalid calendar fields %02d-%02d-%02d %02d:%02d:%02d", year, month, day, hour, minute, second), nil
	}

	// 'A' marks an active fix; anything else means the receiver had no
	// satellite lock for this tick. That is an empty slot, not an error.
	if active != 'A' {
		return DecodeResult{Status: StatusNoFix}, nil
	}

	return DecodeResult{
		Status: StatusOK,
		Sample: &track.Sample{
			Lat:     DecodeCoordinate(latHemi, rawLat),
			Lon:     DecodeCoordinate(lonHemi, rawLon),
			Time:    when,
			SpeedMS: rawSpeed * knotsToMS,
			Bearing: bearing,
		},
	}, nil
}

// recordTime builds the fix timestamp in the camera's configured zone.
// The year is stored as an offset from 2000. time.Date normalizes
// out-of-range components instead of failing, so validity is checked by
// reading the components back.
func recordTime(hour, minute, second, year, month, day uint32, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	t := time.Date(2000+int(year), time.Month(month), int(day), int(hour), int(minute), int(second), 0, loc)
	ok := t.Year() == 2000+int(year) &&
		t.Month() == time.Month(month) &&
		t.Day() == int(day) &&
		t.Hour() == int(hour) &&
		t.Minute() == int(minute) &&
		t.Second() == int(second)
	return t, ok
}

// DecodeCoordinate converts the camera's DDDMM.MMMM fixed-point encoding
// to signed decimal degrees: the integer part's last two digits are whole
// minutes and everything above them is degrees. Southern and western
// hemispheres are marked by a byte, not a sign.
func DecodeCoordinate(hemisphere byte, raw float64) float64 {
	minutes := math.Mod(raw, 100)
	degrees := raw - minutes
	dec := degrees/100 + minutes/60
	if hemisphere == 'S' || hemisphere == 'W' {
		return -dec
	}
	return dec
}
