package novatek

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Test fixtures are synthesized in-memory: just enough of a container to
// exercise the walker, the index table, and the record decoder.

type recordFields struct {
	typ, magic string
	sizeLie    uint32 // when nonzero, written instead of the true size
	hour, min, sec, year, month, day uint32
	active, latHemi, lonHemi         byte
	rawLat, rawLon, speedKt, bearing float32
}

func validRecord() recordFields {
	return recordFields{
		typ: "free", magic: "GPS ",
		hour: 14, min: 30, sec: 5, year: 23, month: 6, day: 10,
		active: 'A', latHemi: 'N', lonHemi: 'E',
		rawLat: 3713.4840, rawLon: 145.9000, speedKt: 10, bearing: 90,
	}
}

func buildRecord(f recordFields) []byte {
	buf := make([]byte, recordMinSize)
	size := f.sizeLie
	if size == 0 {
		size = uint32(len(buf))
	}
	binary.BigEndian.PutUint32(buf[0:], size)
	copy(buf[4:8], f.typ)
	copy(buf[8:12], f.magic)

	body := buf[recordBodyOffset:]
	binary.LittleEndian.PutUint32(body[0:], f.hour)
	binary.LittleEndian.PutUint32(body[4:], f.min)
	binary.LittleEndian.PutUint32(body[8:], f.sec)
	binary.LittleEndian.PutUint32(body[12:], f.year)
	binary.LittleEndian.PutUint32(body[16:], f.month)
	binary.LittleEndian.PutUint32(body[20:], f.day)
	body[24] = f.active
	body[25] = f.latHemi
	body[26] = f.lonHemi
	binary.LittleEndian.PutUint32(body[28:], math.Float32bits(f.rawLat))
	binary.LittleEndian.PutUint32(body[32:], math.Float32bits(f.rawLon))
	binary.LittleEndian.PutUint32(body[36:], math.Float32bits(f.speedKt))
	binary.LittleEndian.PutUint32(body[40:], math.Float32bits(f.bearing))
	return buf
}

func appendAtom(dst []byte, typ string, payload []byte) []byte {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(8+len(payload)))
	copy(hdr[4:], typ)
	dst = append(dst, hdr[:]...)
	return append(dst, payload...)
}

// buildContainer assembles ftyp + moov(gps index) followed by the given
// records, returning the complete file image. Index offsets are absolute,
// exactly as the camera writes them.
func buildContainer(records ...[]byte) []byte {
	file := appendAtom(nil, "ftyp", []byte("mp42"))

	// gps payload: 8-byte vendor sub-header, then one entry per record.
	gpsPayload := make([]byte, 8, 8+len(records)*indexEntryLen)
	moovSize := 8 + 8 + len(gpsPayload) + len(records)*indexEntryLen
	recordStart := len(file) + moovSize

	off := recordStart
	for _, rec := range records {
		var entry [indexEntryLen]byte
		binary.BigEndian.PutUint32(entry[0:], uint32(off))
		binary.BigEndian.PutUint32(entry[4:], uint32(len(rec)))
		gpsPayload = append(gpsPayload, entry[:]...)
		off += len(rec)
	}

	gpsBox := appendAtom(nil, "gps ", gpsPayload)
	file = appendAtom(file, "moov", gpsBox)

	return append(file, bytes.Join(records, nil)...)
}
