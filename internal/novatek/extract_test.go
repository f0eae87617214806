package novatek

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"

	"nvgeotag/internal/mp4"
)

func TestFindIndex_NoGPSBox(t *testing.T) {
	// moov present but without a gps child.
	file := appendAtom(nil, "ftyp", []byte("mp42"))
	file = appendAtom(file, "moov", appendAtom(nil, "mvhd", make([]byte, 4)))

	_, err := FindIndex(bytes.NewReader(file))
	if !errors.Is(err, ErrNoGPSBox) {
		t.Fatalf("err=%v want ErrNoGPSBox", err)
	}
}

func TestFindIndex_NoMoov(t *testing.T) {
	file := appendAtom(nil, "ftyp", []byte("mp42"))
	_, err := FindIndex(bytes.NewReader(file))
	if !errors.Is(err, ErrNoGPSBox) {
		t.Fatalf("err=%v want ErrNoGPSBox", err)
	}
}

func TestFindIndex_StructuralErrorInsideMoov(t *testing.T) {
	// A moov child that claims to be larger than the moov itself.
	child := make([]byte, 8)
	binary.BigEndian.PutUint32(child[:4], 4096)
	copy(child[4:], "trak")
	file := appendAtom(nil, "moov", child)

	_, err := FindIndex(bytes.NewReader(file))
	var se *mp4.StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("err=%v want StructuralError", err)
	}
}

func TestFindIndex_ReadsEntries(t *testing.T) {
	recA := buildRecord(validRecord())
	recB := buildRecord(validRecord())
	file := buildContainer(recA, recB)

	entries, err := FindIndex(bytes.NewReader(file))
	if err != nil {
		t.Fatalf("FindIndex() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Size != uint32(len(recA)) || entries[1].Size != uint32(len(recB)) {
		t.Fatalf("entry sizes wrong: %+v", entries)
	}
	if entries[1].Offset != entries[0].Offset+uint32(len(recA)) {
		t.Fatalf("entries not consecutive: %+v", entries)
	}
}

func TestExtractTrack_EndToEnd(t *testing.T) {
	active := validRecord() // raw 3713.4840 N / 00145.9000 E
	inactive := validRecord()
	inactive.active = 'V'

	file := buildContainer(buildRecord(active), buildRecord(inactive))

	trk, stats, err := ExtractTrack(bytes.NewReader(file), time.UTC)
	if err != nil {
		t.Fatalf("ExtractTrack() error: %v", err)
	}
	if len(trk) != 2 {
		t.Fatalf("track length=%d want 2", len(trk))
	}
	if trk[0] == nil {
		t.Fatalf("slot 0 should hold a fix")
	}
	if math.Abs(trk[0].Lat-37.2247) > 1e-4 || math.Abs(trk[0].Lon-1.7650) > 1e-4 {
		t.Fatalf("slot 0 = %f,%f want ~37.2247,~1.7650", trk[0].Lat, trk[0].Lon)
	}
	if trk[1] != nil {
		t.Fatalf("slot 1 should be empty (inactive fix)")
	}
	if stats.Entries != 2 || stats.Fixes != 1 || stats.NoFix != 1 {
		t.Fatalf("stats=%+v", stats)
	}
}

func TestExtractTrack_CorruptRecordDoesNotAbortFile(t *testing.T) {
	bad := validRecord()
	bad.magic = "JUNK"
	good := validRecord()

	file := buildContainer(buildRecord(bad), buildRecord(good))

	trk, stats, err := ExtractTrack(bytes.NewReader(file), time.UTC)
	if err != nil {
		t.Fatalf("ExtractTrack() error: %v", err)
	}
	if trk[0] != nil {
		t.Fatalf("corrupt record should leave its slot empty")
	}
	if trk[1] == nil {
		t.Fatalf("record after a corrupt one must still decode")
	}
	if stats.Malformed != 1 || stats.Fixes != 1 {
		t.Fatalf("stats=%+v", stats)
	}
}

func TestExtractTrack_EmptyIndexYieldsEmptyTrack(t *testing.T) {
	file := buildContainer() // gps box with sub-header only, zero entries

	trk, stats, err := ExtractTrack(bytes.NewReader(file), time.UTC)
	if err != nil {
		t.Fatalf("ExtractTrack() error: %v", err)
	}
	if len(trk) != 0 || stats.Entries != 0 {
		t.Fatalf("track=%v stats=%+v, want empty", trk, stats)
	}
}
