package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"nvgeotag/internal/track"
)

func testTrack() track.Track {
	t0 := time.Date(2023, 6, 10, 14, 30, 5, 250_000_000, time.UTC)
	a := track.Sample{Lat: 37.2247, Lon: 1.765, Time: t0, SpeedMS: 5.14444, Bearing: 90}
	b := track.Sample{Lat: 37.2248, Lon: 1.766, Time: t0.Add(2 * time.Second), SpeedMS: 6, Bearing: 91}
	return track.Track{&a, nil, &b}
}

func TestWriteGPX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGPX(&buf, "FILE001.MP4", testTrack()); err != nil {
		t.Fatalf("WriteGPX() error: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<?xml") {
		t.Fatalf("missing xml header: %.60s", out)
	}
	for _, want := range []string{
		`version="1.0"`,
		`xmlns="http://www.topografix.com/GPX/1/0"`,
		`<name>FILE001.MP4</name>`,
		`lat="37.2247"`,
		`<time>2023-06-10T14:30:05.250Z</time>`,
		`<bearing>90</bearing>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("gpx output missing %q:\n%s", want, out)
		}
	}
	// The gap slot contributes nothing.
	if got := strings.Count(out, "<trkpt"); got != 2 {
		t.Fatalf("trkpt count=%d want 2", got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testTrack()); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines want header + 2 rows:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "tick,latitude,longitude,time,speed_ms,bearing") {
		t.Fatalf("header=%q", lines[0])
	}
	// The second fix sits at tick 2; the gap keeps its index.
	if !strings.HasPrefix(lines[2], "2,") {
		t.Fatalf("second row should be tick 2: %q", lines[2])
	}
}

func TestWriteGPX_EmptyTrack(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGPX(&buf, "empty", track.Track{nil, nil}); err != nil {
		t.Fatalf("WriteGPX() error: %v", err)
	}
	if strings.Contains(buf.String(), "<trkpt") {
		t.Fatalf("empty track must produce no points")
	}
}
