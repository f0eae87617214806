// Package track holds the reconstructed GPS track of one video file and
// the interpolation used to derive positions between samples.
package track

import "time"

// Sample is one decoded GPS fix. Values are never mutated after decode.
type Sample struct {
	Lat     float64 // decimal degrees, south negative
	Lon     float64 // decimal degrees, west negative
	Time    time.Time
	SpeedMS float64 // metres per second
	Bearing float64 // degrees, [0,360)
}

// Track is the gap-preserving sample sequence of one file. The slice index
// is meaningful: samples arrive at a nominal 1 Hz, so index n is the fix
// for second n of the recording. A nil slot means the receiver had no fix
// at that tick; slots are kept so frame timing stays aligned.
type Track []*Sample

// Fixes returns how many slots hold an actual fix.
func (t Track) Fixes() int {
	n := 0
	for _, s := range t {
		if s != nil {
			n++
		}
	}
	return n
}

func (t Track) Empty() bool {
	return t.Fixes() == 0
}

// Latest returns the chronologically last fix, or nil for an empty track.
func (t Track) Latest() *Sample {
	var latest *Sample
	for _, s := range t {
		if s == nil {
			continue
		}
		if latest == nil || s.Time.After(latest.Time) {
			latest = s
		}
	}
	return latest
}
