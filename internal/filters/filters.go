// Package filters holds the per-frame and per-file gates that decide
// which interpolated points become output frames. Each stage is a small,
// independently testable value; the pipeline composes them into one
// explicit chain instead of branching per use case.
package filters

import (
	"fmt"

	"nvgeotag/internal/track"
)

// PointFilter decides whether one interpolated point should be excluded
// from output. The returned reason feeds skip logging.
type PointFilter interface {
	Exclude(pt track.Sample) (bool, string)
}

// Chain applies filters in order and reports the first exclusion.
type Chain []PointFilter

func (c Chain) Exclude(pt track.Sample) (bool, string) {
	for _, f := range c {
		if drop, reason := f.Exclude(pt); drop {
			return true, reason
		}
	}
	return false, ""
}

// MinSpeed drops frames where the vehicle is (near) stationary; parked
// footage produces piles of identical geotagged frames.
type MinSpeed struct {
	MS float64
}

func (f MinSpeed) Exclude(pt track.Sample) (bool, string) {
	if pt.SpeedMS < f.MS {
		return true, fmt.Sprintf("speed %.2f m/s below %.2f", pt.SpeedMS, f.MS)
	}
	return false, ""
}

// Zone is a circular exclusion area, typically around home or work.
type Zone struct {
	Lat     float64
	Lon     float64
	RadiusM float64
}

// Geofence drops frames inside any configured zone.
type Geofence struct {
	Zones []Zone
}

func (f Geofence) Exclude(pt track.Sample) (bool, string) {
	for _, z := range f.Zones {
		if d := HaversineMeters(z.Lat, z.Lon, pt.Lat, pt.Lon); d < z.RadiusM {
			return true, fmt.Sprintf("within %.0f m of excluded zone %.5f,%.5f", d, z.Lat, z.Lon)
		}
	}
	return false, ""
}

// HasMovement reports whether the track shows the vehicle moving at all;
// files recorded while parked are skipped whole. The 0.5 m/s floor
// ignores GPS jitter around a standstill.
func HasMovement(t track.Track) bool {
	for _, s := range t {
		if s != nil && s.SpeedMS > 0.5 {
			return true
		}
	}
	return false
}
