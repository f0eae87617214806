package track

import (
	"math"
	"time"
)

// Interpolate produces the synthetic sample at fractional position ratio
// between prev and next, where prev.Time <= next.Time and ratio is in
// [0, 1). ratio 0 reproduces prev exactly; ratio approaching 1 approaches
// next.
//
// Bearing uses shortest-angular-path interpolation so that crossing the
// 0/360 seam does not swing through the opposite heading (350 -> 10 at
// ratio 0.5 gives 0, not 180). The result is normalized into [0,360)
// because the path formula itself can leave that range.
func Interpolate(prev, next Sample, ratio float64) Sample {
	return Sample{
		Lat:     lerp(prev.Lat, next.Lat, ratio),
		Lon:     lerp(prev.Lon, next.Lon, ratio),
		Time:    lerpTime(prev.Time, next.Time, ratio),
		SpeedMS: lerp(prev.SpeedMS, next.SpeedMS, ratio),
		Bearing: lerpBearing(prev.Bearing, next.Bearing, ratio),
	}
}

func lerp(from, to, ratio float64) float64 {
	return from + (to-from)*ratio
}

// lerpTime keeps nanosecond duration arithmetic; callers only need
// millisecond precision for filenames and capture timestamps.
func lerpTime(from, to time.Time, ratio float64) time.Time {
	if ratio == 0 {
		return from
	}
	d := to.Sub(from)
	return from.Add(time.Duration(float64(d) * ratio))
}

func lerpBearing(from, to, ratio float64) float64 {
	// math.Mod keeps the dividend's sign, so normalize into [0,360) first
	// to get a true floored modulus before recentring on [-180,180).
	shortest := normalizeDeg(from-to+180) - 180
	return normalizeDeg(from - shortest*ratio)
}

// normalizeDeg maps any angle onto [0,360).
func normalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Frames walks the track tick by tick and invokes fn once per output
// frame: perTick frames for every slot, at ratios k/perTick between the
// previous and current fix. Frame numbers start at 1 to match the
// numbering of extracted thumbnail files, and empty slots still advance
// the frame counter so later frames stay aligned with wall time.
//
// A leading gap (track starts before the first fix) substitutes the first
// fix for the missing predecessor, which makes the interpolation
// ratio-invariant there rather than an error.
func Frames(t Track, perTick int, fn func(frame int, pt Sample) error) error {
	frame := 1
	var prev *Sample
	for _, s := range t {
		if s == nil {
			frame += perTick
			continue
		}
		if prev == nil {
			prev = s
		}
		for k := 0; k < perTick; k++ {
			ratio := float64(k) / float64(perTick)
			if err := fn(frame, Interpolate(*prev, *s, ratio)); err != nil {
				return err
			}
			frame++
		}
		prev = s
	}
	return nil
}
