// Package geotag converts interpolated track points into the structured
// coordinate, bearing, and capture-time fields a metadata writer needs.
// Writing the fields into an image is left to external tooling; this
// package only guarantees the values are exact and correctly referenced.
package geotag

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"time"

	"nvgeotag/internal/track"
)

// Rational is an exact numerator/denominator pair, the form EXIF stores
// GPS values in. Using rationals end to end avoids the float rounding a
// decimal-degrees detour would reintroduce.
type Rational struct {
	Num int64
	Den int64
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// MarshalJSON renders the rational as its "num/den" string so sidecar
// documents stay exact instead of collapsing to floats.
func (r Rational) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(r.String())), nil
}

// DMS is one coordinate decomposed GPS-style: whole degrees, whole
// minutes, and seconds with a fractional part, plus the hemisphere
// letter. Hemisphere is empty for a coordinate of exactly zero, which has
// no hemisphere.
type DMS struct {
	Degrees    Rational `json:"degrees"`
	Minutes    Rational `json:"minutes"`
	Seconds    Rational `json:"seconds"`
	Hemisphere string   `json:"hemisphere,omitempty"`
}

// Tag carries every field the metadata writer needs for one frame.
// Bearing is nil when the interpolated bearing is exactly zero: in EXIF a
// written zero is indistinguishable from "unknown", so it is omitted.
type Tag struct {
	Latitude   DMS
	Longitude  DMS
	Bearing    *Rational // centidegrees over 100
	BearingRef string    // "T" (true north) when Bearing is set
	Time       time.Time // UTC
}

// Build derives the writable fields from one interpolated point.
func Build(pt track.Sample) Tag {
	tag := Tag{
		Latitude:  toDMS(pt.Lat, "S", "N"),
		Longitude: toDMS(pt.Lon, "W", "E"),
		Time:      pt.Time.UTC(),
	}
	if pt.Bearing != 0 {
		centi := int64(math.Round(math.Mod(pt.Bearing, 360) * 100))
		tag.Bearing = &Rational{Num: centi, Den: 100}
		tag.BearingRef = "T"
	}
	return tag
}

// toDMS splits a signed decimal coordinate into degrees/minutes/seconds.
// Seconds keep five decimal places, carried as an exact rational.
func toDMS(deg float64, negative, positive string) DMS {
	hemisphere := ""
	if deg < 0 {
		hemisphere = negative
	} else if deg > 0 {
		hemisphere = positive
	}

	abs := math.Abs(deg)
	whole := math.Trunc(abs)
	minFloat := (abs - whole) * 60
	minWhole := math.Trunc(minFloat)
	sec := roundTo((minFloat-minWhole)*60, 5)

	return DMS{
		Degrees:    Rational{Num: int64(whole), Den: 1},
		Minutes:    Rational{Num: int64(minWhole), Den: 1},
		Seconds:    decimalRational(sec, 5),
		Hemisphere: hemisphere,
	}
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// decimalRational builds the exact rational of v's decimal rendering with
// the given number of places, reduced to lowest terms.
func decimalRational(v float64, places int) Rational {
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(v, 'f', places, 64))
	if !ok {
		return Rational{Num: 0, Den: 1}
	}
	return Rational{Num: r.Num().Int64(), Den: r.Denom().Int64()}
}

// TimestampUTC renders the capture time the way EXIF DateTimeOriginal
// expects, with millisecond precision.
func (t Tag) TimestampUTC() string {
	return t.Time.Format("2006:01:02 15:04:05.000")
}

// FrameFilename derives the output name for a frame captured at the given
// instant. Zero-padded fields make lexicographic order match
// chronological order across all frames of a file.
func FrameFilename(at time.Time) string {
	utc := at.UTC()
	return fmt.Sprintf("frame-%s-%03d.jpg", utc.Format("2006-01-02-15-04-05"), utc.Nanosecond()/int(time.Millisecond))
}
