package filters

import (
	"math"
	"time"

	"nvgeotag/internal/track"
)

// twilightDeg is the solar elevation below which footage is considered
// too dark to bother extracting frames from.
const twilightDeg = -2.0

// Daylight reports whether the sun is above the twilight threshold at the
// sample's position and time.
func Daylight(pt track.Sample) bool {
	return SunElevationDeg(pt.Time, pt.Lat, pt.Lon) > twilightDeg
}

// SunElevationDeg computes the sun's elevation above the horizon in
// degrees, using the low-precision solar position formulas from the
// Astronomical Almanac. Accuracy is a fraction of a degree over the
// current century, far tighter than the twilight gate needs.
func SunElevationDeg(at time.Time, latDeg, lonDeg float64) float64 {
	const deg = math.Pi / 180

	// Days since the J2000 epoch (2000-01-01 12:00 UTC).
	j2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	n := at.UTC().Sub(j2000).Hours() / 24

	meanLon := math.Mod(280.460+0.9856474*n, 360)
	meanAnom := (357.528 + 0.9856003*n) * deg
	eclipticLon := (meanLon + 1.915*math.Sin(meanAnom) + 0.020*math.Sin(2*meanAnom)) * deg
	obliquity := (23.439 - 0.0000004*n) * deg

	declination := math.Asin(math.Sin(obliquity) * math.Sin(eclipticLon))
	rightAscension := math.Atan2(math.Cos(obliquity)*math.Sin(eclipticLon), math.Cos(eclipticLon))

	// Greenwich mean sidereal time, then the sun's local hour angle.
	gmstDeg := math.Mod(280.46061837+360.98564736629*n, 360)
	hourAngle := (gmstDeg+lonDeg)*deg - rightAscension

	lat := latDeg * deg
	sinElev := math.Sin(lat)*math.Sin(declination) +
		math.Cos(lat)*math.Cos(declination)*math.Cos(hourAngle)
	return math.Asin(sinElev) / deg
}
