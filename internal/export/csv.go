package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"nvgeotag/internal/track"
)

// csvPoint is one row of the CSV export. Tick is the slot index, i.e.
// elapsed seconds since the start of the recording.
type csvPoint struct {
	Tick    int     `csv:"tick"`
	Lat     float64 `csv:"latitude"`
	Lon     float64 `csv:"longitude"`
	Time    string  `csv:"time"`
	SpeedMS float64 `csv:"speed_ms"`
	Bearing float64 `csv:"bearing"`
}

// WriteCSV renders every decoded fix as one CSV row, keyed by tick index
// so gaps remain visible as missing ticks.
func WriteCSV(w io.Writer, t track.Track) error {
	rows := make([]csvPoint, 0, t.Fixes())
	for i, s := range t {
		if s == nil {
			continue
		}
		rows = append(rows, csvPoint{
			Tick:    i,
			Lat:     s.Lat,
			Lon:     s.Lon,
			Time:    s.Time.UTC().Format(gpxTimeFormat),
			SpeedMS: s.SpeedMS,
			Bearing: s.Bearing,
		})
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("export: encode csv: %w", err)
	}
	return nil
}
