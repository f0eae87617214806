package pipeline

import (
	"encoding/json"
	"os"

	"nvgeotag/internal/geotag"
)

// SidecarWriter stores the geotag fields as a JSON document next to the
// frame (frame.jpg -> frame.jpg.json). EXIF embedding is deliberately
// left to external tools; exiftool can apply the sidecar in one pass.
type SidecarWriter struct{}

type sidecarDoc struct {
	Latitude   geotag.DMS       `json:"latitude"`
	Longitude  geotag.DMS       `json:"longitude"`
	Bearing    *geotag.Rational `json:"bearing,omitempty"`
	BearingRef string           `json:"bearing_ref,omitempty"`
	TimeUTC    string           `json:"time_utc"`
}

func (SidecarWriter) WriteTag(framePath string, tag geotag.Tag) error {
	doc := sidecarDoc{
		Latitude:   tag.Latitude,
		Longitude:  tag.Longitude,
		Bearing:    tag.Bearing,
		BearingRef: tag.BearingRef,
		TimeUTC:    tag.TimestampUTC(),
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(framePath+".json", append(b, '\n'), 0o644)
}
