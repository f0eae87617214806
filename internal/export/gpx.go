// Package export renders a decoded track as secondary, human-consumable
// documents: a GPX trace for map tools and a CSV table for spreadsheets.
// Both are best-effort outputs; the geotagging pipeline does not depend
// on them.
package export

import (
	"encoding/xml"
	"fmt"
	"io"

	"nvgeotag/internal/track"
)

const gpxTimeFormat = "2006-01-02T15:04:05.000Z07:00"

type gpxDoc struct {
	XMLName        xml.Name    `xml:"gpx"`
	Version        string      `xml:"version,attr"`
	Creator        string      `xml:"creator,attr"`
	Xmlns          string      `xml:"xmlns,attr"`
	XmlnsXsi       string      `xml:"xmlns:xsi,attr"`
	SchemaLocation string      `xml:"xsi:schemaLocation,attr"`
	Name           string      `xml:"name"`
	Track          gpxTrack    `xml:"trk"`
}

type gpxTrack struct {
	Name    string     `xml:"name"`
	Segment gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat     float64 `xml:"lat,attr"`
	Lon     float64 `xml:"lon,attr"`
	Time    string  `xml:"time"`
	Speed   float64 `xml:"speed"`
	Bearing float64 `xml:"bearing"`
}

// WriteGPX renders every decoded fix of the track as a GPX 1.0 track
// segment. Empty slots are simply absent; GPX has no gap notion.
func WriteGPX(w io.Writer, name string, t track.Track) error {
	doc := gpxDoc{
		Version:        "1.0",
		Creator:        "nvgeotag",
		Xmlns:          "http://www.topografix.com/GPX/1/0",
		XmlnsXsi:       "http://www.w3.org/2001/XMLSchema-instance",
		SchemaLocation: "http://www.topografix.com/GPX/1/0 http://www.topografix.com/GPX/1/0/gpx.xsd",
		Name:           name,
		Track:          gpxTrack{Name: name},
	}
	for _, s := range t {
		if s == nil {
			continue
		}
		doc.Track.Segment.Points = append(doc.Track.Segment.Points, gpxPoint{
			Lat:     s.Lat,
			Lon:     s.Lon,
			Time:    s.Time.UTC().Format(gpxTimeFormat),
			Speed:   s.SpeedMS,
			Bearing: s.Bearing,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("export: encode gpx: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
