package novatek

import (
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"nvgeotag/internal/track"
)

// ExtractStats counts per-record outcomes for one file, for reporting.
type ExtractStats struct {
	Entries   int
	Fixes     int
	NoFix     int
	Malformed int
}

// ExtractTrack reconstructs the file's GPS track: one slot per index
// entry, in index order (which is chronological: entry n is second n of
// the recording), with nil slots for ticks that produced no usable fix.
//
// Record-level problems are absorbed here; only file-level outcomes
// escape. ErrNoGPSBox and *mp4.StructuralError mean no track could be
// built at all. An all-gap track is returned as-is; callers decide
// whether that counts as a skip.
func ExtractTrack(src io.ReadSeeker, loc *time.Location) (track.Track, ExtractStats, error) {
	entries, err := FindIndex(src)
	if err != nil {
		return nil, ExtractStats{}, err
	}

	stats := ExtractStats{Entries: len(entries)}
	trk := make(track.Track, 0, len(entries))
	for i, entry := range entries {
		res, err := DecodeRecord(src, entry, loc)
		if err != nil {
			return nil, stats, err
		}
		switch res.Status {
		case StatusOK:
			stats.Fixes++
			trk = append(trk, res.Sample)
		case StatusNoFix:
			stats.NoFix++
			trk = append(trk, nil)
		case StatusMalformed:
			stats.Malformed++
			log.Debug().
				Int("entry", i).
				Uint32("offset", entry.Offset).
				Str("reason", res.Reason).
				Msg("Skipping malformed GPS record")
			trk = append(trk, nil)
		}
	}
	return trk, stats, nil
}
