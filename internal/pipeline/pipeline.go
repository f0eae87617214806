// Package pipeline runs the per-file extraction sequence: parse the GPS
// track, rasterize frames, interpolate a position for each frame, and
// hand the geotag fields plus the renamed frame to a tag writer. Files in
// a batch are independent; one failing never stops the others.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"nvgeotag/internal/filters"
	"nvgeotag/internal/frames"
	"nvgeotag/internal/geotag"
	"nvgeotag/internal/mp4"
	"nvgeotag/internal/novatek"
	"nvgeotag/internal/track"
)

// TagWriter receives the finished frame path and its geotag fields.
// Embedding the fields into the image is external tooling's job.
type TagWriter interface {
	WriteTag(framePath string, tag geotag.Tag) error
}

// SkipReason explains why a file produced no output. The distinct values
// let operators tell corrupt files from files that simply lack GPS data.
type SkipReason string

const (
	SkipNone       SkipReason = ""
	SkipNoTrack    SkipReason = "no GPS track data"
	SkipStructural SkipReason = "structurally invalid container"
	SkipDark       SkipReason = "footage ends after dark"
	SkipParked     SkipReason = "no movement in track"
)

type Options struct {
	Output          string
	Location        *time.Location
	FramesPerTick   int
	PointFilters    filters.Chain
	RequireDaylight bool
	RequireMovement bool
	Extractor       frames.Extractor
	Tagger          TagWriter
	// Concurrency bounds how many files are processed at once; <=0 means
	// sequential.
	Concurrency int
}

// Result summarizes one file's run. Err is set for operational failures
// (I/O, ffmpeg); data-quality outcomes land in Skip instead.
type Result struct {
	File    string
	Written int
	Dropped int
	Skip    SkipReason
	Err     error
}

type Pipeline struct {
	opts Options
}

func New(opts Options) *Pipeline {
	if opts.FramesPerTick < 1 {
		opts.FramesPerTick = 1
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Extractor == nil {
		opts.Extractor = frames.FFmpeg{}
	}
	if opts.Tagger == nil {
		opts.Tagger = SidecarWriter{}
	}
	return &Pipeline{opts: opts}
}

// Run processes the batch, bounded by the configured concurrency, and
// returns one result per input file in input order.
func (p *Pipeline) Run(ctx context.Context, files []string) []Result {
	workers := p.opts.Concurrency
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(files))
	pl := pool.New().WithMaxGoroutines(workers)
	for i, file := range files {
		i, file := i, file
		pl.Go(func() {
			results[i] = p.ProcessFile(ctx, file)
		})
	}
	pl.Wait()
	return results
}

// ProcessFile runs the whole sequence for one video.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) Result {
	res := Result{File: path}

	f, err := os.Open(path)
	if err != nil {
		res.Err = err
		return res
	}
	defer f.Close()

	log.Info().Str("file", path).Msg("Extracting GPS data")
	trk, stats, err := novatek.ExtractTrack(f, p.opts.Location)
	if err != nil {
		var se *mp4.StructuralError
		switch {
		case errors.Is(err, novatek.ErrNoGPSBox):
			res.Skip = SkipNoTrack
		case errors.As(err, &se):
			log.Warn().Str("file", path).Str("detail", se.Reason).Msg("Container is structurally invalid")
			res.Skip = SkipStructural
		default:
			res.Err = err
		}
		return res
	}
	log.Debug().
		Str("file", path).
		Int("entries", stats.Entries).
		Int("fixes", stats.Fixes).
		Int("malformed", stats.Malformed).
		Msg("Track decoded")

	if trk.Empty() {
		res.Skip = SkipNoTrack
		return res
	}
	if p.opts.RequireDaylight && !filters.Daylight(*trk.Latest()) {
		res.Skip = SkipDark
		return res
	}
	if p.opts.RequireMovement && !filters.HasMovement(trk) {
		res.Skip = SkipParked
		return res
	}

	written, dropped, err := p.tagFrames(ctx, path, trk)
	res.Written, res.Dropped, res.Err = written, dropped, err
	return res
}

// tagFrames rasterizes the video into a scratch directory, then walks the
// interpolated frame stream, moving surviving frames into the output
// directory under their chronological names. The scratch directory is
// removed on every path.
func (p *Pipeline) tagFrames(ctx context.Context, path string, trk track.Track) (written, dropped int, err error) {
	dir, err := os.MkdirTemp("", "nvgeotag-")
	if err != nil {
		return 0, 0, err
	}
	defer os.RemoveAll(dir)

	log.Info().Str("file", path).Msg("Rasterizing frames")
	pattern, err := p.opts.Extractor.Extract(ctx, path, dir, p.opts.FramesPerTick)
	if err != nil {
		return 0, 0, err
	}

	err = track.Frames(trk, p.opts.FramesPerTick, func(frame int, pt track.Sample) error {
		if drop, reason := p.opts.PointFilters.Exclude(pt); drop {
			dropped++
			log.Debug().Str("file", path).Int("frame", frame).Str("reason", reason).Msg("Frame filtered out")
			return nil
		}

		src := frames.Path(pattern, frame)
		dest := filepath.Join(p.opts.Output, geotag.FrameFilename(pt.Time))
		if err := moveFile(src, dest); err != nil {
			// The decoder may emit fewer frames than the track has
			// ticks; trailing misses are not fatal.
			if errors.Is(err, fs.ErrNotExist) {
				dropped++
				log.Debug().Str("file", path).Int("frame", frame).Msg("No rasterized frame for tick")
				return nil
			}
			return err
		}

		if err := p.opts.Tagger.WriteTag(dest, geotag.Build(pt)); err != nil {
			return fmt.Errorf("write tag for %s: %w", dest, err)
		}
		written++
		return nil
	})
	return written, dropped, err
}

// moveFile renames src into place, falling back to copy-and-delete when
// the scratch and output directories live on different filesystems.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil || errors.Is(err, fs.ErrNotExist) {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := out.ReadFrom(in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
