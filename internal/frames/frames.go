// Package frames rasterizes video frames by driving an external decoder.
// Extraction is behind an interface so the pipeline can be tested without
// ffmpeg installed.
package frames

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
)

// Extractor writes numbered still frames (1-based, perTick per source
// second) into dir and returns the printf-style pattern of their paths.
type Extractor interface {
	Extract(ctx context.Context, videoPath, dir string, perTick int) (pattern string, err error)
}

// FFmpeg extracts frames with the ffmpeg binary, at the highest JPEG
// quality ffmpeg offers (the frames are keepsakes, size is not a concern).
type FFmpeg struct {
	// Binary overrides the ffmpeg executable; empty means $PATH lookup.
	Binary string
}

func (f FFmpeg) Extract(ctx context.Context, videoPath, dir string, perTick int) (string, error) {
	if perTick < 1 {
		return "", fmt.Errorf("frames: per-tick count must be >= 1, got %d", perTick)
	}
	bin := f.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	pattern := filepath.Join(dir, "thumb_%d.jpg")

	cmd := exec.CommandContext(ctx, bin,
		"-i", videoPath,
		"-qscale:v", "1", "-qmin", "1", "-qmax", "1",
		"-vf", fmt.Sprintf("fps=%d", perTick),
		pattern,
		"-hide_banner",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("frames: ffmpeg on %s: %w (output: %.400s)", videoPath, err, out)
	}
	return pattern, nil
}

// Path resolves the file name of frame n within an extraction pattern.
func Path(pattern string, n int) string {
	return fmt.Sprintf(pattern, n)
}
