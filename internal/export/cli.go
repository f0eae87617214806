package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"nvgeotag/internal/novatek"
	"nvgeotag/internal/track"
)

func RegisterCLI() *cli.Command {
	tzFlag := &cli.StringFlag{Name: "tz", Value: "UTC", Usage: "IANA timezone the camera clock was set to"}

	return &cli.Command{
		Name:  "export",
		Usage: "Export the embedded GPS track without touching any frames",
		Subcommands: []*cli.Command{
			{
				Name:      "gpx",
				Usage:     "write a .gpx trace next to each input file",
				ArgsUsage: "FILE [FILE...]",
				Flags:     []cli.Flag{tzFlag},
				Action: func(c *cli.Context) error {
					return exportAll(c, ".gpx", func(w io.Writer, name string, trk track.Track) error {
						return WriteGPX(w, name, trk)
					})
				},
			},
			{
				Name:      "csv",
				Usage:     "write a .csv table next to each input file",
				ArgsUsage: "FILE [FILE...]",
				Flags:     []cli.Flag{tzFlag},
				Action: func(c *cli.Context) error {
					return exportAll(c, ".csv", func(w io.Writer, _ string, trk track.Track) error {
						return WriteCSV(w, trk)
					})
				},
			},
		},
	}
}

func exportAll(c *cli.Context, ext string, write func(io.Writer, string, track.Track) error) error {
	files := c.Args().Slice()
	if len(files) == 0 {
		return fmt.Errorf("no input files given")
	}
	loc, err := time.LoadLocation(c.String("tz"))
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", c.String("tz"), err)
	}

	exported := 0
	for _, file := range files {
		if err := exportOne(file, ext, loc, write); err != nil {
			log.Error().Str("file", file).Err(err).Msg("Export failed")
			continue
		}
		exported++
	}
	if exported == 0 {
		return fmt.Errorf("no tracks exported")
	}
	return nil
}

func exportOne(file, ext string, loc *time.Location, write func(io.Writer, string, track.Track) error) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	trk, _, err := novatek.ExtractTrack(f, loc)
	if err != nil {
		if errors.Is(err, novatek.ErrNoGPSBox) {
			return fmt.Errorf("no GPS track data")
		}
		return err
	}
	if trk.Empty() {
		return fmt.Errorf("no usable fixes")
	}

	outPath := withExt(file, ext)
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := write(out, file, trk); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	log.Info().Str("file", file).Str("output", outPath).Msg("Track exported")
	return nil
}

// withExt swaps the input's extension, so FILE001.MP4 becomes FILE001.gpx.
func withExt(file, ext string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + ext
}
