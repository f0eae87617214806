package pipeline

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"nvgeotag/internal/config"
	"nvgeotag/internal/filters"
	"nvgeotag/internal/frames"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:      "geotag",
		Usage:     "Extract frames from dash-cam videos and geotag them from the embedded GPS track",
		ArgsUsage: "FILE [FILE...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML config file"},
			&cli.StringFlag{Name: "output", Usage: "directory geotagged frames are written to"},
			&cli.StringFlag{Name: "tz", Usage: "IANA timezone the camera clock was set to"},
			&cli.IntFlag{Name: "fps", Usage: "frames to extract per GPS sampling tick"},
			&cli.StringFlag{Name: "ffmpeg", Usage: "path to the ffmpeg binary"},
			&cli.Float64Flag{Name: "min-speed", Usage: "drop frames below this speed in m/s"},
			&cli.StringSliceFlag{Name: "ignore-point", Usage: "lat,lon,radius zone to never output frames for (repeatable)"},
			&cli.BoolFlag{Name: "no-daylight-check", Usage: "process files even when footage ends after dark"},
			&cli.BoolFlag{Name: "no-movement-check", Usage: "process files even when the vehicle never moves"},
			&cli.IntFlag{Name: "jobs", Value: 1, Usage: "number of files to process concurrently"},
		},
		Action: func(c *cli.Context) error {
			files := c.Args().Slice()
			if len(files) == 0 {
				return fmt.Errorf("no input files given")
			}

			cfg := config.Default()
			if path := c.String("config"); path != "" {
				var err error
				if cfg, err = config.Load(path); err != nil {
					return err
				}
			}
			if c.IsSet("output") {
				cfg.Output = c.String("output")
			}
			if c.IsSet("tz") {
				cfg.Timezone = c.String("tz")
			}
			if c.IsSet("fps") {
				cfg.FramesPerTick = c.Int("fps")
			}
			if c.IsSet("ffmpeg") {
				cfg.FFmpegPath = c.String("ffmpeg")
			}
			if c.IsSet("min-speed") {
				cfg.MinSpeedMS = c.Float64("min-speed")
			}
			if c.Bool("no-daylight-check") {
				cfg.RequireDaylight = false
			}
			if c.Bool("no-movement-check") {
				cfg.RequireMovement = false
			}
			for _, s := range c.StringSlice("ignore-point") {
				z, err := config.ParseZone(s)
				if err != nil {
					return err
				}
				cfg.IgnoreZones = append(cfg.IgnoreZones, z)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			opts, err := optionsFromConfig(cfg)
			if err != nil {
				return err
			}
			opts.Concurrency = c.Int("jobs")

			p := New(opts)
			results := p.Run(c.Context, files)

			failed := 0
			for _, r := range results {
				switch {
				case r.Err != nil:
					failed++
					log.Error().Str("file", r.File).Err(r.Err).Msg("Processing failed")
				case r.Skip != SkipNone:
					log.Info().Str("file", r.File).Str("reason", string(r.Skip)).Msg("File skipped")
				default:
					log.Info().Str("file", r.File).Int("written", r.Written).Int("dropped", r.Dropped).Msg("File done")
				}
			}
			if failed == len(results) {
				return fmt.Errorf("all %d files failed", failed)
			}
			return nil
		},
	}
}

func optionsFromConfig(cfg config.Config) (Options, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Options{}, err
	}

	chain := filters.Chain{filters.MinSpeed{MS: cfg.MinSpeedMS}}
	if len(cfg.IgnoreZones) > 0 {
		zones := make([]filters.Zone, len(cfg.IgnoreZones))
		for i, z := range cfg.IgnoreZones {
			zones[i] = filters.Zone{Lat: z.Lat, Lon: z.Lon, RadiusM: z.RadiusM}
		}
		chain = append(chain, filters.Geofence{Zones: zones})
	}

	return Options{
		Output:          cfg.Output,
		Location:        loc,
		FramesPerTick:   cfg.FramesPerTick,
		PointFilters:    chain,
		RequireDaylight: cfg.RequireDaylight,
		RequireMovement: cfg.RequireMovement,
		Extractor:       frames.FFmpeg{Binary: cfg.FFmpegPath},
		Tagger:          SidecarWriter{},
	}, nil
}
