package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"nvgeotag/internal/export"
	"nvgeotag/internal/pipeline"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("NVGEOTAG_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("NVGEOTAG_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "nvgeotag",
		Description: "Extracts the GPS track embedded in Novatek dash-cam recordings and geotags still frames from it",

		Commands: []*cli.Command{
			pipeline.RegisterCLI(),
			export.RegisterCLI(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}
