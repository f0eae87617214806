// Package config loads job settings for the extraction pipeline from a
// YAML file. Command-line flags override individual fields; defaults are
// applied here so both paths share them.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Output is the directory geotagged frames are moved into.
	Output string `yaml:"output"`
	// Timezone is the IANA zone the camera clock was set to. Record
	// timestamps carry no zone of their own.
	Timezone string `yaml:"timezone"`
	// FramesPerTick is how many frames to extract per one-second GPS
	// sampling tick (the ffmpeg fps value).
	FramesPerTick int     `yaml:"frames_per_tick"`
	FFmpegPath    string  `yaml:"ffmpeg_path"`
	MinSpeedMS    float64 `yaml:"min_speed_ms"`
	// RequireDaylight skips files whose footage ends after dark;
	// RequireMovement skips files recorded while parked.
	RequireDaylight bool         `yaml:"require_daylight"`
	RequireMovement bool         `yaml:"require_movement"`
	IgnoreZones     []ZoneConfig `yaml:"ignore_zones"`
}

// ZoneConfig is a circular exclusion area around a point of interest.
type ZoneConfig struct {
	Lat     float64 `yaml:"lat"`
	Lon     float64 `yaml:"lon"`
	RadiusM float64 `yaml:"radius_m"`
}

func Default() Config {
	return Config{
		Output:          ".",
		Timezone:        "UTC",
		FramesPerTick:   1,
		MinSpeedMS:      4.0,
		RequireDaylight: true,
		RequireMovement: true,
	}
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.FramesPerTick < 1 {
		return fmt.Errorf("frames_per_tick must be >= 1, got %d", c.FramesPerTick)
	}
	if c.Output == "" {
		return fmt.Errorf("output directory is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	for i, z := range c.IgnoreZones {
		if z.RadiusM <= 0 {
			return fmt.Errorf("ignore_zones[%d]: radius_m must be > 0", i)
		}
	}
	return nil
}

// Location resolves the configured camera timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ParseZone parses the "lat,lon,radius" form used by command-line flags.
func ParseZone(s string) (ZoneConfig, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return ZoneConfig{}, fmt.Errorf("ignore zone %q: want lat,lon,radius", s)
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return ZoneConfig{}, fmt.Errorf("ignore zone %q: %w", s, err)
		}
		vals[i] = v
	}
	z := ZoneConfig{Lat: vals[0], Lon: vals[1], RadiusM: vals[2]}
	if z.RadiusM <= 0 {
		return ZoneConfig{}, fmt.Errorf("ignore zone %q: radius must be > 0", s)
	}
	return z, nil
}
