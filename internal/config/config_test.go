package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, "output: ./frames\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Output != "./frames" {
		t.Fatalf("output=%q", cfg.Output)
	}
	if cfg.FramesPerTick != 1 {
		t.Fatalf("frames_per_tick=%d want default 1", cfg.FramesPerTick)
	}
	if cfg.Timezone != "UTC" {
		t.Fatalf("timezone=%q want default UTC", cfg.Timezone)
	}
	if cfg.MinSpeedMS != 4.0 {
		t.Fatalf("min_speed_ms=%f want default 4", cfg.MinSpeedMS)
	}
	if !cfg.RequireDaylight || !cfg.RequireMovement {
		t.Fatalf("daylight/movement gates should default on")
	}
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeTempConfig(t, `
output: /data/frames
timezone: America/Chicago
frames_per_tick: 4
min_speed_ms: 2.5
require_daylight: false
ignore_zones:
  - lat: 37.5
    lon: -122.3
    radius_m: 250
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.FramesPerTick != 4 || cfg.MinSpeedMS != 2.5 || cfg.RequireDaylight {
		t.Fatalf("cfg=%+v", cfg)
	}
	if len(cfg.IgnoreZones) != 1 || cfg.IgnoreZones[0].RadiusM != 250 {
		t.Fatalf("zones=%+v", cfg.IgnoreZones)
	}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location() error: %v", err)
	}
	if loc.String() != "America/Chicago" {
		t.Fatalf("location=%s", loc)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad frames_per_tick", "frames_per_tick: 0\n"},
		{"bad timezone", "timezone: Not/AZone\n"},
		{"bad zone radius", "ignore_zones:\n  - lat: 1\n    lon: 2\n    radius_m: 0\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempConfig(t, tc.yaml)
			if _, err := Load(path); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestParseZone(t *testing.T) {
	z, err := ParseZone("37.5,-122.3,250")
	if err != nil {
		t.Fatalf("ParseZone() error: %v", err)
	}
	if z.Lat != 37.5 || z.Lon != -122.3 || z.RadiusM != 250 {
		t.Fatalf("zone=%+v", z)
	}

	for _, bad := range []string{"", "1,2", "a,b,c", "1,2,-5"} {
		if _, err := ParseZone(bad); err == nil {
			t.Fatalf("ParseZone(%q) should fail", bad)
		}
	}
}
