package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wesen/clustermap/pkg/clustering"
	"github.com/wesen/clustermap/pkg/geo"
	"github.com/wesen/clustermap/pkg/playback"
)

// noEnv keeps a stray .env in the package directory out of the tests.
func noEnv(t *testing.T) string {
	return "--env-file=" + filepath.Join(t.TempDir(), "missing.env")
}

func TestDefaults(t *testing.T) {
	cfg, err := Load([]string{noEnv(t)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Clustering.MinClusterSize != clustering.DefaultMinClusterSize {
		t.Errorf("min cluster size: expected %d, got %d", clustering.DefaultMinClusterSize, cfg.Clustering.MinClusterSize)
	}
	if cfg.Camera.Zoom != geo.DefaultZoom {
		t.Errorf("zoom: expected %v, got %v", geo.DefaultZoom, cfg.Camera.Zoom)
	}
	if cfg.Center() != clustering.DemoCenter {
		t.Errorf("center: expected %v, got %v", clustering.DemoCenter, cfg.Center())
	}
	if cfg.Animation.EnterDuration != playback.DefaultDuration || cfg.Animation.ExitDuration != playback.DefaultDuration {
		t.Errorf("durations: expected %v, got %v/%v", playback.DefaultDuration,
			cfg.Animation.EnterDuration, cfg.Animation.ExitDuration)
	}
	if cfg.Camera.IdleDelay != 250*time.Millisecond {
		t.Errorf("idle delay: expected 250ms, got %v", cfg.Camera.IdleDelay)
	}
	if _, ok, _ := cfg.OverlayPosition(); ok {
		t.Error("overlay should be disabled by default")
	}
}

func TestFlagsOverride(t *testing.T) {
	cfg, err := Load([]string{noEnv(t), "--items=12", "--zoom=3.5", "--easing=linear", "--exit-duration=1s"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Items.Count != 12 || cfg.Camera.Zoom != 3.5 {
		t.Errorf("expected items=12 zoom=3.5, got %d %v", cfg.Items.Count, cfg.Camera.Zoom)
	}
	spec, err := cfg.ExitSpec()
	if err != nil {
		t.Fatalf("ExitSpec: %v", err)
	}
	if spec.Duration != time.Second || spec.Easing(0.25) != 0.25 {
		t.Errorf("exit spec: expected 1s linear, got %v", spec.Duration)
	}
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("CLUSTERMAP_CLUSTERING_MIN_CLUSTER_SIZE", "7")
	t.Setenv("CLUSTERMAP_CAMERA_IDLE_DELAY", "1s")
	cfg, err := Load([]string{noEnv(t)})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Clustering.MinClusterSize != 7 {
		t.Errorf("env min cluster size: expected 7, got %d", cfg.Clustering.MinClusterSize)
	}
	if cfg.Camera.IdleDelay != time.Second {
		t.Errorf("env idle delay: expected 1s, got %v", cfg.Camera.IdleDelay)
	}

	// An explicit flag beats the environment.
	cfg, err = Load([]string{noEnv(t), "--min-cluster-size=2"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Clustering.MinClusterSize != 2 {
		t.Errorf("flag over env: expected 2, got %d", cfg.Clustering.MinClusterSize)
	}
}

func TestDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("CLUSTERMAP_ITEMS_SEED=99\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv sets the variable on the process; restore it afterwards.
	t.Setenv("CLUSTERMAP_ITEMS_SEED", "")
	os.Unsetenv("CLUSTERMAP_ITEMS_SEED")

	cfg, err := Load([]string{"--env-file=" + path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Items.Seed != 99 {
		t.Errorf("seed from .env: expected 99, got %d", cfg.Items.Seed)
	}
}

func TestYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clustermap.yaml")
	yaml := strings.Join([]string{
		"clustering:",
		"  policy: \"size >= 2 && zoom < 15\"",
		"overlay:",
		"  enabled: true",
		"  lat: 1.3",
		"  lng: 103.8",
		"  width: 5000",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load([]string{noEnv(t), "--config=" + path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Clustering.Policy != "size >= 2 && zoom < 15" {
		t.Errorf("policy: got %q", cfg.Clustering.Policy)
	}
	pos, ok, err := cfg.OverlayPosition()
	if err != nil || !ok {
		t.Fatalf("overlay: expected enabled, got %v %v", ok, err)
	}
	loc, width, _, isLoc := pos.Location()
	if !isLoc || loc != geo.NewLatLng(1.3, 103.8) || width != 5000 {
		t.Errorf("overlay location: got %v %v (%v)", loc, width, isLoc)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Items:      ItemsConfig{Count: 10, Lat: 1, Lng: 2},
			Clustering: ClusteringConfig{MinClusterSize: 4},
			Animation:  AnimationConfig{EnterDuration: time.Second, ExitDuration: time.Second},
		}
	}
	if err := func() error { c := base(); return c.Validate() }(); err != nil {
		t.Fatalf("base config should be valid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative count", func(c *Config) { c.Items.Count = -1 }},
		{"negative spread", func(c *Config) { c.Items.Spread = -0.1 }},
		{"latitude", func(c *Config) { c.Items.Lat = 91 }},
		{"idle delay", func(c *Config) { c.Camera.IdleDelay = -time.Second }},
		{"min cluster size", func(c *Config) { c.Clustering.MinClusterSize = 0 }},
		{"easing", func(c *Config) { c.Animation.Easing = "bounce" }},
		{"duration", func(c *Config) { c.Animation.EnterDuration = -time.Millisecond }},
		{"overlay empty", func(c *Config) { c.Overlay.Enabled = true }},
		{"overlay both", func(c *Config) {
			c.Overlay = OverlayConfig{Enabled: true, South: 1, West: 1, North: 2, East: 2, Lat: 1.5, Lng: 1.5, Width: 10}
		}},
	}
	for _, tt := range tests {
		c := base()
		tt.mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected a validation error", tt.name)
		}
	}

	c := base()
	c.Overlay = OverlayConfig{Enabled: true}
	if err := c.Validate(); !errors.Is(err, geo.ErrOverlayPosition) {
		t.Errorf("overlay error: expected ErrOverlayPosition, got %v", err)
	}
	c = base()
	c.Animation.Easing = "bounce"
	if err := c.Validate(); !errors.Is(err, playback.ErrInvalidSpec) {
		t.Errorf("easing error: expected ErrInvalidSpec, got %v", err)
	}
}

func TestMarkers(t *testing.T) {
	cfg, err := Load([]string{noEnv(t), "--items=25", "--seed=7"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	a, err := cfg.Markers()
	if err != nil {
		t.Fatalf("Markers: %v", err)
	}
	if len(a) != 25 {
		t.Fatalf("expected 25 markers, got %d", len(a))
	}
	b := cfg.Generate(7)
	if a[3].ID() != b[3].ID() || a[3].Position() != b[3].Position() {
		t.Error("same seed should give the same markers")
	}
	if c := cfg.Generate(8); c[3].ID() == a[3].ID() {
		t.Error("another seed should give other markers")
	}

	cfg.Items.File = filepath.Join(t.TempDir(), "missing.geojson")
	if _, err := cfg.Markers(); err == nil {
		t.Error("expected an error for a missing items file")
	}
}
