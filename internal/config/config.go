// Package config loads clustermap settings from flags, CLUSTERMAP_* env
// vars, an optional .env file and an optional clustermap.yaml, in that
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wesen/clustermap/pkg/clustering"
	"github.com/wesen/clustermap/pkg/geo"
	"github.com/wesen/clustermap/pkg/geojsonio"
	"github.com/wesen/clustermap/pkg/playback"
)

// EnvPrefix prefixes every environment variable, e.g.
// CLUSTERMAP_CLUSTERING_MIN_CLUSTER_SIZE.
const EnvPrefix = "CLUSTERMAP"

type Config struct {
	Items      ItemsConfig      `mapstructure:"items"`
	Camera     CameraConfig     `mapstructure:"camera"`
	Clustering ClusteringConfig `mapstructure:"clustering"`
	Animation  AnimationConfig  `mapstructure:"animation"`
	Overlay    OverlayConfig    `mapstructure:"overlay"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Log        LogConfig        `mapstructure:"log"`
}

// ItemsConfig either names a GeoJSON file or describes a generated set.
type ItemsConfig struct {
	File   string  `mapstructure:"file"`
	Count  int     `mapstructure:"count"`
	Seed   int64   `mapstructure:"seed"`
	Lat    float64 `mapstructure:"lat"`
	Lng    float64 `mapstructure:"lng"`
	Spread float64 `mapstructure:"spread"`
}

type CameraConfig struct {
	Zoom      float64       `mapstructure:"zoom"`
	IdleDelay time.Duration `mapstructure:"idle_delay"`
}

type ClusteringConfig struct {
	MinClusterSize int `mapstructure:"min_cluster_size"`
	// Policy is a JS boolean expression over size, minClusterSize and
	// zoom. Empty means size >= minClusterSize.
	Policy string `mapstructure:"policy"`
}

type AnimationConfig struct {
	EnterDuration time.Duration `mapstructure:"enter_duration"`
	ExitDuration  time.Duration `mapstructure:"exit_duration"`
	Easing        string        `mapstructure:"easing"`
}

// OverlayConfig places an optional ground overlay. Set either the bounds
// (south/west/north/east) or lat/lng with a width in meters.
type OverlayConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	South   float64 `mapstructure:"south"`
	West    float64 `mapstructure:"west"`
	North   float64 `mapstructure:"north"`
	East    float64 `mapstructure:"east"`
	Lat     float64 `mapstructure:"lat"`
	Lng     float64 `mapstructure:"lng"`
	Width   float64 `mapstructure:"width"`
	Height  float64 `mapstructure:"height"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"items":            "items.count",
	"items-file":       "items.file",
	"seed":             "items.seed",
	"lat":              "items.lat",
	"lng":              "items.lng",
	"spread":           "items.spread",
	"zoom":             "camera.zoom",
	"idle-delay":       "camera.idle_delay",
	"min-cluster-size": "clustering.min_cluster_size",
	"policy":           "clustering.policy",
	"enter-duration":   "animation.enter_duration",
	"exit-duration":    "animation.exit_duration",
	"easing":           "animation.easing",
	"metrics-addr":     "metrics.addr",
	"log-level":        "log.level",
	"log-format":       "log.format",
	"log-file":         "log.file",
}

// Flags returns the flag set Load parses. Callers may add their own flags
// before passing it to LoadFlags.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "config file (default ./clustermap.yaml if present)")
	fs.String("env-file", ".env", "dotenv file loaded before reading the environment")

	fs.Int("items", 200, "number of generated markers")
	fs.String("items-file", "", "GeoJSON file (.geojson or .geojson.zst) with Point markers")
	fs.Int64("seed", 1, "random seed for generated markers")
	fs.Float64("lat", clustering.DemoCenter.Latitude, "latitude of the generated marker center")
	fs.Float64("lng", clustering.DemoCenter.Longitude, "longitude of the generated marker center")
	fs.Float64("spread", 0.3, "degrees of scatter around the center")

	fs.Float64("zoom", geo.DefaultZoom, "initial camera zoom")
	fs.Duration("idle-delay", 250*time.Millisecond, "camera idle time before reclustering")

	fs.Int("min-cluster-size", clustering.DefaultMinClusterSize, "smallest group drawn as a cluster")
	fs.String("policy", "", "JS expression deciding whether a group is a cluster")

	fs.Duration("enter-duration", playback.DefaultDuration, "enter animation duration")
	fs.Duration("exit-duration", playback.DefaultDuration, "exit animation duration")
	fs.String("easing", "fast-out-slow-in", "easing curve: fast-out-slow-in or linear")

	fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
	fs.String("log-level", "info", "log level")
	fs.String("log-format", "text", "log format: text or json")
	fs.String("log-file", "", "log file; empty discards logs in the viewer")
	return fs
}

// Load parses args with the default flag set.
func Load(args []string) (*Config, error) {
	fs := Flags("clustermap")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return LoadFlags(fs)
}

// LoadFlags builds a Config from an already parsed flag set.
func LoadFlags(fs *pflag.FlagSet) (*Config, error) {
	if f := fs.Lookup("env-file"); f != nil && f.Value.String() != "" {
		// A missing .env is not an error.
		_ = godotenv.Load(f.Value.String())
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}
	for _, key := range []string{"south", "west", "north", "east", "lat", "lng", "width", "height"} {
		v.SetDefault("overlay."+key, 0)
	}
	v.SetDefault("overlay.enabled", false)

	if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
		v.SetConfigFile(f.Value.String())
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("clustermap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Items.File == "" && c.Items.Count < 0:
		return fmt.Errorf("items.count must not be negative, got %d", c.Items.Count)
	case c.Items.Spread < 0:
		return fmt.Errorf("items.spread must not be negative, got %v", c.Items.Spread)
	case c.Items.Lat < -90 || c.Items.Lat > 90:
		return fmt.Errorf("items.lat out of range: %v", c.Items.Lat)
	case c.Camera.IdleDelay < 0:
		return fmt.Errorf("camera.idle_delay must not be negative, got %v", c.Camera.IdleDelay)
	case c.Clustering.MinClusterSize < 1:
		return fmt.Errorf("clustering.min_cluster_size must be at least 1, got %d", c.Clustering.MinClusterSize)
	}
	if _, err := c.EnterSpec(); err != nil {
		return fmt.Errorf("animation.enter_duration: %w", err)
	}
	if _, err := c.ExitSpec(); err != nil {
		return fmt.Errorf("animation.exit_duration: %w", err)
	}
	if _, _, err := c.OverlayPosition(); err != nil {
		return fmt.Errorf("overlay: %w", err)
	}
	return nil
}

// Center is the generated marker center.
func (c *Config) Center() geo.LatLng {
	return geo.NewLatLng(c.Items.Lat, c.Items.Lng)
}

// Markers loads items.file, or generates items.count demo markers.
func (c *Config) Markers() ([]*clustering.Marker, error) {
	if c.Items.File != "" {
		return geojsonio.LoadMarkers(c.Items.File)
	}
	return c.Generate(c.Items.Seed), nil
}

// Generate scatters items.count demo markers around the center.
func (c *Config) Generate(seed int64) []*clustering.Marker {
	rng := rand.New(rand.NewSource(seed))
	return clustering.DemoMarkers(rng, c.Items.Count, c.Center(), c.Items.Spread)
}

// InitialCamera is the camera the viewer starts with.
func (c *Config) InitialCamera() geo.CameraPosition {
	return geo.CameraFromLatLngZoom(c.Center(), c.Camera.Zoom)
}

// EnterSpec is the animation spec for appearing elements.
func (c *Config) EnterSpec() (playback.Spec, error) {
	return c.spec(c.Animation.EnterDuration)
}

// ExitSpec is the animation spec for disappearing elements.
func (c *Config) ExitSpec() (playback.Spec, error) {
	return c.spec(c.Animation.ExitDuration)
}

func (c *Config) spec(d time.Duration) (playback.Spec, error) {
	e, err := playback.EasingByName(c.Animation.Easing)
	if err != nil {
		return playback.Spec{}, err
	}
	return playback.NewSpec(d, e)
}

// OverlayPosition builds the configured ground overlay. ok is false when
// the overlay is disabled.
func (c *Config) OverlayPosition() (pos geo.GroundOverlayPosition, ok bool, err error) {
	o := c.Overlay
	if !o.Enabled {
		return geo.GroundOverlayPosition{}, false, nil
	}
	var spec geo.OverlaySpec
	hasBounds := o.South != 0 || o.West != 0 || o.North != 0 || o.East != 0
	hasLocation := o.Lat != 0 || o.Lng != 0
	if hasBounds {
		spec.Bounds = &geo.LatLngBounds{
			Southwest: geo.NewLatLng(o.South, o.West),
			Northeast: geo.NewLatLng(o.North, o.East),
		}
	}
	if hasLocation {
		ll := geo.NewLatLng(o.Lat, o.Lng)
		spec.Location = &ll
	}
	spec.Width, spec.Height = o.Width, o.Height
	pos, err = geo.NewGroundOverlayPosition(spec)
	if err != nil {
		return geo.GroundOverlayPosition{}, false, err
	}
	return pos, true, nil
}
