package areagraph

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RootNodeConfig anchors the map in the world: the pixel position of the
// root node in the input image and its geodetic coordinate.
type RootNodeConfig struct {
	Latitude  float64 `yaml:"latitude" json:"latitude"`
	Longitude float64 `yaml:"longitude" json:"longitude"`
	PixelX    float64 `yaml:"pixel_x" json:"pixelX"`
	PixelY    float64 `yaml:"pixel_y" json:"pixelY"`
}

// SimplifyConfig gates Douglas-Peucker simplification of room polygons.
type SimplifyConfig struct {
	Enabled   bool    `yaml:"enabled" json:"enabled"`
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`
}

// SpikeRemovalConfig gates spike/burr removal and carries its thresholds.
// Thresholds are policy tunables, not physical constraints.
type SpikeRemovalConfig struct {
	Enabled           bool    `yaml:"enabled" json:"enabled"`
	AngleThreshold    float64 `yaml:"angle_threshold" json:"angleThreshold"`
	DistanceThreshold float64 `yaml:"distance_threshold" json:"distanceThreshold"`
}

// SmallRoomMergeConfig gates small-room absorption. MinArea is in m²,
// MaxMergeDistance in meters; both are converted to pixels through the map
// resolution.
type SmallRoomMergeConfig struct {
	Enabled          bool    `yaml:"enabled" json:"enabled"`
	MinArea          float64 `yaml:"min_area" json:"minArea"`
	MaxMergeDistance float64 `yaml:"max_merge_distance" json:"maxMergeDistance"`
}

// SmallRoomFilterConfig gates dropping below-threshold rooms outright.
type SmallRoomFilterConfig struct {
	Enabled bool    `yaml:"enabled" json:"enabled"`
	MinArea float64 `yaml:"min_area" json:"minArea"`
}

// PolygonProcessingConfig groups the polygon post-processing knobs.
type PolygonProcessingConfig struct {
	Simplify        SimplifyConfig        `yaml:"simplify" json:"simplify"`
	SpikeRemoval    SpikeRemovalConfig    `yaml:"spike_removal" json:"spikeRemoval"`
	SmallRoomMerge  SmallRoomMergeConfig  `yaml:"small_room_merge" json:"smallRoomMerge"`
	SmallRoomFilter SmallRoomFilterConfig `yaml:"small_room_filter" json:"smallRoomFilter"`
}

// Config is the full parameter surface consumed by the pipeline. All values
// are external inputs; the core computes none of them.
type Config struct {
	// Resolution is the map scale in meters per pixel.
	Resolution        float64                 `yaml:"resolution" json:"resolution"`
	RootNode          RootNodeConfig          `yaml:"root_node" json:"rootNode"`
	PolygonProcessing PolygonProcessingConfig `yaml:"polygon_processing" json:"polygonProcessing"`
}

// DefaultConfig returns the hardcoded defaults callers fall back to when the
// configuration file cannot be loaded.
func DefaultConfig() *Config {
	return &Config{
		Resolution: 0.044,
		RootNode: RootNodeConfig{
			Latitude:  31.17947960435,
			Longitude: 121.59139728509,
			PixelX:    3804.0,
			PixelY:    2801.0,
		},
		PolygonProcessing: PolygonProcessingConfig{
			Simplify: SimplifyConfig{Enabled: true, Tolerance: 0.05},
			SpikeRemoval: SpikeRemovalConfig{
				Enabled:           true,
				AngleThreshold:    60.0,
				DistanceThreshold: 0.30,
			},
			SmallRoomMerge: SmallRoomMergeConfig{
				Enabled:          true,
				MinArea:          4.0,
				MaxMergeDistance: 1.5,
			},
			SmallRoomFilter: SmallRoomFilterConfig{Enabled: false, MinArea: 1.0},
		},
	}
}

// LoadConfig loads the pipeline configuration from a YAML file. Fields
// absent from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	if config.Resolution <= 0 {
		return nil, fmt.Errorf("resolution must be positive, got %g", config.Resolution)
	}

	return config, nil
}

// Projection builds the coordinate projection described by the config.
func (c *Config) Projection() Projection {
	return Projection{
		RootPixel:  [2]float64{c.RootNode.PixelX, c.RootNode.PixelY},
		RootLat:    c.RootNode.Latitude,
		RootLon:    c.RootNode.Longitude,
		Resolution: c.Resolution,
	}
}

// ExportOptions builds the exporter option set described by the config.
func (c *Config) ExportOptions() ExportOptions {
	pp := c.PolygonProcessing
	return ExportOptions{
		Simplify:               pp.Simplify.Enabled,
		SimplifyTolerance:      pp.Simplify.Tolerance,
		SpikeRemoval:           pp.SpikeRemoval.Enabled,
		SpikeAngleThreshold:    pp.SpikeRemoval.AngleThreshold,
		SpikeDistanceThreshold: pp.SpikeRemoval.DistanceThreshold,
		SmallRoomMerge:         pp.SmallRoomMerge.Enabled,
		MinRoomArea:            pp.SmallRoomMerge.MinArea,
		MaxMergeDistance:       pp.SmallRoomMerge.MaxMergeDistance,
		SmallRoomFilter:        pp.SmallRoomFilter.Enabled,
		FilterMinArea:          pp.SmallRoomFilter.MinArea,
	}
}
