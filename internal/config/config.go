package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AaronLay10/roommap/internal/mapgen"
)

// MapConfig is the contents of map.yaml.
type MapConfig struct {
	Version int `yaml:"version"`
	Level   struct {
		Key  string `yaml:"key"`
		Seed int64  `yaml:"seed"`
	} `yaml:"level"`
	Bounds struct {
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`
		Border float64 `yaml:"border"`
	} `yaml:"bounds"`
	MaxInDegree int               `yaml:"max_in_degree"`
	RoomTypes   []string          `yaml:"room_types"`
	Blueprints  []BlueprintConfig `yaml:"blueprints"`
}

// BlueprintConfig configures one column.
type BlueprintConfig struct {
	Min      int      `yaml:"min"`
	Max      int      `yaml:"max"`
	Category []string `yaml:"category"`
}

// LevelKey returns the persistence key, defaulting to "default".
func (c *MapConfig) LevelKey() string {
	if c.Level.Key == "" {
		return "default"
	}
	return c.Level.Key
}

// MapBounds returns the configured layout space.
func (c *MapConfig) MapBounds() mapgen.Bounds {
	return mapgen.Bounds{Width: c.Bounds.Width, Height: c.Bounds.Height, Border: c.Bounds.Border}
}

// Registry returns the configured room types.
func (c *MapConfig) Registry() *mapgen.Registry {
	reg := mapgen.NewRegistry()
	for _, t := range c.RoomTypes {
		reg.Add(mapgen.RoomType(t))
	}
	return reg
}

// ColumnBlueprints converts the blueprint list to generator input.
func (c *MapConfig) ColumnBlueprints() []mapgen.ColumnBlueprint {
	bps := make([]mapgen.ColumnBlueprint, 0, len(c.Blueprints))
	for _, b := range c.Blueprints {
		types := make([]mapgen.RoomType, 0, len(b.Category))
		for _, t := range b.Category {
			types = append(types, mapgen.RoomType(t))
		}
		bps = append(bps, mapgen.ColumnBlueprint{
			MinRooms: b.Min,
			MaxRooms: b.Max,
			Category: mapgen.NewCategory(types...),
		})
	}
	return bps
}

// Validate checks blueprints and bounds the way generation will.
func (c *MapConfig) Validate() error {
	bps := c.ColumnBlueprints()
	if err := mapgen.ValidateBlueprints(bps, c.Registry()); err != nil {
		return err
	}
	return mapgen.ValidateBounds(c.MapBounds(), len(bps))
}

// ParseMapConfig decodes and validates map.yaml contents.
func ParseMapConfig(b []byte) (*MapConfig, error) {
	var cfg MapConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}

	if cfg.Version != 1 {
		return nil, fmt.Errorf("unsupported map.yaml version: %d", cfg.Version)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid map.yaml: %w", err)
	}

	return &cfg, nil
}

// LoadMapConfig reads map.yaml from path.
func LoadMapConfig(path string) (*MapConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseMapConfig(b)
}
