package island

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/hex-island/internal/noise"
)

// Config holds island generation parameters.
type Config struct {
	Size      int     `yaml:"size"`       // Cells per side of the square hex grid
	HexRadius float64 `yaml:"hex_radius"` // Corner-to-centre radius of one tile, world units

	Base  noise.Options `yaml:"base"`  // Broad, flat terrain
	Spike noise.Options `yaml:"spike"` // Sparse high peaks

	EdgeInfluence float64 `yaml:"edge_influence"` // Influence of the sea-level border constraints
	ValleyRadius  float64 `yaml:"valley_radius"`  // Cells from centre pinned to ValleyLevel
	ValleyLevel   float64 `yaml:"valley_level"`

	BaseScale       float64 `yaml:"base_scale"`       // Base noise → world height
	SpikeThreshold  float64 `yaml:"spike_threshold"`  // Spike noise above this raises a peak
	SpikeIntensity  float64 `yaml:"spike_intensity"`  // Height of a full peak
	BaseLift        float64 `yaml:"base_lift"`        // Added to every tile so none sit at zero
	UnderTileOffset float64 `yaml:"under_tile_offset"` // Drop of the under tile below the top tile

	MoistureSeed      int64   `yaml:"moisture_seed"`
	MoistureFrequency float64 `yaml:"moisture_frequency"`
	BeachLevel        float64 `yaml:"beach_level"`     // Base noise below this is sand
	ForestMoisture    float64 `yaml:"forest_moisture"` // Moisture above this is forest
	RockSpike         float64 `yaml:"rock_spike"`      // Spike multiplier above this is rock
}

// DefaultConfig returns the 10×10 demo island.
func DefaultConfig() Config {
	return Config{
		Size:      10,
		HexRadius: 6,
		Base: noise.Options{
			Frequency:             0.05,
			Octaves:               6,
			Persistence:           0.5,
			Lacunarity:            2.0,
			Seed:                  17042002,
			ConstraintBlendRadius: 8,
		},
		Spike: noise.Options{
			Frequency:             0.08,
			Octaves:               2,
			Persistence:           0.8,
			Lacunarity:            2.0,
			Seed:                  20032002,
			ConstraintBlendRadius: 3,
		},
		EdgeInfluence:     0.4,
		ValleyRadius:      5,
		ValleyLevel:       0.6,
		BaseScale:         30,
		SpikeThreshold:    0.6,
		SpikeIntensity:    200,
		BaseLift:          20,
		UnderTileOffset:   6,
		MoistureSeed:      17042004,
		MoistureFrequency: 0.15,
		BeachLevel:        0.3,
		ForestMoisture:    0.55,
		RockSpike:         0.25,
	}
}

// SmallTestConfig returns a tiny island for rapid iteration.
func SmallTestConfig() Config {
	cfg := DefaultConfig()
	cfg.Size = 6
	cfg.ValleyRadius = 2
	return cfg
}

// Reseed returns a copy of cfg with every layer seeded from seed.
// Layers use seed, seed+1 and seed+2 so they stay independent.
func (cfg Config) Reseed(seed int64) Config {
	cfg.Base.Seed = seed
	cfg.Spike.Seed = seed + 1
	cfg.MoistureSeed = seed + 2
	return cfg
}

// TileWidth is the distance between adjacent tile centres along a row.
func (cfg Config) TileWidth() float64 {
	return cfg.HexRadius * 2
}

// RowHeight is the distance between adjacent rows.
func (cfg Config) RowHeight() float64 {
	return math.Sqrt(3) * cfg.HexRadius
}

// WorldPosition places (q, r) on the offset layout, centred on the origin,
// with y set to height. Odd rows shift half a tile along x.
func (cfg Config) WorldPosition(q, r int, height float64) mgl64.Vec3 {
	w := cfg.TileWidth()
	h := cfg.RowHeight()
	half := float64(cfg.Size) / 2
	x := w*(float64(q)+float64(r%2)*0.5) - w*half
	z := h*float64(r) - h*half
	return mgl64.Vec3{x, height, z}
}
