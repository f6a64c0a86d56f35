// Package island assembles a hexagonal island from two constrained noise
// fields: a flat base layer pinned to sea level at the border and lifted in
// the centre, and a sparse spike layer that raises peaks.
package island

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hex-island/internal/assets"
	"github.com/talgya/hex-island/internal/hexgrid"
	"github.com/talgya/hex-island/internal/noise"
)

// Kind classifies a tile's surface.
type Kind uint8

const (
	KindSand   Kind = iota // Low ground near the border
	KindGrass              // Default surface
	KindForest             // Wet ground
	KindRock               // Spike peaks
)

// Cell is one generated tile.
type Cell struct {
	Coord    hexgrid.Coord `json:"coord"`
	Base     float64       `json:"base"`     // Constrained base noise, 0.0–1.0
	Spike    float64       `json:"spike"`    // Spike noise, 0.0–1.0
	Moisture float64       `json:"moisture"` // 0.0 (dry) to 1.0 (wet)
	Height   float64       `json:"height"`   // World-space height of the top tile
	Kind     Kind          `json:"kind"`

	Position      mgl64.Vec3 `json:"position"`       // Top tile centre
	UnderPosition mgl64.Vec3 `json:"under_position"` // Under tile centre
}

// Island is a fully generated terrain.
type Island struct {
	Config          Config
	Grid            *hexgrid.Grid[Cell]
	BaseConstraints []noise.Constraint

	// Models holds the resolved tile models by name. Empty when the island
	// was generated without an asset cache.
	Models map[string]*assets.Model
}

// Generate builds the island described by cfg. Output is fully determined
// by cfg; it panics if cfg.Size is not positive.
func Generate(cfg Config) *Island {
	grid := hexgrid.New[Cell](cfg.Size, cfg.Size)

	baseField := noise.New(cfg.Size, cfg.Size, noise.WithOptions(cfg.Base))
	spikeField := noise.New(cfg.Size, cfg.Size, noise.WithOptions(cfg.Spike))

	addEdgeConstraints(baseField, cfg)
	addValleyConstraints(baseField, cfg)

	baseGrid := baseField.Generate()
	spikeGrid := spikeField.Generate()
	moisture := opensimplex.NewNormalized(cfg.MoistureSeed)

	for q := 0; q < cfg.Size; q++ {
		for r := 0; r < cfg.Size; r++ {
			// Fields are indexed [q][r]; the grid is square so both orders are in range.
			base := baseGrid[q][r]
			spike := spikeGrid[q][r]

			height := base * cfg.BaseScale
			peak := spikeMultiplier(spike, cfg.SpikeThreshold)
			height += peak * cfg.SpikeIntensity
			height += cfg.BaseLift

			// Axial → cartesian for noise sampling.
			x := float64(q) + float64(r)*0.5
			y := float64(r) * math.Sqrt(3.0) / 2.0
			wet := octaveNoise(moisture, x, y, 3, cfg.MoistureFrequency, 0.5)

			pos := cfg.WorldPosition(q, r, height)
			cell := Cell{
				Coord:         hexgrid.Coord{Q: q, R: r},
				Base:          base,
				Spike:         spike,
				Moisture:      wet,
				Height:        height,
				Kind:          deriveKind(base, peak, wet, cfg),
				Position:      pos,
				UnderPosition: mgl64.Vec3{pos.X(), height - cfg.UnderTileOffset, pos.Z()},
			}
			grid.Set(cell.Coord, cell)
		}
	}

	return &Island{
		Config:          cfg,
		Grid:            grid,
		BaseConstraints: baseField.Constraints(),
		Models:          make(map[string]*assets.Model),
	}
}

// addEdgeConstraints pins all four borders toward sea level.
// The loop runs one past the last index; SetConstraint clamps it back onto the border.
func addEdgeConstraints(f *noise.Field, cfg Config) {
	last := float64(cfg.Size - 1)
	for i := 0; i <= cfg.Size; i++ {
		fi := float64(i)
		f.SetConstraint(0, fi, 0, cfg.EdgeInfluence)
		f.SetConstraint(fi, 0, 0, cfg.EdgeInfluence)
		f.SetConstraint(last, fi, 0, cfg.EdgeInfluence)
		f.SetConstraint(fi, last, 0, cfg.EdgeInfluence)
	}
}

// addValleyConstraints lifts every cell within ValleyRadius of the centre
// to ValleyLevel, replacing any border constraint it overlaps.
func addValleyConstraints(f *noise.Field, cfg Config) {
	centre := float64(cfg.Size) / 2
	for q := 0; q < cfg.Size; q++ {
		for r := 0; r < cfg.Size; r++ {
			d := math.Hypot(float64(q)-centre, float64(r)-centre)
			if d < cfg.ValleyRadius {
				f.SetConstraint(float64(q), float64(r), cfg.ValleyLevel, cfg.EdgeInfluence)
			}
		}
	}
}

// spikeMultiplier maps spike noise above threshold onto [0, 1] quadratically
// so peaks rise steeply; at or below the threshold it is 0.
func spikeMultiplier(spike, threshold float64) float64 {
	if spike <= threshold {
		return 0
	}
	t := (spike - threshold) / (1 - threshold)
	return t * t
}

// deriveKind determines the surface from the generated layers.
func deriveKind(base, peak, moisture float64, cfg Config) Kind {
	if peak > cfg.RockSpike {
		return KindRock
	}
	if base < cfg.BeachLevel {
		return KindSand
	}
	if moisture > cfg.ForestMoisture {
		return KindForest
	}
	return KindGrass
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(n opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// Cells returns every cell in row-major (r, then q) order.
func (isl *Island) Cells() []Cell {
	cells := make([]Cell, 0, isl.Grid.Len())
	isl.Grid.Each(func(_ hexgrid.Coord, c Cell) bool {
		cells = append(cells, c)
		return true
	})
	return cells
}

// Bounds returns the axis-aligned box spanned by the top tile centres.
func (isl *Island) Bounds() (lo, hi mgl64.Vec3) {
	first := true
	isl.Grid.Each(func(_ hexgrid.Coord, c Cell) bool {
		if first {
			lo, hi = c.Position, c.Position
			first = false
			return true
		}
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], c.Position[i])
			hi[i] = math.Max(hi[i], c.Position[i])
		}
		return true
	})
	return lo, hi
}

// KindCounts returns a summary of surface distribution.
func KindCounts(isl *Island) map[Kind]int {
	counts := make(map[Kind]int)
	isl.Grid.Each(func(_ hexgrid.Coord, c Cell) bool {
		counts[c.Kind]++
		return true
	})
	return counts
}

// KindName returns a human-readable name for a surface kind.
func KindName(k Kind) string {
	switch k {
	case KindSand:
		return "Sand"
	case KindGrass:
		return "Grass"
	case KindForest:
		return "Forest"
	case KindRock:
		return "Rock"
	default:
		return "Unknown"
	}
}
