// Package noise generates seed-reproducible multi-octave Perlin height fields
// that can be reshaped by pinned point constraints.
package noise

import (
	"fmt"

	"github.com/talgya/hex-island/internal/mathx"
)

// Field is a width × height noise generator.
// A Field has a single owner; it does no locking of its own.
type Field struct {
	width       int
	height      int
	opts        Options
	constraints []Constraint
	perm        permutation
}

// New creates a field with the default options overridden by opts.
// The permutation table is built immediately from the resulting seed.
func New(width, height int, opts ...Option) *Field {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Field{
		width:  width,
		height: height,
		opts:   o,
		perm:   newPermutation(o.Seed),
	}
}

// Width returns the number of columns generated.
func (f *Field) Width() int { return f.width }

// Height returns the number of rows generated.
func (f *Field) Height() int { return f.height }

// Options returns a copy of the current options.
func (f *Field) Options() Options {
	return f.opts
}

// UpdateOptions merges opts into the current options. The permutation table
// is rebuilt only if the seed changed.
func (f *Field) UpdateOptions(opts ...Option) {
	oldSeed := f.opts.Seed
	for _, opt := range opts {
		opt(&f.opts)
	}
	if f.opts.Seed != oldSeed {
		f.perm = newPermutation(f.opts.Seed)
	}
}

// Generate returns a fresh [height][width] grid of values in [0, 1].
// Raw octave noise is computed first, then reshaped by the registered constraints.
func (f *Field) Generate() [][]float64 {
	grid := make([][]float64, f.height)
	for y := range grid {
		row := make([]float64, f.width)
		for x := range row {
			row[x] = f.Sample(float64(x), float64(y))
		}
		grid[y] = row
	}

	if len(f.constraints) > 0 {
		f.applyConstraints(grid)
	}
	return grid
}

// Sample returns the unconstrained octave noise at (x, y), in [0, 1].
func (f *Field) Sample(x, y float64) float64 {
	value := 0.0
	amplitude := 1.0
	frequency := f.opts.Frequency
	maxValue := 0.0

	for i := 0; i < f.opts.Octaves; i++ {
		value += float64(f.perm.noise2(float64(x*frequency), float64(y*frequency)) * amplitude)
		maxValue += amplitude
		amplitude *= f.opts.Persistence
		frequency *= f.opts.Lacunarity
	}

	// Corner gradients can push a single octave slightly past ±1.
	return mathx.Clamp01((value/maxValue + 1) * 0.5)
}

// String returns a summary of the field.
func (f *Field) String() string {
	return fmt.Sprintf("Field(%dx%d, seed=%d, octaves=%d, constraints=%d)",
		f.width, f.height, f.opts.Seed, f.opts.Octaves, len(f.constraints))
}
