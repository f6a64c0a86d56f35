package noise

import "github.com/talgya/hex-island/internal/entropy"

// Options holds the noise generation parameters.
// None of them are validated; degenerate values (zero octaves, zero
// lacunarity) give degenerate output rather than an error.
type Options struct {
	Frequency             float64 `json:"frequency" yaml:"frequency"`                             // "Zoom" of the first octave
	Octaves               int     `json:"octaves" yaml:"octaves"`                                 // Layers summed
	Persistence           float64 `json:"persistence" yaml:"persistence"`                         // Amplitude factor per octave
	Lacunarity            float64 `json:"lacunarity" yaml:"lacunarity"`                           // Frequency factor per octave
	Seed                  int64   `json:"seed" yaml:"seed"`                                       // Permutation seed
	ConstraintBlendRadius float64 `json:"constraint_blend_radius" yaml:"constraint_blend_radius"` // Reach of a full-influence constraint, in cells
}

// DefaultOptions returns the documented defaults with a fresh, non-reproducible seed.
// Output is reproducible only when a seed is supplied explicitly.
func DefaultOptions() Options {
	return Options{
		Frequency:             0.1,
		Octaves:               4,
		Persistence:           0.5,
		Lacunarity:            2.0,
		Seed:                  entropy.Seed(),
		ConstraintBlendRadius: 5,
	}
}

// Option overrides one or more fields of Options.
type Option func(*Options)

// WithFrequency sets the base sampling frequency.
func WithFrequency(f float64) Option { return func(o *Options) { o.Frequency = f } }

// WithOctaves sets the number of summed layers.
func WithOctaves(n int) Option { return func(o *Options) { o.Octaves = n } }

// WithPersistence sets the per-octave amplitude decay.
func WithPersistence(p float64) Option { return func(o *Options) { o.Persistence = p } }

// WithLacunarity sets the per-octave frequency growth.
func WithLacunarity(l float64) Option { return func(o *Options) { o.Lacunarity = l } }

// WithSeed sets the permutation seed.
func WithSeed(seed int64) Option { return func(o *Options) { o.Seed = seed } }

// WithBlendRadius sets the constraint blend radius.
func WithBlendRadius(r float64) Option { return func(o *Options) { o.ConstraintBlendRadius = r } }

// WithOptions replaces every field at once.
func WithOptions(opts Options) Option { return func(o *Options) { *o = opts } }
