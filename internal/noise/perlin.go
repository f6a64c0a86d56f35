package noise

import (
	"math"

	"github.com/talgya/hex-island/internal/mathx"
)

// permutation is the 256-entry shuffle stored twice so corner lookups
// never need to wrap an index.
type permutation [512]int

// newPermutation shuffles [0..255] with the sine stream derived from seed.
// The stream is weak statistically but identical for identical seeds,
// which is the only property the field relies on.
func newPermutation(seed int64) permutation {
	var p [256]int
	for i := range p {
		p[i] = i
	}

	next := sineStream(seed)
	for i := len(p) - 1; i > 0; i-- {
		j := int(math.Floor(next() * float64(i+1)))
		p[i], p[j] = p[j], p[i]
	}

	var perm permutation
	for i := range perm {
		perm[i] = p[i&255]
	}
	return perm
}

// sineStream returns a generator of values in [0, 1) following
// x = sin(x)*10000, yielding the fractional part of x. It uses the fdlibm
// sine so a seed builds the same table everywhere.
func sineStream(seed int64) func() float64 {
	x := float64(sin(float64(seed)) * 10000)
	return func() float64 {
		x = float64(sin(x) * 10000)
		return x - math.Floor(x)
	}
}

// noise2 is one octave of 2D gradient noise, roughly in [-1, 1].
func (p *permutation) noise2(x, y float64) float64 {
	fx := math.Floor(x)
	fy := math.Floor(y)
	X := int(fx) & 255
	Y := int(fy) & 255

	xf := x - fx
	yf := y - fy

	u := mathx.Fade(xf)
	v := mathx.Fade(yf)

	aa := grad(p[X+p[Y]], xf, yf)
	ab := grad(p[X+p[Y+1]], xf, yf-1)
	ba := grad(p[X+1+p[Y]], xf-1, yf)
	bb := grad(p[X+1+p[Y+1]], xf-1, yf-1)

	x1 := mathx.Lerp(aa, ba, u)
	x2 := mathx.Lerp(ab, bb, u)
	return mathx.Lerp(x1, x2, v)
}

// grad picks one of four gradients from the low two bits of hash.
func grad(hash int, x, y float64) float64 {
	h := hash & 3
	u, v := x, y
	if h >= 2 {
		u, v = y, x
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + 2*v
}
