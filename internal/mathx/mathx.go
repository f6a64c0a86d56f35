// Package mathx holds the small interpolation helpers shared by the noise
// field and the island assembly.
//
// Products that feed an addition are rounded with an explicit float64()
// conversion, which keeps the compiler from fusing them into FMAs and so
// gives the same bits on every architecture.
package mathx

import "golang.org/x/exp/constraints"

// Clamp restricts v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 restricts v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Lerp interpolates between a and b as a + t(b-a). Exact at t=0; at t=1 it
// can miss b by an ulp, so callers that need b exactly must special-case it.
func Lerp(a, b, t float64) float64 {
	return a + float64(t*(b-a))
}

// Smoothstep is the cubic Hermite step 3t²-2t³ over [edge0, edge1].
func Smoothstep(edge0, edge1, x float64) float64 {
	t := Clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// Fade is the quintic Perlin fade curve 6t⁵-15t⁴+10t³.
func Fade(t float64) float64 {
	inner := float64(t*6) - 15
	inner = float64(t*inner) + 10
	return t * t * t * inner
}
