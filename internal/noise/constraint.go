package noise

import (
	"math"
	"slices"

	"github.com/talgya/hex-island/internal/mathx"
)

// DefaultInfluence is the influence of a constraint that should fully pin its cell.
const DefaultInfluence = 1.0

// Constraint pins the field toward Value at cell (X, Y).
// Influence scales both the reach (radius = blend radius × influence)
// and the strength of the pin.
type Constraint struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Value     float64 `json:"value"`     // 0.0 to 1.0
	Influence float64 `json:"influence"` // 0.0 to 1.0
}

// SetConstraint registers a constraint, replacing any existing one at the
// same cell. Coordinates are rounded and clamped into the field;
// value and influence are clamped to [0, 1].
func (f *Field) SetConstraint(x, y, value, influence float64) {
	c := Constraint{
		X:         mathx.Clamp(int(math.Round(x)), 0, f.width-1),
		Y:         mathx.Clamp(int(math.Round(y)), 0, f.height-1),
		Value:     mathx.Clamp01(value),
		Influence: mathx.Clamp01(influence),
	}
	f.RemoveConstraint(c.X, c.Y)
	f.constraints = append(f.constraints, c)
}

// RemoveConstraint deletes the constraint at exactly (x, y), if any.
func (f *Field) RemoveConstraint(x, y int) {
	f.constraints = slices.DeleteFunc(f.constraints, func(c Constraint) bool {
		return c.X == x && c.Y == y
	})
}

// ClearConstraints removes every constraint.
func (f *Field) ClearConstraints() {
	f.constraints = nil
}

// Constraints returns a copy of the constraints in registration order.
func (f *Field) Constraints() []Constraint {
	return slices.Clone(f.constraints)
}

// influence is the accumulated constraint pull on one cell.
type influence struct {
	value  float64
	weight float64
}

// blend pulls raw toward the accumulated value. A full weight returns the
// value itself so pinned cells hold it exactly.
func (inf influence) blend(raw float64) float64 {
	if inf.weight >= 1 {
		return inf.value
	}
	return mathx.Clamp01(mathx.Lerp(raw, inf.value, inf.weight))
}

// applyConstraints blends each cell of grid toward its accumulated constraint value.
func (f *Field) applyConstraints(grid [][]float64) {
	influences := f.influenceMap()
	for y, row := range influences {
		for x, inf := range row {
			if inf.weight > 0 {
				grid[y][x] = inf.blend(grid[y][x])
			}
		}
	}
}

// influenceMap accumulates every constraint into a per-cell {value, weight}.
// Constraints apply in registration order: a stronger new weight overwrites
// the cell value, a weaker one blends toward it. Where radii overlap with
// similar weights the result therefore depends on that order.
func (f *Field) influenceMap() [][]influence {
	m := make([][]influence, f.height)
	for y := range m {
		m[y] = make([]influence, f.width)
	}

	for _, c := range f.constraints {
		radius := f.opts.ConstraintBlendRadius * c.Influence
		if radius <= 0 {
			continue
		}

		cx, cy := float64(c.X), float64(c.Y)
		x0 := max(0, int(math.Ceil(cx-radius)))
		x1 := min(f.width-1, int(math.Floor(cx+radius)))
		y0 := max(0, int(math.Ceil(cy-radius)))
		y1 := min(f.height-1, int(math.Floor(cy+radius)))

		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				dx := float64(x) - cx
				dy := float64(y) - cy
				distance := math.Sqrt(dx*dx + dy*dy)
				if distance > radius {
					continue
				}

				weight := max(0, 1-distance/radius) * c.Influence
				smooth := mathx.Smoothstep(0, 1, weight)

				cell := &m[y][x]
				combined := min(1, cell.weight+smooth)
				switch {
				case smooth > cell.weight:
					cell.value = c.Value
					cell.weight = combined
				case smooth > 0:
					cell.value = mathx.Lerp(cell.value, c.Value, smooth/combined)
					cell.weight = combined
				}
			}
		}
	}
	return m
}
