package hexgrid

import (
	"fmt"
	"log/slog"
)

// Grid is a fixed-size sparse store of T keyed by axial coordinate.
// A coordinate is in bounds when 0 <= q < width and 0 <= r < height.
// Grid is not safe for concurrent use.
type Grid[T any] struct {
	width  int
	height int
	cells  map[Coord]T
}

// New creates an empty grid. It panics if either dimension is not positive,
// since no valid grid can exist for it.
func New[T any](width, height int) *Grid[T] {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("hexgrid: dimensions must be positive, got %dx%d", width, height))
	}
	return &Grid[T]{
		width:  width,
		height: height,
		cells:  make(map[Coord]T),
	}
}

// Width returns the number of q columns.
func (g *Grid[T]) Width() int { return g.width }

// Height returns the number of r rows.
func (g *Grid[T]) Height() int { return g.height }

// InBounds reports whether c lies inside the grid.
func (g *Grid[T]) InBounds(c Coord) bool {
	return c.Q >= 0 && c.Q < g.width && c.R >= 0 && c.R < g.height
}

// Set stores v at c, replacing any previous value.
// Out-of-bounds writes are logged and rejected with false.
func (g *Grid[T]) Set(c Coord, v T) bool {
	if !g.InBounds(c) {
		slog.Warn("hex grid write out of bounds, skipped",
			"q", c.Q, "r", c.R, "width", g.width, "height", g.height)
		return false
	}
	g.cells[c] = v
	return true
}

// Get returns the value at c. The bool is false when c is out of bounds
// or was never set; callers cannot tell the two apart.
func (g *Grid[T]) Get(c Coord) (T, bool) {
	if !g.InBounds(c) {
		var zero T
		return zero, false
	}
	v, ok := g.cells[c]
	return v, ok
}

// Len returns the number of populated cells.
func (g *Grid[T]) Len() int {
	return len(g.cells)
}

// Clear removes every stored value. Dimensions are unchanged.
func (g *Grid[T]) Clear() {
	clear(g.cells)
}

// Each calls fn for every populated cell in row-major (r, then q) order.
// Iteration stops early if fn returns false.
func (g *Grid[T]) Each(fn func(c Coord, v T) bool) {
	for r := 0; r < g.height; r++ {
		for q := 0; q < g.width; q++ {
			c := Coord{Q: q, R: r}
			v, ok := g.cells[c]
			if !ok {
				continue
			}
			if !fn(c, v) {
				return
			}
		}
	}
}

// String returns a summary of the grid.
func (g *Grid[T]) String() string {
	return fmt.Sprintf("Grid(%dx%d, cells=%d)", g.width, g.height, g.Len())
}
