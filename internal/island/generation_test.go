package island

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/hex-island/internal/assets"
	"github.com/talgya/hex-island/internal/hexgrid"
)

func TestGenerateFillsGrid(t *testing.T) {
	cfg := DefaultConfig()
	isl := Generate(cfg)

	if got := isl.Grid.Len(); got != cfg.Size*cfg.Size {
		t.Fatalf("cells = %d, want %d", got, cfg.Size*cfg.Size)
	}
	for _, c := range isl.Cells() {
		if c.Base < 0 || c.Base > 1 || c.Spike < 0 || c.Spike > 1 {
			t.Errorf("cell %v noise out of range: base=%v spike=%v", c.Coord, c.Base, c.Spike)
		}
		if c.Moisture < 0 || c.Moisture > 1 {
			t.Errorf("cell %v moisture out of range: %v", c.Coord, c.Moisture)
		}
		if c.Height < cfg.BaseLift || c.Height > cfg.BaseLift+cfg.BaseScale+cfg.SpikeIntensity {
			t.Errorf("cell %v height %v out of range", c.Coord, c.Height)
		}
		if c.Position.Y() != c.Height {
			t.Errorf("cell %v position y %v != height %v", c.Coord, c.Position.Y(), c.Height)
		}
		if math.Abs(c.Height-c.UnderPosition.Y()-cfg.UnderTileOffset) > 1e-9 {
			t.Errorf("cell %v under tile not %v below", c.Coord, cfg.UnderTileOffset)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(DefaultConfig())
	b := Generate(DefaultConfig())
	if !reflect.DeepEqual(a.Cells(), b.Cells()) {
		t.Fatal("same config produced different islands")
	}

	c := Generate(DefaultConfig().Reseed(99))
	if reflect.DeepEqual(a.Cells(), c.Cells()) {
		t.Fatal("reseeded config produced an identical island")
	}
}

func TestConstraintLayout(t *testing.T) {
	cfg := DefaultConfig()
	isl := Generate(cfg)
	last := cfg.Size - 1

	constrained := make(map[hexgrid.Coord]float64)
	for _, c := range isl.BaseConstraints {
		constrained[hexgrid.Coord{Q: c.X, R: c.Y}] = c.Value
		if c.Influence != cfg.EdgeInfluence {
			t.Errorf("constraint %+v influence = %v, want %v", c, c.Influence, cfg.EdgeInfluence)
		}
		onBorder := c.X == 0 || c.Y == 0 || c.X == last || c.Y == last
		if c.Value == 0 && !onBorder {
			t.Errorf("sea-level constraint off the border: %+v", c)
		}
	}

	for i := 0; i < cfg.Size; i++ {
		for _, c := range []hexgrid.Coord{{Q: 0, R: i}, {Q: i, R: 0}, {Q: last, R: i}, {Q: i, R: last}} {
			if _, ok := constrained[c]; !ok {
				t.Errorf("border cell %v has no constraint", c)
			}
		}
	}

	if v := constrained[hexgrid.Coord{Q: 5, R: 5}]; v != cfg.ValleyLevel {
		t.Errorf("centre constraint = %v, want %v", v, cfg.ValleyLevel)
	}
	// (9, 5) is on the border but inside the valley radius, so the valley wins.
	if v := constrained[hexgrid.Coord{Q: 9, R: 5}]; v != cfg.ValleyLevel {
		t.Errorf("(9,5) constraint = %v, want valley %v", v, cfg.ValleyLevel)
	}
}

func TestWorldPosition(t *testing.T) {
	cfg := DefaultConfig()
	rowH := math.Sqrt(3) * 6

	tests := []struct {
		q, r int
		want mgl64.Vec3
	}{
		{0, 0, mgl64.Vec3{-60, 1, -rowH * 5}},
		{1, 1, mgl64.Vec3{-42, 1, rowH - rowH*5}},
		{5, 2, mgl64.Vec3{0, 1, 2*rowH - rowH*5}},
	}
	for _, tt := range tests {
		got := cfg.WorldPosition(tt.q, tt.r, 1)
		if !got.ApproxEqualThreshold(tt.want, 1e-9) {
			t.Errorf("WorldPosition(%d, %d) = %v, want %v", tt.q, tt.r, got, tt.want)
		}
	}
}

func TestSpikeMultiplier(t *testing.T) {
	tests := []struct {
		spike, want float64
	}{
		{0.2, 0},
		{0.6, 0},
		{0.8, 0.25},
		{1.0, 1},
	}
	for _, tt := range tests {
		if got := spikeMultiplier(tt.spike, 0.6); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("spikeMultiplier(%v) = %v, want %v", tt.spike, got, tt.want)
		}
	}
}

func TestDeriveKind(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		base, peak, moisture float64
		want                 Kind
	}{
		{0.5, 0.5, 0.9, KindRock},
		{0.1, 0, 0.9, KindSand},
		{0.5, 0, 0.8, KindForest},
		{0.5, 0, 0.2, KindGrass},
	}
	for _, tt := range tests {
		if got := deriveKind(tt.base, tt.peak, tt.moisture, cfg); got != tt.want {
			t.Errorf("deriveKind(%v, %v, %v) = %s, want %s",
				tt.base, tt.peak, tt.moisture, KindName(got), KindName(tt.want))
		}
	}
}

func TestKindCountsAndBounds(t *testing.T) {
	isl := Generate(SmallTestConfig())
	total := 0
	for _, n := range KindCounts(isl) {
		total += n
	}
	if total != 36 {
		t.Errorf("kind counts sum to %d, want 36", total)
	}

	lo, hi := isl.Bounds()
	if lo.X() >= hi.X() || lo.Z() >= hi.Z() {
		t.Errorf("degenerate bounds %v – %v", lo, hi)
	}
}

func TestSessionResolvesTiles(t *testing.T) {
	var loaded []string
	cache := assets.NewCache[*assets.Model](assets.LoaderFunc[*assets.Model](
		func(_ context.Context, path string) (*assets.Model, error) {
			loaded = append(loaded, path)
			return &assets.Model{Path: path}, nil
		}))

	s := NewSession(SmallTestConfig(), cache)
	if isl, _ := s.Current(); isl != nil {
		t.Fatal("Current before Regenerate should be nil")
	}

	isl, err := s.Regenerate(context.Background(), 0)
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if len(isl.Models) != 2 || isl.Models[TopTile.Name].Path != TopTile.Path {
		t.Errorf("models = %v", isl.Models)
	}

	if _, err := s.Regenerate(context.Background(), 1234); err != nil {
		t.Fatalf("second Regenerate: %v", err)
	}
	if len(loaded) != 2 {
		t.Errorf("loader called %d times across two generations, want 2", len(loaded))
	}

	cur, at := s.Current()
	if cur.Config.Base.Seed != 1234 || cur.Config.Spike.Seed != 1235 {
		t.Errorf("reseed not applied: base=%d spike=%d", cur.Config.Base.Seed, cur.Config.Spike.Seed)
	}
	if at.IsZero() {
		t.Error("generation time not recorded")
	}
}

func TestSessionTileFailure(t *testing.T) {
	boom := errors.New("no such file")
	cache := assets.NewCache[*assets.Model](assets.LoaderFunc[*assets.Model](
		func(context.Context, string) (*assets.Model, error) { return nil, boom }))

	s := NewSession(SmallTestConfig(), cache)
	if _, err := s.Regenerate(context.Background(), 0); !errors.Is(err, boom) {
		t.Fatalf("Regenerate error = %v, want wrapped %v", err, boom)
	}
	if isl, _ := s.Current(); isl != nil {
		t.Error("failed generation replaced the current island")
	}
}

func TestSessionWithoutCache(t *testing.T) {
	s := NewSession(SmallTestConfig(), nil)
	isl, err := s.Regenerate(context.Background(), 0)
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if len(isl.Models) != 0 {
		t.Errorf("models resolved without a cache: %v", isl.Models)
	}
}
