package island

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/talgya/hex-island/internal/assets"
)

// Session owns the generated island and the asset cache its tiles are
// resolved through. The cache lives and dies with the session.
type Session struct {
	cfg   Config
	cache *assets.Cache[*assets.Model] // nil = tiles are not resolved

	mu          sync.RWMutex
	current     *Island
	generatedAt time.Time
}

// NewSession creates a session. cache may be nil when no models are available.
func NewSession(cfg Config, cache *assets.Cache[*assets.Model]) *Session {
	return &Session{cfg: cfg, cache: cache}
}

// Regenerate builds a new island and makes it current. A zero seed keeps the
// configured layer seeds; any other seed reseeds every layer from it.
func (s *Session) Regenerate(ctx context.Context, seed int64) (*Island, error) {
	cfg := s.cfg
	if seed != 0 {
		cfg = cfg.Reseed(seed)
	}

	start := time.Now()
	isl := Generate(cfg)

	if s.cache != nil {
		for _, tile := range Tiles() {
			m, err := s.cache.Load(ctx, tile.Name, tile.Path)
			if err != nil {
				return nil, fmt.Errorf("resolve tile %s: %w", tile.Name, err)
			}
			isl.Models[tile.Name] = m
		}
	}

	s.mu.Lock()
	s.current = isl
	s.generatedAt = time.Now()
	s.mu.Unlock()

	slog.Info("island generated",
		"size", cfg.Size,
		"base_seed", cfg.Base.Seed,
		"spike_seed", cfg.Spike.Seed,
		"cells", isl.Grid.Len(),
		"constraints", len(isl.BaseConstraints),
		"elapsed", time.Since(start),
	)
	return isl, nil
}

// Current returns the most recent island and when it was generated.
// The island is nil until the first Regenerate.
func (s *Session) Current() (*Island, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.generatedAt
}

// Config returns the session's base configuration.
func (s *Session) Config() Config {
	return s.cfg
}
