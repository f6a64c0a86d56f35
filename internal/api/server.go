// Package api provides the HTTP API for inspecting the generated island.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/hex-island/internal/hexgrid"
	"github.com/talgya/hex-island/internal/island"
	"github.com/talgya/hex-island/internal/persistence"
)

// Server serves the island over HTTP.
type Server struct {
	Session  *island.Session
	DB       *persistence.DB // nil = regenerated islands are not saved
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	// RegenLimit caps regenerations per client per hour. Zero means 30.
	RegenLimit int
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	limit := s.RegenLimit
	if limit == 0 {
		limit = 30
	}
	regenLimiter := NewRateLimiter(limit, time.Hour)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/island", s.handleIslandRoutes)
	mux.HandleFunc("/api/v1/island/", s.handleIslandRoutes)

	mux.HandleFunc("/api/v1/regenerate", postOnly(s.adminOnly(RateLimitMiddleware(regenLimiter, s.handleRegenerate))))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	handler := s.Handler()
	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no ISLAND_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

// postOnly rejects other methods before auth or rate limiting sees them.
func postOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

// current returns the session's island or writes 503 if none exists yet.
func (s *Server) current(w http.ResponseWriter) (*island.Island, time.Time, bool) {
	isl, at := s.Session.Current()
	if isl == nil {
		http.Error(w, "island not generated yet", http.StatusServiceUnavailable)
		return nil, at, false
	}
	return isl, at, true
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	isl, at, ok := s.current(w)
	if !ok {
		return
	}

	kinds := make(map[string]int)
	for k, n := range island.KindCounts(isl) {
		kinds[island.KindName(k)] = n
	}
	lo, hi := isl.Bounds()

	writeJSON(w, map[string]any{
		"name":          "Hex Island",
		"size":          isl.Config.Size,
		"cells":         isl.Grid.Len(),
		"base_seed":     isl.Config.Base.Seed,
		"spike_seed":    isl.Config.Spike.Seed,
		"moisture_seed": isl.Config.MoistureSeed,
		"constraints":   len(isl.BaseConstraints),
		"kinds":         kinds,
		"bounds_min":    lo,
		"bounds_max":    hi,
		"models":        len(isl.Models),
		"generated_at":  at.UTC().Format(time.RFC3339),
	})
}

// handleIslandRoutes dispatches between the bulk island (GET /api/v1/island)
// and cell detail (GET /api/v1/island/:q/:r).
func (s *Server) handleIslandRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/island")
	if path == "" || path == "/" {
		s.handleBulkIsland(w, r)
		return
	}
	s.handleCellDetail(w, r)
}

type cellEntry struct {
	Q        int     `json:"q"`
	R        int     `json:"r"`
	Kind     string  `json:"kind"`
	Height   float64 `json:"height"`
	Base     float64 `json:"base"`
	Spike    float64 `json:"spike"`
	Moisture float64 `json:"moisture"`
	X        float64 `json:"x"`
	Z        float64 `json:"z"`
}

func toEntry(c island.Cell) cellEntry {
	return cellEntry{
		Q:        c.Coord.Q,
		R:        c.Coord.R,
		Kind:     island.KindName(c.Kind),
		Height:   c.Height,
		Base:     c.Base,
		Spike:    c.Spike,
		Moisture: c.Moisture,
		X:        c.Position.X(),
		Z:        c.Position.Z(),
	}
}

// handleBulkIsland returns every cell for the hex renderer.
func (s *Server) handleBulkIsland(w http.ResponseWriter, r *http.Request) {
	isl, _, ok := s.current(w)
	if !ok {
		return
	}

	cells := isl.Cells()
	entries := make([]cellEntry, 0, len(cells))
	for _, c := range cells {
		entries = append(entries, toEntry(c))
	}

	writeJSON(w, map[string]any{
		"size":       isl.Config.Size,
		"hex_radius": isl.Config.HexRadius,
		"cells":      entries,
		"tiles":      island.Tiles(),
	})
}

func (s *Server) handleCellDetail(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	// /api/v1/island/:q/:r → parts[0]="" [1]="api" [2]="v1" [3]="island" [4]=q [5]=r
	if len(parts) < 6 {
		http.Error(w, "usage: /api/v1/island/:q/:r", http.StatusBadRequest)
		return
	}
	q, err1 := strconv.Atoi(parts[4])
	rr, err2 := strconv.Atoi(parts[5])
	if err1 != nil || err2 != nil {
		http.Error(w, "invalid coordinates", http.StatusBadRequest)
		return
	}

	isl, _, ok := s.current(w)
	if !ok {
		return
	}

	coord := hexgrid.Coord{Q: q, R: rr}
	cell, found := isl.Grid.Get(coord)
	if !found {
		http.Error(w, "cell not found", http.StatusNotFound)
		return
	}

	var neighbors []cellEntry
	for _, nc := range coord.Neighbors() {
		if nb, ok := isl.Grid.Get(nc); ok {
			neighbors = append(neighbors, toEntry(nb))
		}
	}

	writeJSON(w, map[string]any{
		"cell":           toEntry(cell),
		"position":       cell.Position,
		"under_position": cell.UnderPosition,
		"neighbors":      neighbors,
	})
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seed int64 `json:"seed"`
	}
	// An empty body regenerates with the configured seeds.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	isl, err := s.Session.Regenerate(r.Context(), req.Seed)
	if err != nil {
		slog.Error("regeneration failed", "error", err)
		http.Error(w, "regeneration failed", http.StatusInternalServerError)
		return
	}

	resp := map[string]any{
		"cells":      isl.Grid.Len(),
		"base_seed":  isl.Config.Base.Seed,
		"spike_seed": isl.Config.Spike.Seed,
	}
	if s.DB != nil {
		id, err := s.DB.SaveIsland(r.Context(), isl)
		if err != nil {
			slog.Error("island save failed", "error", err)
			http.Error(w, "island generated but not saved", http.StatusInternalServerError)
			return
		}
		resp["id"] = id
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
