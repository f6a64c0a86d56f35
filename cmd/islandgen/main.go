// Command islandgen generates a hexagonal island from layered constrained
// noise, stores it, and serves it over the HTTP API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/talgya/hex-island/internal/api"
	"github.com/talgya/hex-island/internal/assets"
	"github.com/talgya/hex-island/internal/config"
	"github.com/talgya/hex-island/internal/island"
	"github.com/talgya/hex-island/internal/persistence"
)

func main() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	cfg := config.Default()
	if path := os.Getenv("ISLAND_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			slog.Error("failed to load config", "path", path, "error", err)
			os.Exit(1)
		}
		cfg = loaded
		slog.Info("config loaded", "path", path)
	}

	// Environment wins over the config file.
	cfg.Server.AdminKey = envOrDefault("ISLAND_ADMIN_KEY", cfg.Server.AdminKey)
	cfg.Server.Port = envIntOrDefault("ISLAND_PORT", cfg.Server.Port)
	cfg.Database.Path = envOrDefault("ISLAND_DB", cfg.Database.Path)
	cfg.Assets.Root = envOrDefault("ISLAND_ASSETS", cfg.Assets.Root)
	seed := int64(envIntOrDefault("ISLAND_SEED", 0))

	slog.Info("Hex Island generator",
		"size", cfg.Island.Size,
		"hex_radius", cfg.Island.HexRadius,
		"base_octaves", cfg.Island.Base.Octaves,
		"spike_octaves", cfg.Island.Spike.Octaves,
	)

	// ── Database ──────────────────────────────────────────────────────
	var db *persistence.DB
	if cfg.Database.Path != "" {
		os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755)
		var err error
		db, err = persistence.Open(cfg.Database.Path)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database opened", "path", cfg.Database.Path)
	}

	// ── Tile models ───────────────────────────────────────────────────
	var cache *assets.Cache[*assets.Model]
	if cfg.Assets.Root != "" {
		cache = assets.NewCache[*assets.Model](assets.FileLoader{Root: cfg.Assets.Root})
		slog.Info("tile models enabled", "root", cfg.Assets.Root)
	} else {
		slog.Warn("ISLAND_ASSETS not set; tile models will not be resolved")
	}

	// ── Island ────────────────────────────────────────────────────────
	session := island.NewSession(cfg.Island, cache)
	isl, err := session.Regenerate(context.Background(), seed)
	if err != nil {
		slog.Error("island generation failed", "error", err)
		os.Exit(1)
	}

	for k, n := range island.KindCounts(isl) {
		slog.Info("terrain", "kind", island.KindName(k), "count", humanize.Comma(int64(n)))
	}

	if db != nil {
		id, err := db.SaveIsland(context.Background(), isl)
		if err != nil {
			slog.Error("initial save failed", "error", err)
		} else {
			if err := db.SaveMeta("last_island_id", id); err != nil {
				slog.Error("meta save failed", "error", err)
			}
			slog.Info("island saved", "id", id)
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.Server.AdminKey == "" {
		slog.Warn("ISLAND_ADMIN_KEY not set; regenerate endpoint will be disabled")
	}
	apiServer := &api.Server{
		Session:    session,
		DB:         db,
		Port:       cfg.Server.Port,
		AdminKey:   cfg.Server.AdminKey,
		RegenLimit: cfg.Server.RegenPerHrs,
	}
	apiServer.Start()

	lo, hi := isl.Bounds()
	fmt.Printf("\nIsland ready: %s cells, seed %d, spanning %.0f x %.0f units.\n",
		humanize.Comma(int64(isl.Grid.Len())), isl.Config.Base.Seed, hi.X()-lo.X(), hi.Z()-lo.Z())
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.Server.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)
	fmt.Println("Generator stopped.")
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}
