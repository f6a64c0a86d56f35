// Package persistence provides SQLite-based storage for generated islands.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hex-island/internal/hexgrid"
	"github.com/talgya/hex-island/internal/island"
)

// DB wraps a SQLite connection for island storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS islands (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		size INTEGER NOT NULL,
		base_seed INTEGER NOT NULL,
		spike_seed INTEGER NOT NULL,
		moisture_seed INTEGER NOT NULL,
		config_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cells (
		island_id TEXT NOT NULL,
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		base REAL NOT NULL,
		spike REAL NOT NULL,
		moisture REAL NOT NULL,
		height REAL NOT NULL,
		kind INTEGER NOT NULL,
		x REAL NOT NULL,
		z REAL NOT NULL,
		under_y REAL NOT NULL,
		PRIMARY KEY (island_id, q, r)
	);

	CREATE TABLE IF NOT EXISTS constraints (
		island_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		value REAL NOT NULL,
		influence REAL NOT NULL,
		PRIMARY KEY (island_id, seq)
	);

	CREATE TABLE IF NOT EXISTS island_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_islands_created ON islands(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveIsland stores an island with its cells and base constraints under a
// new run ID, which it returns.
func (db *DB) SaveIsland(ctx context.Context, isl *island.Island) (string, error) {
	id := uuid.NewString()
	cfgJSON, err := json.Marshal(isl.Config)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	cfg := isl.Config
	_, err = tx.ExecContext(ctx, `INSERT INTO islands
		(id, created_at, size, base_seed, spike_seed, moisture_seed, config_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UnixNano(), cfg.Size, cfg.Base.Seed, cfg.Spike.Seed, cfg.MoistureSeed, string(cfgJSON),
	)
	if err != nil {
		return "", fmt.Errorf("insert island: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO cells
		(island_id, q, r, base, spike, moisture, height, kind, x, z, under_y)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, c := range isl.Cells() {
		_, err := stmt.ExecContext(ctx,
			id, c.Coord.Q, c.Coord.R, c.Base, c.Spike, c.Moisture, c.Height,
			c.Kind, c.Position.X(), c.Position.Z(), c.UnderPosition.Y(),
		)
		if err != nil {
			return "", fmt.Errorf("insert cell (%d,%d): %w", c.Coord.Q, c.Coord.R, err)
		}
	}

	for i, c := range isl.BaseConstraints {
		_, err := tx.ExecContext(ctx, `INSERT INTO constraints
			(island_id, seq, x, y, value, influence) VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, c.X, c.Y, c.Value, c.Influence,
		)
		if err != nil {
			return "", fmt.Errorf("insert constraint %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	slog.Info("island saved", "id", id, "cells", isl.Grid.Len(), "constraints", len(isl.BaseConstraints))
	return id, nil
}

type cellRow struct {
	Q        int     `db:"q"`
	R        int     `db:"r"`
	Base     float64 `db:"base"`
	Spike    float64 `db:"spike"`
	Moisture float64 `db:"moisture"`
	Height   float64 `db:"height"`
	Kind     uint8   `db:"kind"`
	X        float64 `db:"x"`
	Z        float64 `db:"z"`
	UnderY   float64 `db:"under_y"`
}

// LoadCells returns the cells of a saved island in (r, q) order.
func (db *DB) LoadCells(ctx context.Context, id string) ([]island.Cell, error) {
	var rows []cellRow
	err := db.conn.SelectContext(ctx, &rows, `SELECT q, r, base, spike, moisture, height, kind, x, z, under_y
		FROM cells WHERE island_id = ? ORDER BY r, q`, id)
	if err != nil {
		return nil, fmt.Errorf("select cells: %w", err)
	}

	cells := make([]island.Cell, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, island.Cell{
			Coord:         hexgrid.Coord{Q: row.Q, R: row.R},
			Base:          row.Base,
			Spike:         row.Spike,
			Moisture:      row.Moisture,
			Height:        row.Height,
			Kind:          island.Kind(row.Kind),
			Position:      mgl64.Vec3{row.X, row.Height, row.Z},
			UnderPosition: mgl64.Vec3{row.X, row.UnderY, row.Z},
		})
	}
	return cells, nil
}

// LoadConfig returns the configuration a saved island was generated with.
func (db *DB) LoadConfig(ctx context.Context, id string) (island.Config, error) {
	var raw string
	var cfg island.Config
	if err := db.conn.GetContext(ctx, &raw, "SELECT config_json FROM islands WHERE id = ?", id); err != nil {
		return cfg, fmt.Errorf("select island %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LatestIslandID returns the ID of the most recently saved island.
func (db *DB) LatestIslandID(ctx context.Context) (string, error) {
	var id string
	err := db.conn.GetContext(ctx, &id, "SELECT id FROM islands ORDER BY created_at DESC, rowid DESC LIMIT 1")
	return id, err
}

// SaveMeta stores a key-value pair in island metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO island_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM island_meta WHERE key = ?", key)
	return value, err
}
