package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/talgya/hex-island/internal/island"
)

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "island.yaml")
	data := []byte(`
server:
  port: 9000
island:
  size: 16
  base:
    seed: 7
    octaves: 3
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Server.RegenPerHrs != 30 {
		t.Errorf("regen_per_hr = %d, want default 30", cfg.Server.RegenPerHrs)
	}
	if cfg.Island.Size != 16 || cfg.Island.Base.Seed != 7 || cfg.Island.Base.Octaves != 3 {
		t.Errorf("island overrides not applied: %+v", cfg.Island)
	}

	def := island.DefaultConfig()
	if cfg.Island.Base.Frequency != def.Base.Frequency || cfg.Island.Spike != def.Spike {
		t.Errorf("unset island fields lost their defaults: %+v", cfg.Island)
	}
	if cfg.Database.Path != "data/island.db" {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 8080 || cfg.Island.Size != 10 || cfg.Assets.Root != "" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}
