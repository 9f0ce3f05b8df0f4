package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultWeightsSumTo100(t *testing.T) {
	w := Default().Scoring.Weights
	if got := w.Total(); got != 100 {
		t.Errorf("weights total = %v, want 100", got)
	}
}

func TestDefaultTables(t *testing.T) {
	cfg := Default()

	if got := cfg.Safety.Index["Gilbert"]; got != 85 {
		t.Errorf("Gilbert safety index = %d, want 85", got)
	}
	if got := cfg.Safety.Default; got != 50 {
		t.Errorf("safety default = %d, want 50", got)
	}
	if got := cfg.Scoring.LocationPrefs["Scottsdale"]; got != 1.00 {
		t.Errorf("Scottsdale preference = %v, want 1.00", got)
	}
	if got := cfg.Scoring.DefaultLocationPref; got != 0.80 {
		t.Errorf("default preference = %v, want 0.80", got)
	}
	if len(cfg.References) == 0 {
		t.Fatal("no reference points configured")
	}
	if cfg.References[0].Name != "Phoenix" {
		t.Errorf("first reference = %q, want %q", cfg.References[0].Name, "Phoenix")
	}
	if got := cfg.Search.Regions["Gilbert"].ID; got != 6998 {
		t.Errorf("Gilbert region id = %d, want 6998", got)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cfg.Scoring.Weights.Total(); got != 100 {
		t.Errorf("weights total = %v, want 100", got)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
search:
  max_price: 500000
scoring:
  default_location_pref: 0.5
geocoder:
  user_agent: custom-agent
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Search.MaxPrice != 500000 {
		t.Errorf("max price = %d, want 500000", cfg.Search.MaxPrice)
	}
	if cfg.Scoring.DefaultLocationPref != 0.5 {
		t.Errorf("default preference = %v, want 0.5", cfg.Scoring.DefaultLocationPref)
	}
	if cfg.Geocoder.UserAgent != "custom-agent" {
		t.Errorf("user agent = %q, want %q", cfg.Geocoder.UserAgent, "custom-agent")
	}

	// Untouched sections keep their defaults.
	if cfg.Search.MinBeds != 3 {
		t.Errorf("min beds = %d, want default 3", cfg.Search.MinBeds)
	}
	if cfg.Geocoder.BaseURL == "" {
		t.Error("base url lost its default")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("search: [not: valid"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
