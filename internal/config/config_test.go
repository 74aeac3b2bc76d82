package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.MissingPctThreshold != 5 || c.CorrelationThreshold != 0.7 {
		t.Errorf("thresholds = %v/%v, want 5/0.7", c.MissingPctThreshold, c.CorrelationThreshold)
	}
	if c.TopK != 10 || c.MaxBoxCategories != 12 || c.TopInsights != 6 {
		t.Errorf("caps = %d/%d/%d", c.TopK, c.MaxBoxCategories, c.TopInsights)
	}
	if c.Theme != "light" || c.Language != "en" {
		t.Errorf("display = %q/%q", c.Theme, c.Language)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	in := Default()
	in.MissingPctThreshold = 12.5
	in.TopK = 3
	in.Theme = "dark"
	if err := Save(in, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.MissingPctThreshold != 12.5 {
		t.Errorf("MissingPctThreshold = %v, want 12.5", out.MissingPctThreshold)
	}
	if out.TopK != 3 {
		t.Errorf("TopK = %d, want 3", out.TopK)
	}
	if out.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", out.Theme)
	}
	// Unset keys fall back to defaults.
	if out.CorrelationThreshold != 0.7 {
		t.Errorf("CorrelationThreshold = %v, want 0.7", out.CorrelationThreshold)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	d := Default()
	if *c != *d {
		t.Errorf("Load with no file = %+v, want defaults %+v", c, d)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DATATELLER_TOP_K", "25")
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.TopK != 25 {
		t.Errorf("TopK = %d, want 25 from env", c.TopK)
	}
}

func TestThresholdsAdapter(t *testing.T) {
	c := Default()
	c.MissingPctThreshold = 20
	c.CorrelationThreshold = 0.9
	th := c.Thresholds()
	if th.MissingPct != 20 || th.Correlation != 0.9 {
		t.Errorf("Thresholds() = %+v", th)
	}
}

func TestSaveCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested.yaml")
	if err := Save(Default(), path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
}
