package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "render.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"scene": "smoke",
		"integrator": "ems",
		"width": 320,
		"samples_per_pixel": 64,
		"format": "webp",
		"photons": {"count": 5000, "alpha": 0.5}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scene != "smoke" || cfg.Integrator != "ems" {
		t.Errorf("Expected smoke/ems, got %s/%s", cfg.Scene, cfg.Integrator)
	}
	if cfg.Width != 320 || cfg.SamplesPerPixel != 64 {
		t.Errorf("Expected width 320 and 64 spp, got %d and %d", cfg.Width, cfg.SamplesPerPixel)
	}
	if cfg.Photons.Count != 5000 || cfg.Photons.Alpha != 0.5 {
		t.Errorf("Expected photon settings 5000/0.5, got %+v", cfg.Photons)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for a missing file")
	}
	if _, err := Load(writeConfig(t, `{"scene": `)); err == nil {
		t.Error("Expected error for malformed JSON")
	}
	cfg, err := Load("")
	if err != nil || cfg.Scene != "" {
		t.Errorf("Expected empty config for empty path, got %+v, %v", cfg, err)
	}
}

func TestResolve_FlagsOverrideFile(t *testing.T) {
	file := Config{Scene: "smoke", Integrator: "mis", SamplesPerPixel: 64, Format: "webp"}
	cfg, err := file.Resolve(Flags{Integrator: "PPM", SamplesPerPixel: 8, Seed: 9})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Scene != "smoke" {
		t.Errorf("Expected scene from file, got %s", cfg.Scene)
	}
	if cfg.Integrator != IntegratorPPM {
		t.Errorf("Expected integrator from flags, got %s", cfg.Integrator)
	}
	if cfg.SamplesPerPixel != 8 || cfg.Seed != 9 {
		t.Errorf("Expected 8 spp and seed 9, got %d and %d", cfg.SamplesPerPixel, cfg.Seed)
	}
	if cfg.Format != "webp" {
		t.Errorf("Expected format from file, got %s", cfg.Format)
	}
}

func TestResolve_Defaults(t *testing.T) {
	cfg, err := Config{}.Resolve(Flags{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scene != DefaultScene || cfg.Format != "png" || cfg.OutputDir != DefaultOutputDir || cfg.Supersample != 1 {
		t.Errorf("Expected defaults, got %+v", cfg)
	}

	pc := cfg.PhotonConfig()
	if pc.PhotonsPerIteration != 100000 || pc.Iterations != 10 || pc.Alpha != 0.7 || pc.MaxDepth != 32 {
		t.Errorf("Expected default photon settings, got %+v", pc)
	}
}

func TestResolve_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown integrator", Config{Integrator: "bdpt"}},
		{"unknown format", Config{Format: "exr"}},
		{"alpha above one", Config{Photons: PhotonSettings{Alpha: 1.5}}},
		{"negative width", Config{Width: -1}},
	}
	for _, tt := range tests {
		if _, err := tt.cfg.Resolve(Flags{}); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}
