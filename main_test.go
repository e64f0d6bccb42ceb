package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-volumetric-raytracer/pkg/config"
	"github.com/df07/go-volumetric-raytracer/pkg/core"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		{"foggy cornell", "cornell-fog", false},
		{"smoke", "smoke", false},
		{"emissive cloud", "emissive-cloud", false},
		{"fog lantern", "fog-lantern", false},
		{"caustic glass", "caustic-glass", false},

		{"unknown scene", "nonexistent", true},
		{"missing grid", "smoke:volumes/nonexistent.vol", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Config{Scene: tt.sceneType, Width: 40}.Resolve(config.Flags{})
			if err != nil {
				t.Fatal(err)
			}
			sc, err := createScene(cfg, core.NopLogger{})

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if sc != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s'", tt.sceneType)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if sc.SamplingConfig.Width != 40 {
				t.Errorf("Expected sampling width 40, got %d", sc.SamplingConfig.Width)
			}
			if sc.SamplingConfig.Height <= 0 {
				t.Errorf("Scene sampling height should be positive, got %d", sc.SamplingConfig.Height)
			}
			if sc.BVH == nil {
				t.Error("Expected a preprocessed scene")
			}
		})
	}
}

func TestCreateScene_Supersample(t *testing.T) {
	cfg, err := config.Config{Scene: "smoke", Width: 30, Supersample: 2, SamplesPerPixel: 3}.Resolve(config.Flags{})
	if err != nil {
		t.Fatal(err)
	}
	sc, err := createScene(cfg, core.NopLogger{})
	if err != nil {
		t.Fatal(err)
	}
	if sc.SamplingConfig.Width != 60 {
		t.Errorf("Expected supersampled width 60, got %d", sc.SamplingConfig.Width)
	}
	if sc.SamplingConfig.SamplesPerPixel != 3 {
		t.Errorf("Expected 3 samples per pixel, got %d", sc.SamplingConfig.SamplesPerPixel)
	}
}

func TestRender_AllIntegrators(t *testing.T) {
	for _, name := range []string{"mats", "mis", "ems", "ppm"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := config.Config{
				Scene:           "emissive-cloud",
				Integrator:      name,
				Width:           12,
				SamplesPerPixel: 2,
				MaxDepth:        4,
				Photons:         config.PhotonSettings{Count: 2000, Iterations: 2},
			}.Resolve(config.Flags{})
			if err != nil {
				t.Fatal(err)
			}
			sc, err := createScene(cfg, core.NopLogger{})
			if err != nil {
				t.Fatal(err)
			}

			img, stats, err := render(context.Background(), sc, cfg, core.NopLogger{})
			if err != nil {
				t.Fatal(err)
			}
			if img.Bounds().Dx() != 12 {
				t.Errorf("Expected image width 12, got %d", img.Bounds().Dx())
			}
			if stats.TotalPixels != img.Bounds().Dx()*img.Bounds().Dy() {
				t.Errorf("Expected stats for every pixel, got %d", stats.TotalPixels)
			}
		})
	}
}

func TestRun_WritesImage(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "render.json")
	body := `{"scene": "fog-lantern", "width": 16, "samples_per_pixel": 2, "max_depth": 3, "output_dir": "` +
		filepath.ToSlash(filepath.Join(dir, "out")) + `"}`
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := run(configPath, config.Flags{Format: "webp", Supersample: 2}, core.NopLogger{}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "fog-lantern_mis.webp")); err != nil {
		t.Errorf("Expected rendered file: %v", err)
	}
}

func TestOutputName(t *testing.T) {
	cfg := config.Config{Scene: "smoke:volumes/cloud.vol", Integrator: "ems"}
	if got := outputName(cfg); got != "smoke_volumes_cloud_vol_ems" {
		t.Errorf("Expected smoke_volumes_cloud_vol_ems, got %s", got)
	}
}
