// Package config loads render settings from JSON files and command line flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/df07/go-volumetric-raytracer/pkg/integrator"
	"github.com/df07/go-volumetric-raytracer/pkg/output"
)

// IntegratorPPM names the photon mapper; the other integrator names are volumetric path tracer variants
const IntegratorPPM = "ppm"

// Defaults applied by Resolve
const (
	DefaultScene     = "cornell-fog"
	DefaultOutputDir = "output"
)

// PhotonSettings configures the photon mapper
type PhotonSettings struct {
	Count         int     `json:"count,omitempty"`
	Iterations    int     `json:"iterations,omitempty"`
	Alpha         float64 `json:"alpha,omitempty"`
	InitialRadius float64 `json:"initial_radius,omitempty"`
}

// Config holds every render setting. Zero values mean "use the default".
type Config struct {
	Scene           string         `json:"scene,omitempty"`
	Integrator      string         `json:"integrator,omitempty"`
	Width           int            `json:"width,omitempty"`
	SamplesPerPixel int            `json:"samples_per_pixel,omitempty"`
	MaxDepth        int            `json:"max_depth,omitempty"`
	Passes          int            `json:"passes,omitempty"`
	Seed            int64          `json:"seed,omitempty"`
	Workers         int            `json:"workers,omitempty"`
	Supersample     int            `json:"supersample,omitempty"`
	Format          string         `json:"format,omitempty"`
	OutputDir       string         `json:"output_dir,omitempty"`
	GroundTexture   string         `json:"ground_texture,omitempty"`
	Photons         PhotonSettings `json:"photons,omitempty"`
}

// Flags are the command line overrides. Non-zero fields win over the file.
type Flags struct {
	Scene           string
	Integrator      string
	SamplesPerPixel int
	Seed            int64
	Workers         int
	Supersample     int
	Format          string
}

// Load reads a JSON config file. An empty path yields an empty config.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies flag overrides and defaults, then validates the result.
// An empty integrator is left for the caller to fill from the scene's suggestion.
func (c Config) Resolve(flags Flags) (Config, error) {
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.Integrator != "" {
		c.Integrator = flags.Integrator
	}
	if flags.SamplesPerPixel > 0 {
		c.SamplesPerPixel = flags.SamplesPerPixel
	}
	if flags.Seed != 0 {
		c.Seed = flags.Seed
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}

	c.Integrator = strings.ToLower(c.Integrator)
	if c.Scene == "" {
		c.Scene = DefaultScene
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Format == "" {
		c.Format = string(output.FormatPNG)
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}

	defaults := integrator.DefaultPhotonConfig()
	if c.Photons.Count <= 0 {
		c.Photons.Count = defaults.PhotonsPerIteration
	}
	if c.Photons.Iterations <= 0 {
		c.Photons.Iterations = defaults.Iterations
	}
	if c.Photons.Alpha == 0 {
		c.Photons.Alpha = defaults.Alpha
	}

	return c, c.Validate()
}

// Validate reports the first invalid setting
func (c Config) Validate() error {
	if c.Integrator != "" && c.Integrator != IntegratorPPM {
		if _, err := integrator.ParseVariant(c.Integrator); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if _, err := output.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Photons.Alpha <= 0 || c.Photons.Alpha > 1 {
		return fmt.Errorf("config: photon alpha %g outside (0, 1]", c.Photons.Alpha)
	}
	if c.Width < 0 || c.SamplesPerPixel < 0 || c.MaxDepth < 0 || c.Passes < 0 {
		return fmt.Errorf("config: negative image or sampling setting")
	}
	return nil
}

// PhotonConfig returns the photon mapper settings
func (c Config) PhotonConfig() integrator.PhotonConfig {
	pc := integrator.DefaultPhotonConfig()
	pc.PhotonsPerIteration = c.Photons.Count
	pc.Iterations = c.Photons.Iterations
	pc.Alpha = c.Photons.Alpha
	pc.InitialRadius = c.Photons.InitialRadius
	if c.MaxDepth > 0 {
		pc.MaxDepth = c.MaxDepth
	}
	return pc
}
