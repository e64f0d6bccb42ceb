package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"strings"
	"time"

	"github.com/df07/go-volumetric-raytracer/pkg/config"
	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/geometry"
	"github.com/df07/go-volumetric-raytracer/pkg/integrator"
	"github.com/df07/go-volumetric-raytracer/pkg/loaders"
	"github.com/df07/go-volumetric-raytracer/pkg/output"
	"github.com/df07/go-volumetric-raytracer/pkg/renderer"
	"github.com/df07/go-volumetric-raytracer/pkg/scene"
)

func main() {
	var flags config.Flags
	configPath := flag.String("config", "", "JSON render configuration file")
	flag.StringVar(&flags.Scene, "scene", "", "Scene id, or smoke:<file.vol> for a density grid")
	flag.StringVar(&flags.Integrator, "integrator", "", "Integrator: mats, mis, ems or ppm (default: scene suggestion)")
	flag.IntVar(&flags.SamplesPerPixel, "spp", 0, "Samples per pixel")
	flag.StringVar(&flags.Format, "format", "", "Output format: png or webp")
	flag.IntVar(&flags.Supersample, "supersample", 0, "Render at N times the resolution and downsample")
	flag.IntVar(&flags.Workers, "workers", 0, "Number of parallel workers (0 = CPU count)")
	flag.Int64Var(&flags.Seed, "seed", 0, "Base seed of the sample streams")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	logger := renderer.NewDefaultLogger()
	if err := run(*configPath, flags, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Volumetric Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	scenes, err := scene.ListAllScenes()
	if err != nil {
		fmt.Printf("  (failed to list scenes: %v)\n", err)
	}
	for _, info := range scenes {
		fmt.Printf("  %-16s %s [%s]\n", info.ID, info.Description, info.Integrator)
	}
	fmt.Println()
	fmt.Println("Output will be saved to <output_dir>/<scene>_<integrator>.<format>")
}

// run loads the configuration, renders the scene and writes the image
func run(configPath string, flags config.Flags, logger core.Logger) error {
	fileCfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg, err := fileCfg.Resolve(flags)
	if err != nil {
		return err
	}
	if cfg.Integrator == "" {
		if info, ok := scene.Lookup(cfg.Scene); ok {
			cfg.Integrator = info.Integrator
		} else {
			cfg.Integrator = "mis"
		}
	}

	sc, err := createScene(cfg, logger)
	if err != nil {
		return err
	}
	logger.Printf("Scene %s: %d primitives, %d lights, %d emissive media (%dx%d)\n",
		cfg.Scene, sc.PrimitiveCount(), sc.LightCount(), sc.EmissiveMediumCount(),
		sc.SamplingConfig.Width, sc.SamplingConfig.Height)

	img, stats, err := render(context.Background(), sc, cfg, logger)
	if err != nil {
		return err
	}
	logger.Printf("%s\n", stats.Summary())

	format, err := output.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	path, err := output.Save(cfg.OutputDir, outputName(cfg), output.Downsample(img, cfg.Supersample), format)
	if err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", path)
	return nil
}

// createScene builds and preprocesses the configured scene
func createScene(cfg config.Config, logger core.Logger) (*scene.Scene, error) {
	opts := scene.Options{Logger: logger}
	if cfg.GroundTexture != "" {
		texture, err := loaders.LoadTexture(cfg.GroundTexture)
		if err != nil {
			return nil, fmt.Errorf("ground texture: %w", err)
		}
		opts.GroundTexture = texture
	}

	sc, err := scene.New(cfg.Scene, opts)
	if err != nil {
		return nil, err
	}
	if cfg.Width > 0 {
		sc.CameraConfig.Width = cfg.Width
	}
	sc.CameraConfig.Width *= max(1, cfg.Supersample)
	sc.Camera = geometry.NewCamera(sc.CameraConfig)

	if cfg.SamplesPerPixel > 0 {
		sc.SamplingConfig.SamplesPerPixel = cfg.SamplesPerPixel
	}
	if cfg.MaxDepth > 0 {
		sc.SamplingConfig.MaxDepth = cfg.MaxDepth
	}
	sc.SamplingConfig.Seed = cfg.Seed

	if err := sc.Preprocess(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", cfg.Scene, err)
	}
	return sc, nil
}

// render runs the configured integrator over the whole image
func render(ctx context.Context, sc *scene.Scene, cfg config.Config, logger core.Logger) (image.Image, renderer.RenderStats, error) {
	progressive := renderer.DefaultProgressiveConfig()
	progressive.NumWorkers = cfg.Workers
	progressive.MaxSamplesPerPixel = max(1, sc.SamplingConfig.SamplesPerPixel)
	if cfg.Passes > 0 {
		progressive.MaxPasses = cfg.Passes
	}
	progressive.MaxPasses = min(progressive.MaxPasses, progressive.MaxSamplesPerPixel)

	if cfg.Integrator == config.IntegratorPPM {
		mapper := integrator.NewPhotonMapper(cfg.PhotonConfig())
		return renderer.NewPhotonRenderer(sc, mapper, progressive, logger).Render(ctx)
	}

	variant, err := integrator.ParseVariant(cfg.Integrator)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	vp := integrator.NewVolPathIntegrator(variant, sc.SamplingConfig)
	pr := renderer.NewProgressiveRaytracer(sc, vp, progressive, logger)

	start := time.Now()
	passChan, errChan := pr.RenderProgressive(ctx)
	var last renderer.PassResult
	for result := range passChan {
		last = result
	}
	if err := <-errChan; err != nil {
		return nil, renderer.RenderStats{}, err
	}
	if last.Image == nil {
		return nil, renderer.RenderStats{}, fmt.Errorf("no pass completed")
	}
	last.Stats.Elapsed = time.Since(start)
	return last.Image, last.Stats, nil
}

// outputName derives a file name from the scene id and integrator
func outputName(cfg config.Config) string {
	name := strings.NewReplacer(":", "_", "/", "_", "\\", "_", ".", "_").Replace(cfg.Scene)
	return name + "_" + cfg.Integrator
}
