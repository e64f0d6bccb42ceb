package renderer

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync"
	"time"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/integrator"
	"github.com/df07/go-volumetric-raytracer/pkg/scene"
)

// PhotonRenderer drives progressive photon mapping: eye hit points are gathered once,
// then every iteration deposits a fresh photon map and refines all hit points against it.
type PhotonRenderer struct {
	scene         *scene.Scene
	mapper        *integrator.PhotonMapper
	width, height int
	tileSize      int
	numWorkers    int
	hitPoints     []integrator.HitPoint // row-major, one per pixel
	emitted       int                   // photons emitted over all iterations
	photonMap     *integrator.PhotonMap // map of the iteration being gathered
	logger        core.Logger
}

// NewPhotonRenderer creates a photon mapping driver for a preprocessed scene
func NewPhotonRenderer(sc *scene.Scene, mapper *integrator.PhotonMapper, config ProgressiveConfig, logger core.Logger) *PhotonRenderer {
	numWorkers := config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	width, height := sc.SamplingConfig.Width, sc.SamplingConfig.Height
	return &PhotonRenderer{
		scene:      sc,
		mapper:     mapper,
		width:      width,
		height:     height,
		tileSize:   config.TileSize,
		numWorkers: numWorkers,
		hitPoints:  make([]integrator.HitPoint, width*height),
		logger:     logger,
	}
}

// Render runs all photon iterations and returns the final image
func (pr *PhotonRenderer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	start := time.Now()
	config := pr.mapper.Config()
	tiles := NewTileGrid(pr.width, pr.height, pr.tileSize)

	pool := NewWorkerPool(pr.numWorkers, len(tiles), pr.scene.SamplingConfig.Seed, pr.processTile)
	pool.Start()
	defer pool.Stop()

	radius := pr.mapper.InitialRadius(pr.scene)
	pr.logger.Printf("Gathering eye hit points (initial radius %.4f)...\n", radius)
	if err := pr.runTiles(pool, tiles, 0); err != nil {
		return nil, RenderStats{}, err
	}

	for iteration := 1; iteration <= config.Iterations; iteration++ {
		select {
		case <-ctx.Done():
			pr.logger.Printf("Photon mapping cancelled before iteration %d\n", iteration)
			return nil, RenderStats{}, ctx.Err()
		default:
		}

		iterStart := time.Now()
		photons, emitted := pr.tracePhotons(config.PhotonsPerIteration, iteration)
		if emitted == 0 {
			pr.logger.Printf("No photons emitted, scene has no lights\n")
			break
		}
		pr.emitted += emitted
		pr.photonMap = integrator.NewPhotonMap(photons)

		if err := pr.runTiles(pool, tiles, iteration); err != nil {
			return nil, RenderStats{}, err
		}
		pr.logger.Printf("Iteration %d: stored %d of %d emitted photons in %v\n",
			iteration, len(photons), emitted, time.Since(iterStart))
	}

	img := image.NewRGBA(image.Rect(0, 0, pr.width, pr.height))
	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			img.SetRGBA(x, y, vec3ToColor(pr.hitPoints[y*pr.width+x].Radiance(pr.emitted)))
		}
	}

	stats := RenderStats{
		TotalPixels:    pr.width * pr.height,
		TotalSamples:   pr.width * pr.height,
		AverageSamples: 1,
		MaxSamples:     1,
		MinSamples:     1,
		MaxSamplesUsed: 1,
		Photons:        pr.emitted,
		Elapsed:        time.Since(start),
	}
	return img, stats, nil
}

// runTiles submits one task per tile for the given stage and waits for all of them
func (pr *PhotonRenderer) runTiles(pool *WorkerPool, tiles []*Tile, stage int) error {
	for taskID, tile := range tiles {
		pool.SubmitTask(TileTask{Bounds: tile.Bounds, PassNumber: stage, TaskID: taskID})
	}
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			return fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			return result.Error
		}
	}
	return nil
}

// processTile gathers hit points in stage 0 and refines them against the current photon map afterwards
func (pr *PhotonRenderer) processTile(task TileTask, sampler *core.PathSampler) (RenderStats, error) {
	bounds := task.Bounds
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy()}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hp := &pr.hitPoints[y*pr.width+x]
			if task.PassNumber == 0 {
				sampler.StartPath(x, y, 0)
				ray := pr.scene.Camera.GetRay(x, y, sampler.Get2D(), sampler.Get2D())
				*hp = pr.mapper.TraceEyePath(ray, pr.scene, sampler, pr.mapper.InitialRadius(pr.scene))
				stats.TotalSamples++
				continue
			}
			hp.Update(pr.photonMap, pr.mapper.Config().Alpha)
		}
	}
	return stats, nil
}

// tracePhotons splits the photon budget over workers, each with its own sample stream
func (pr *PhotonRenderer) tracePhotons(count, iteration int) ([]integrator.Photon, int) {
	workers := min(pr.numWorkers, max(count, 1))
	per, rem := count/workers, count%workers

	type shard struct {
		photons []integrator.Photon
		emitted int
	}
	results := make(chan shard, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		n := per
		if w < rem {
			n++
		}
		go func(wid, n int) {
			defer wg.Done()
			sampler := core.NewPathSampler(pr.scene.SamplingConfig.Seed)
			// Negative coordinates keep photon streams apart from pixel streams
			sampler.StartPath(-1-wid, -iteration, 0)
			photons, emitted := pr.mapper.TracePhotons(pr.scene, n, sampler)
			results <- shard{photons: photons, emitted: emitted}
		}(w, n)
	}
	wg.Wait()
	close(results)

	photons := make([]integrator.Photon, 0, count)
	emitted := 0
	for s := range results {
		photons = append(photons, s.photons...)
		emitted += s.emitted
	}
	return photons, emitted
}
