package renderer

import (
	"context"
	"image"
	"testing"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
)

func TestProgressiveSampleCalculation(t *testing.T) {
	config := DefaultProgressiveConfig()
	config.InitialSamples = 1
	config.MaxSamplesPerPixel = 50
	config.MaxPasses = 7

	pr := &ProgressiveRaytracer{
		config: config,
	}

	// Pass 1: 1 sample, passes 2-6 add (50-1)/6 = 8, the final pass takes the rest
	expectedTotalSamples := []int{1, 9, 17, 25, 33, 41, 50}

	for pass := 1; pass <= 7; pass++ {
		totalSamples := pr.getSamplesForPass(pass)

		if totalSamples != expectedTotalSamples[pass-1] {
			t.Errorf("Pass %d: expected %d total samples, got %d",
				pass, expectedTotalSamples[pass-1], totalSamples)
		}
	}
}

func TestProgressiveSampleCalculation_SinglePass(t *testing.T) {
	pr := &ProgressiveRaytracer{config: ProgressiveConfig{InitialSamples: 1, MaxSamplesPerPixel: 16, MaxPasses: 1}}
	if got := pr.getSamplesForPass(1); got != 16 {
		t.Errorf("Expected all 16 samples in a single pass, got %d", got)
	}
}

func TestProgressiveConfig(t *testing.T) {
	config := DefaultProgressiveConfig()

	if config.TileSize != 64 {
		t.Errorf("Expected default tile size 64, got %d", config.TileSize)
	}
	if config.InitialSamples != 1 {
		t.Errorf("Expected default initial samples 1, got %d", config.InitialSamples)
	}
	if config.MaxSamplesPerPixel != 50 {
		t.Errorf("Expected default max samples 50, got %d", config.MaxSamplesPerPixel)
	}
	if config.MaxPasses != 7 {
		t.Errorf("Expected default max passes 7, got %d", config.MaxPasses)
	}
	if config.Adaptive.MinSamples != 0 {
		t.Errorf("Expected adaptive sampling disabled by default, got %f", config.Adaptive.MinSamples)
	}
}

func TestNewTileGrid(t *testing.T) {
	tiles := NewTileGrid(100, 70, 32)
	if len(tiles) != 4*3 {
		t.Fatalf("Expected 12 tiles, got %d", len(tiles))
	}

	covered := make(map[image.Point]int)
	for i, tile := range tiles {
		if tile.ID != i {
			t.Errorf("Expected tile ID %d, got %d", i, tile.ID)
		}
		for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
			for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
				covered[image.Pt(x, y)]++
			}
		}
	}
	if len(covered) != 100*70 {
		t.Errorf("Expected every pixel covered, got %d", len(covered))
	}
	for p, n := range covered {
		if n != 1 {
			t.Fatalf("Expected pixel %v covered once, got %d", p, n)
		}
	}

	last := tiles[len(tiles)-1].Bounds
	if last != image.Rect(96, 64, 100, 70) {
		t.Errorf("Expected clipped last tile, got %v", last)
	}
}

func TestWorkerPool_RunsEveryTask(t *testing.T) {
	seen := make(chan int, 20)
	pool := NewWorkerPool(3, 20, 1, func(task TileTask, sampler *core.PathSampler) (RenderStats, error) {
		seen <- task.TaskID
		return RenderStats{TotalPixels: 1, TotalSamples: task.TargetSamples}, nil
	})
	if pool.GetNumWorkers() != 3 {
		t.Errorf("Expected 3 workers, got %d", pool.GetNumWorkers())
	}
	pool.Start()

	for i := 0; i < 20; i++ {
		pool.SubmitTask(TileTask{TaskID: i, TargetSamples: 2})
	}
	var total RenderStats
	for i := 0; i < 20; i++ {
		result, ok := pool.GetResult()
		if !ok {
			t.Fatal("Expected a result")
		}
		total.Merge(result.Stats)
	}
	pool.Stop()
	close(seen)

	ids := make(map[int]bool)
	for id := range seen {
		ids[id] = true
	}
	if len(ids) != 20 {
		t.Errorf("Expected 20 distinct tasks, got %d", len(ids))
	}
	if total.TotalSamples != 40 {
		t.Errorf("Expected 40 samples, got %d", total.TotalSamples)
	}
}

func TestRenderProgressive(t *testing.T) {
	sc := createMockScene(t, 16)
	mock := &MockIntegrator{returnColor: core.NewGray(0.25)}
	config := ProgressiveConfig{TileSize: 8, InitialSamples: 1, MaxSamplesPerPixel: 4, MaxPasses: 3, NumWorkers: 2}
	pr := NewProgressiveRaytracer(sc, mock, config, core.NopLogger{})

	passChan, errChan := pr.RenderProgressive(context.Background())

	var passes []PassResult
	for result := range passChan {
		passes = append(passes, result)
	}
	for err := range errChan {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(passes) != 3 {
		t.Fatalf("Expected 3 passes, got %d", len(passes))
	}
	final := passes[len(passes)-1]
	if !final.IsLast {
		t.Error("Expected the final pass to be marked last")
	}
	if final.Stats.TotalSamples != 16*16*4 {
		t.Errorf("Expected %d samples, got %d", 16*16*4, final.Stats.TotalSamples)
	}
	// sqrt(0.25) = 0.5 after gamma
	if c := final.Image.RGBAAt(5, 9); c.R != 127 {
		t.Errorf("Expected tone mapped value 127, got %d", c.R)
	}
}

func TestRenderProgressive_Cancelled(t *testing.T) {
	sc := createMockScene(t, 8)
	pr := NewProgressiveRaytracer(sc, &MockIntegrator{}, DefaultProgressiveConfig(), core.NopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	passChan, errChan := pr.RenderProgressive(ctx)

	for range passChan {
		t.Error("Expected no passes after cancellation")
	}
	if err := <-errChan; err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
