package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/integrator"
	"github.com/df07/go-volumetric-raytracer/pkg/scene"
)

// AdaptiveConfig controls per-pixel early termination
type AdaptiveConfig struct {
	MinSamples float64 // Fraction of the target samples taken before a pixel may stop, 0 disables adaptive sampling
	Threshold  float64 // Relative error below which a pixel stops
}

// Raytracer renders rectangular regions of the image with an integrator
type Raytracer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	adaptive   AdaptiveConfig
}

// NewRaytracer creates a raytracer for a preprocessed scene
func NewRaytracer(sc *scene.Scene, integratorInst integrator.Integrator, adaptive AdaptiveConfig) *Raytracer {
	return &Raytracer{
		scene:      sc,
		integrator: integratorInst,
		adaptive:   adaptive,
	}
}

// RenderBounds samples every pixel within bounds up to targetSamples, writing into the shared pixel stats.
// Each pixel sample owns an independent sample stream keyed by pixel and sample index.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler *core.PathSampler, targetSamples int) RenderStats {
	stats := RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples, // Start with max, will be reduced
	}

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			samplesUsed := rt.samplePixel(i, j, &pixelStats[j][i], sampler, targetSamples)
			stats.TotalSamples += samplesUsed
			stats.MinSamples = min(stats.MinSamples, samplesUsed)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, samplesUsed)
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return stats
}

// samplePixel adds samples to one pixel until it reaches maxSamples or converges
func (rt *Raytracer) samplePixel(i, j int, ps *PixelStats, sampler *core.PathSampler, maxSamples int) int {
	initialSampleCount := ps.SampleCount
	camera := rt.scene.Camera

	for ps.SampleCount < maxSamples && !rt.shouldStopSampling(ps, maxSamples) {
		sampler.StartPath(i, j, ps.SampleCount)
		ray := camera.GetRay(i, j, sampler.Get2D(), sampler.Get2D())
		color := rt.integrator.RayColor(ray, rt.scene, sampler)
		if !color.IsFinite() {
			color = core.Vec3{}
		}
		ps.AddSample(color)
	}

	return ps.SampleCount - initialSampleCount
}

// shouldStopSampling determines if adaptive sampling should stop based on perceptual relative error
func (rt *Raytracer) shouldStopSampling(ps *PixelStats, maxSamples int) bool {
	if rt.adaptive.MinSamples <= 0 {
		return false
	}
	minSamples := max(1, int(float64(maxSamples)*rt.adaptive.MinSamples))
	if ps.SampleCount < minSamples {
		return false
	}

	mean := ps.LuminanceAccum / float64(ps.SampleCount)
	meanSq := ps.LuminanceSqAccum / float64(ps.SampleCount)
	variance := math.Max(0, meanSq-mean*mean)

	// Black pixels
	if mean <= 1e-8 {
		return variance < 1e-6
	}

	relativeError := math.Sqrt(variance) / mean
	return relativeError < rt.adaptive.Threshold
}

// vec3ToColor converts a linear radiance value to RGBA with gamma 2 and clamping
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	colorVec = colorVec.Clamp(0.0, 1.0).GammaCorrect(2.0)
	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}

// assembleImage tone maps the pixel statistics into an image and totals their samples
func assembleImage(pixelStats [][]PixelStats, width, height, targetSamples int) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	stats := RenderStats{
		TotalPixels: width * height,
		MaxSamples:  targetSamples,
		MinSamples:  math.MaxInt,
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixel := &pixelStats[y][x]
			img.SetRGBA(x, y, vec3ToColor(pixel.GetColor()))

			stats.TotalSamples += pixel.SampleCount
			stats.MinSamples = min(stats.MinSamples, pixel.SampleCount)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, pixel.SampleCount)
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	} else {
		stats.MinSamples = 0
	}
	return img, stats
}

// newPixelStats allocates the shared per-pixel accumulation grid
func newPixelStats(width, height int) [][]PixelStats {
	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}
	return pixelStats
}
