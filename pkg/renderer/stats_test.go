package renderer

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
)

func TestCalculateAverageLuminance(t *testing.T) {
	// Red 0.2126 + green 0.7152 + blue 0.0722 + black 0 over four pixels
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{0, 0, 0, 255})

	avgLum := CalculateAverageLuminance(img)
	expected := 0.25
	tolerance := 0.0001

	if avgLum < expected-tolerance || avgLum > expected+tolerance {
		t.Errorf("Expected average luminosity %f, got %f", expected, avgLum)
	}
}

func TestCalculateAverageLuminance_White(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{255, 255, 255, 255})

	avgLum := CalculateAverageLuminance(img)
	expected := 1.0
	tolerance := 0.0001

	if avgLum < expected-tolerance || avgLum > expected+tolerance {
		t.Errorf("Expected average luminosity %f, got %f", expected, avgLum)
	}
}

func TestPixelStats_AddSample(t *testing.T) {
	var ps PixelStats
	if ps.GetColor() != (core.Vec3{}) {
		t.Errorf("Expected black for an unsampled pixel, got %v", ps.GetColor())
	}
	ps.AddSample(core.NewVec3(1, 0, 0))
	ps.AddSample(core.NewVec3(0, 1, 0))

	if ps.SampleCount != 2 {
		t.Errorf("Expected 2 samples, got %d", ps.SampleCount)
	}
	if got := ps.GetColor(); got != core.NewVec3(0.5, 0.5, 0) {
		t.Errorf("Expected average (0.5, 0.5, 0), got %v", got)
	}
}

func TestRenderStats_MergeAndSummary(t *testing.T) {
	var total RenderStats
	total.Merge(RenderStats{TotalPixels: 1000, TotalSamples: 4000, MinSamples: 2, MaxSamplesUsed: 8, MaxSamples: 8})
	total.Merge(RenderStats{TotalPixels: 1000, TotalSamples: 8000, MinSamples: 4, MaxSamplesUsed: 8, MaxSamples: 8})
	total.Elapsed = 1500 * time.Millisecond

	if total.MinSamples != 2 {
		t.Errorf("Expected min samples 2, got %d", total.MinSamples)
	}
	if total.AverageSamples != 6 {
		t.Errorf("Expected average 6, got %f", total.AverageSamples)
	}

	summary := total.Summary()
	if !strings.Contains(summary, "12,000 camera paths") {
		t.Errorf("Expected grouped sample count in summary, got %q", summary)
	}
	if !strings.Contains(summary, "2,000 pixels") {
		t.Errorf("Expected grouped pixel count in summary, got %q", summary)
	}
}
