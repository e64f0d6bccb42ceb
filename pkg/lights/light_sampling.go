package lights

import (
	"math"
	"sort"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
)

// SampleLightPhoton selects a light by emission probability and emits one photon from it
func SampleLightPhoton(lightSampler LightSampler, sampler core.Sampler) (PhotonSample, bool) {
	if lightSampler == nil || lightSampler.LightCount() == 0 {
		return PhotonSample{}, false
	}
	selectedLight, lightSelectionPdf, _ := lightSampler.SampleLightEmission(sampler.Get1D())
	if selectedLight == nil || lightSelectionPdf <= 0 {
		return PhotonSample{}, false
	}

	photon := selectedLight.SamplePhoton(sampler.Get2D(), sampler.Get2D())
	photon.Power = photon.Power.Multiply(1.0 / lightSelectionPdf)
	return photon, true
}

// UniformConePDF calculates the PDF for uniform sampling within a cone
func UniformConePDF(cosTotalWidth float64) float64 {
	return 1.0 / (2.0 * math.Pi * (1.0 - cosTotalWidth))
}

// UniformLightSampler picks every light with equal probability
type UniformLightSampler struct {
	lights []Light
}

func NewUniformLightSampler(lights []Light) *UniformLightSampler {
	return &UniformLightSampler{lights: lights}
}

func (u *UniformLightSampler) SampleLight(point core.Vec3, r float64) (Light, float64, int) {
	return u.SampleLightEmission(r)
}

func (u *UniformLightSampler) SampleLightEmission(r float64) (Light, float64, int) {
	n := len(u.lights)
	if n == 0 {
		return nil, 0, -1
	}
	index := min(int(r*float64(n)), n-1)
	return u.lights[index], 1.0 / float64(n), index
}

func (u *UniformLightSampler) LightProbability(lightIndex int, point core.Vec3) float64 {
	if lightIndex < 0 || lightIndex >= len(u.lights) {
		return 0
	}
	return 1.0 / float64(len(u.lights))
}

func (u *UniformLightSampler) LightCount() int {
	return len(u.lights)
}

// WeightedLightSampler picks lights proportionally to fixed weights
type WeightedLightSampler struct {
	lights  []Light
	weights []float64 // normalized
	cdf     []float64
}

// NewWeightedLightSampler creates a sampler from per-light weights. Non-positive
// or mismatched weights fall back to uniform selection.
func NewWeightedLightSampler(lights []Light, weights []float64) *WeightedLightSampler {
	n := len(lights)
	normalized := make([]float64, n)
	total := 0.0
	if len(weights) == n {
		for _, w := range weights {
			if w > 0 && !math.IsInf(w, 0) {
				total += w
			}
		}
	}
	for i := range normalized {
		switch {
		case total > 0 && weights[i] > 0 && !math.IsInf(weights[i], 0):
			normalized[i] = weights[i] / total
		case total <= 0:
			normalized[i] = 1.0 / float64(n)
		}
	}

	cdf := make([]float64, n)
	acc := 0.0
	for i, w := range normalized {
		acc += w
		cdf[i] = acc
	}
	if n > 0 {
		cdf[n-1] = 1.0
	}

	return &WeightedLightSampler{lights: lights, weights: normalized, cdf: cdf}
}

// NewPowerLightSampler weights lights by the luminance of their emitted power
func NewPowerLightSampler(lights []Light) *WeightedLightSampler {
	weights := make([]float64, len(lights))
	for i, light := range lights {
		weights[i] = light.Power().Luminance()
	}
	return NewWeightedLightSampler(lights, weights)
}

func (w *WeightedLightSampler) SampleLight(point core.Vec3, r float64) (Light, float64, int) {
	return w.SampleLightEmission(r)
}

func (w *WeightedLightSampler) SampleLightEmission(r float64) (Light, float64, int) {
	if len(w.lights) == 0 {
		return nil, 0, -1
	}
	index := sort.SearchFloat64s(w.cdf, r)
	// SearchFloat64s returns the first cdf >= r; skip zero-weight entries sharing that value
	for index < len(w.cdf)-1 && (w.cdf[index] <= r || w.weights[index] == 0) {
		index++
	}
	index = min(index, len(w.lights)-1)
	return w.lights[index], w.weights[index], index
}

func (w *WeightedLightSampler) LightProbability(lightIndex int, point core.Vec3) float64 {
	if lightIndex < 0 || lightIndex >= len(w.weights) {
		return 0
	}
	return w.weights[lightIndex]
}

func (w *WeightedLightSampler) LightCount() int {
	return len(w.lights)
}
