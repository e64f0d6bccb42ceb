package medium

import (
	"math"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/volume"
)

// maxTrackingSteps bounds null-collision marching on degenerate inputs
const maxTrackingSteps = 1 << 16

// densityField is a scalar density in [0, 1] scaled by a majorant
type densityField struct {
	density volume.Volume
	scale   float64
}

// deltaTrack samples a real collision along the ray within [tMin, tMax].
// It returns the collision distance and true, or false if the ray leaves the interval.
func (f densityField) deltaTrack(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (float64, bool) {
	if f.scale <= 0 {
		return 0, false
	}
	invMajorant := 1 / f.scale
	t := tMin
	for i := 0; i < maxTrackingSteps; i++ {
		t -= math.Log(1-sampler.Get1D()) * invMajorant
		if t >= tMax {
			return 0, false
		}
		if f.density.LookupFloat(ray.At(t)) > sampler.Get1D() {
			return t, true
		}
	}
	return 0, false
}

// ratioTrack estimates transmittance along the ray within [tMin, tMax]
func (f densityField) ratioTrack(ray core.Ray, tMin, tMax float64, sampler core.Sampler) float64 {
	if f.scale <= 0 {
		return 1
	}
	invMajorant := 1 / f.scale
	tr := 1.0
	t := tMin
	for i := 0; i < maxTrackingSteps; i++ {
		t -= math.Log(1-sampler.Get1D()) * invMajorant
		if t >= tMax {
			return tr
		}
		tr *= 1 - math.Min(1, f.density.LookupFloat(ray.At(t)))
		if tr <= 0 {
			return 0
		}
	}
	return tr
}

// clip restricts [0, tMax] along the ray to the boundary's box
func clip(boundary Boundary, ray core.Ray, tMax float64) (float64, float64, bool) {
	if boundary == nil {
		return 0, 0, false
	}
	return boundary.BoundingBox().RayInterval(ray, 0, tMax)
}
