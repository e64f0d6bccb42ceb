package integrator

import (
	"math"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/lights"
	"github.com/df07/go-volumetric-raytracer/pkg/material"
	"github.com/df07/go-volumetric-raytracer/pkg/scene"
)

// PhotonConfig contains the progressive photon mapping settings
type PhotonConfig struct {
	PhotonsPerIteration int     // Photons deposited per iteration
	Iterations          int     // Number of photon passes
	Alpha               float64 // Fraction of new photons kept when the radius shrinks
	InitialRadius       float64 // Search radius of the first pass, 0 derives it from the scene size
	MaxDepth            int     // Bounce limit of eye and photon paths
}

// DefaultPhotonConfig returns sensible default values
func DefaultPhotonConfig() PhotonConfig {
	return PhotonConfig{
		PhotonsPerIteration: 100000,
		Iterations:          10,
		Alpha:               0.7,
		MaxDepth:            32,
	}
}

// maxEmitFactor bounds emitted photons per deposited photon in scenes that rarely store any
const maxEmitFactor = 64

// HitPoint is the diffuse surface an eye path landed on, with its progressive density estimate
type HitPoint struct {
	SI       material.SurfaceInteraction
	Incoming core.Vec3 // Direction of the eye ray arriving at the surface
	Weight   core.Vec3 // Eye path throughput
	Direct   core.Vec3 // Emission seen directly along the eye path
	Valid    bool      // The eye path reached a diffuse surface

	Radius float64
	N      float64   // Accumulated photon count
	Tau    core.Vec3 // Accumulated BSDF-weighted flux
}

// Update folds the photons within the current radius into the estimate and shrinks the radius.
// Passes that find no photon leave the hit point unchanged.
func (hp *HitPoint) Update(pm *PhotonMap, alpha float64) int {
	if !hp.Valid {
		return 0
	}
	count := 0
	var flux core.Vec3
	pm.Within(hp.SI.Point, hp.Radius, func(photon *Photon) {
		count++
		f := hp.SI.Material.EvaluateBRDF(hp.Incoming, photon.Direction, &hp.SI)
		flux = flux.Add(f.MultiplyVec(photon.Power))
	})
	if count == 0 {
		return 0
	}

	m := float64(count)
	nextN := hp.N + alpha*m
	ratio := nextN / (hp.N + m)
	hp.Radius *= math.Sqrt(ratio)
	hp.Tau = hp.Tau.Add(flux).Multiply(ratio)
	hp.N = nextN
	return count
}

// Radiance returns the pixel estimate after emitted photons have been traced in total
func (hp *HitPoint) Radiance(emitted int) core.Vec3 {
	if !hp.Valid || emitted == 0 || hp.Radius <= 0 {
		return hp.Direct
	}
	density := hp.Tau.Multiply(1 / (float64(emitted) * math.Pi * hp.Radius * hp.Radius))
	return hp.Direct.Add(hp.Weight.MultiplyVec(density))
}

// PhotonMapper implements stochastic progressive photon mapping on surfaces.
// Participating media are ignored: their boundaries are crossed without interaction.
type PhotonMapper struct {
	config PhotonConfig
}

// NewPhotonMapper creates a photon mapper
func NewPhotonMapper(config PhotonConfig) *PhotonMapper {
	return &PhotonMapper{config: config}
}

// Config returns the photon mapping settings
func (pm *PhotonMapper) Config() PhotonConfig {
	return pm.config
}

// InitialRadius returns the configured search radius or one derived from the scene size
func (pm *PhotonMapper) InitialRadius(sc *scene.Scene) float64 {
	if pm.config.InitialRadius > 0 {
		return pm.config.InitialRadius
	}
	return sc.Bounds().Diagonal() / 500
}

// TraceEyePath follows ray through discrete surfaces until it reaches a diffuse one
func (pm *PhotonMapper) TraceEyePath(ray core.Ray, sc *scene.Scene, sampler core.Sampler, radius float64) HitPoint {
	hp := HitPoint{Radius: radius}
	throughput := one
	ray = core.NewRay(ray.Origin, ray.Direction.Normalize())

	depth := 0
	for i := 0; i < maxPathIterations && depth < pm.config.MaxDepth; i++ {
		hit, ok := sc.Intersect(ray, rayEpsilon, math.Inf(1))
		if !ok {
			break
		}
		if material.IsPassThrough(hit.Material) {
			ray = core.NewRay(hit.Point, ray.Direction)
			continue
		}
		depth++

		if emitter, ok := hit.Material.(material.Emitter); ok {
			hp.Direct = hp.Direct.Add(throughput.MultiplyVec(emitter.Emit(ray, &hit.SurfaceInteraction)))
		}
		if hit.Material.IsDiffuse() {
			hp.SI = hit.SurfaceInteraction
			hp.Incoming = ray.Direction
			hp.Weight = throughput
			hp.Valid = true
			break
		}

		scatter, ok := hit.Material.Scatter(ray, &hit.SurfaceInteraction, sampler)
		if !ok {
			break
		}
		throughput = throughput.MultiplyVec(scatter.Weight(hit.Normal))
		survive, p := core.RussianRoulette(throughput, sampler.Get1D())
		if !survive {
			break
		}
		throughput = throughput.Multiply(1 / p)
		ray = core.NewRay(hit.Point, scatter.Scattered.Direction.Normalize())
	}
	return hp
}

// TracePhotons emits photons until count of them are stored on diffuse surfaces.
// It returns the stored photons and how many photons were emitted.
func (pm *PhotonMapper) TracePhotons(sc *scene.Scene, count int, sampler core.Sampler) ([]Photon, int) {
	photons := make([]Photon, 0, count)
	emitted := 0
	for len(photons) < count && emitted < count*maxEmitFactor {
		sample, ok := lights.SampleLightPhoton(sc.LightSampler, sampler)
		if !ok {
			break
		}
		emitted++
		photons = pm.tracePhoton(sc, sample, sampler, photons, count)
	}
	return photons, emitted
}

// tracePhoton follows one photon, appending a record at every diffuse hit
func (pm *PhotonMapper) tracePhoton(sc *scene.Scene, sample lights.PhotonSample, sampler core.Sampler, photons []Photon, count int) []Photon {
	ray := core.NewRay(sample.Ray.Origin, sample.Ray.Direction.Normalize())
	throughput := one

	depth := 0
	for i := 0; i < maxPathIterations && depth < pm.config.MaxDepth; i++ {
		hit, ok := sc.Intersect(ray, rayEpsilon, math.Inf(1))
		if !ok {
			break
		}
		if material.IsPassThrough(hit.Material) {
			ray = core.NewRay(hit.Point, ray.Direction)
			continue
		}
		depth++

		if hit.Material.IsDiffuse() {
			photons = append(photons, Photon{
				Position:  hit.Point,
				Direction: ray.Direction.Negate(),
				Power:     sample.Power.MultiplyVec(throughput),
			})
			if len(photons) == count {
				break
			}
		}

		scatter, ok := hit.Material.Scatter(ray, &hit.SurfaceInteraction, sampler)
		if !ok {
			break
		}
		throughput = throughput.MultiplyVec(scatter.Weight(hit.Normal))
		survive, p := core.RussianRoulette(throughput, sampler.Get1D())
		if !survive {
			break
		}
		throughput = throughput.Multiply(1 / p)
		ray = core.NewRay(hit.Point, scatter.Scattered.Direction.Normalize())
	}
	return photons
}
