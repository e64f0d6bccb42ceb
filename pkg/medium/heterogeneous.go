package medium

import (
	"fmt"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/phase"
	"github.com/df07/go-volumetric-raytracer/pkg/volume"
)

// HeterogeneousConfig describes a medium with spatially varying density and albedo.
// Extinction at p is Scale * Density(p); Density must stay within [0, 1] so Scale
// is a valid majorant.
type HeterogeneousConfig struct {
	Density volume.Volume
	Albedo  volume.Volume
	Scale   float64
	Phase   phase.PhaseFunction
}

// Heterogeneous is sampled by delta tracking against the Scale majorant
type Heterogeneous struct {
	field    densityField
	albedo   volume.Volume
	phase    phase.PhaseFunction
	boundary Boundary
}

// NewHeterogeneous creates a heterogeneous medium
func NewHeterogeneous(config HeterogeneousConfig) (*Heterogeneous, error) {
	if config.Phase == nil {
		return nil, ErrMissingPhaseFunction
	}
	if config.Density == nil || config.Albedo == nil {
		return nil, fmt.Errorf("heterogeneous medium requires density and albedo volumes")
	}
	if !(config.Scale >= 0) {
		return nil, fmt.Errorf("%w: scale %v", ErrInvalidExtinction, config.Scale)
	}
	if maxDensity := config.Density.MaxFloat(); maxDensity > 1 {
		return nil, fmt.Errorf("%w: density reaches %v, must be at most 1", ErrMajorantExceeded, maxDensity)
	}
	if maxAlbedo := config.Albedo.MaxFloat(); maxAlbedo > 1 {
		return nil, fmt.Errorf("%w: reaches %v", ErrInvalidAlbedo, maxAlbedo)
	}

	return &Heterogeneous{
		field:  densityField{density: config.Density, scale: config.Scale},
		albedo: config.Albedo,
		phase:  config.Phase,
	}, nil
}

func (m *Heterogeneous) SampleFreePath(rec *QueryRecord, sampler core.Sampler) bool {
	ray := core.NewRay(rec.Ref, rec.Direction())
	rec.Albedo = one

	tNear, tFar, ok := clip(m.boundary, ray, rec.TMax)
	if !ok {
		return false
	}
	t, scattered := m.field.deltaTrack(ray, tNear, tFar, sampler)
	if !scattered {
		return false
	}
	rec.P = ray.At(t)
	rec.Albedo = m.albedo.LookupRGB(rec.P)
	return true
}

// Transmittance uses ratio tracking
func (m *Heterogeneous) Transmittance(ref, p core.Vec3, sampler core.Sampler) core.Vec3 {
	return core.NewGray(transmittance(m.field, m.boundary, ref, p, sampler))
}

func transmittance(field densityField, boundary Boundary, ref, p core.Vec3, sampler core.Sampler) float64 {
	offset := p.Subtract(ref)
	distance := offset.Length()
	if distance == 0 {
		return 1
	}
	ray := core.NewRay(ref, offset.Multiply(1/distance))
	tNear, tFar, ok := clip(boundary, ray, distance)
	if !ok {
		return 1
	}
	return field.ratioTrack(ray, tNear, tFar, sampler)
}

func (m *Heterogeneous) PhaseFunction() phase.PhaseFunction { return m.phase }

func (m *Heterogeneous) Boundary() Boundary { return m.boundary }

// AttachBoundary binds the medium and its extent-dependent volumes to b
func (m *Heterogeneous) AttachBoundary(b Boundary) error {
	if m.boundary != nil {
		return ErrBoundaryAlreadyAttached
	}
	m.boundary = b
	bindVolumes(b.BoundingBox(), m.field.density, m.albedo)
	return nil
}

func (m *Heterogeneous) Validate() error {
	if m.boundary == nil {
		return ErrMissingBoundary
	}
	return nil
}

func bindVolumes(bounds core.AABB, volumes ...volume.Volume) {
	for _, v := range volumes {
		if binder, ok := v.(volume.Binder); ok {
			binder.Bind(bounds)
		}
	}
}
