package medium

import (
	"fmt"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/volume"
)

// EmissiveConfig describes a heterogeneous medium that also emits light
type EmissiveConfig struct {
	HeterogeneousConfig
	Radiance volume.Volume
}

// Emissive is a heterogeneous medium with an emission field
type Emissive struct {
	Heterogeneous
	radiance volume.Volume
}

// NewEmissive creates an emissive medium
func NewEmissive(config EmissiveConfig) (*Emissive, error) {
	if config.Radiance == nil {
		return nil, fmt.Errorf("emissive medium requires a radiance volume")
	}
	het, err := NewHeterogeneous(config.HeterogeneousConfig)
	if err != nil {
		return nil, err
	}
	return &Emissive{Heterogeneous: *het, radiance: config.Radiance}, nil
}

// SampleFreePath delta-tracks like a heterogeneous medium and also reports
// the emission and absorption at the collision
func (m *Emissive) SampleFreePath(rec *QueryRecord, sampler core.Sampler) bool {
	if !m.Heterogeneous.SampleFreePath(rec, sampler) {
		return false
	}
	rec.Radiance = m.radiance.LookupRGB(rec.P)
	rec.SigmaA = m.sigmaA(rec.P, rec.Albedo)
	return true
}

func (m *Emissive) EvalRadiance(p core.Vec3) core.Vec3 {
	return m.radiance.LookupRGB(p)
}

// SampleRadiance draws a point uniformly in the boundary volume
func (m *Emissive) SampleRadiance(rec *QueryRecord, sampler core.Sampler) core.Vec3 {
	rec.RadiancePDF = 0
	rec.Radiance = core.Vec3{}
	if m.boundary == nil {
		return rec.Radiance
	}

	p, pdf := m.boundary.SampleVolume(sampler.Get3D())
	offset := p.Subtract(rec.Ref)
	distance := offset.Length()
	if !(pdf > 0) || distance == 0 {
		return rec.Radiance
	}

	rec.P = p
	rec.RadiancePDF = pdf
	rec.ShadowRay = core.NewRay(rec.Ref, offset.Multiply(1/distance))
	rec.ShadowDistance = distance
	rec.Radiance = m.radiance.LookupRGB(p)
	rec.SigmaA = m.sigmaA(p, m.albedo.LookupRGB(p))
	return rec.Radiance
}

// sigmaA is the local absorption coefficient scale*density*(1-albedo)
func (m *Emissive) sigmaA(p, albedo core.Vec3) core.Vec3 {
	sigmaT := m.field.scale * m.field.density.LookupFloat(p)
	return one.Subtract(albedo).Multiply(sigmaT)
}

func (m *Emissive) AttachBoundary(b Boundary) error {
	if err := m.Heterogeneous.AttachBoundary(b); err != nil {
		return err
	}
	bindVolumes(b.BoundingBox(), m.radiance)
	return nil
}
