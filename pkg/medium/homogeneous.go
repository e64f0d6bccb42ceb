package medium

import (
	"fmt"
	"math"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/phase"
)

// Homogeneous is a medium with constant coefficients. Free paths are sampled
// in closed form; colored extinction uses one-sample spectral MIS.
type Homogeneous struct {
	sigmaA   core.Vec3
	sigmaS   core.Vec3
	sigmaT   core.Vec3
	albedo   core.Vec3
	phase    phase.PhaseFunction
	boundary Boundary
}

// NewHomogeneous creates a homogeneous medium from absorption and scattering coefficients
func NewHomogeneous(sigmaA, sigmaS core.Vec3, pf phase.PhaseFunction) (*Homogeneous, error) {
	if pf == nil {
		return nil, ErrMissingPhaseFunction
	}
	for axis := 0; axis < 3; axis++ {
		a, s := sigmaA.Component(axis), sigmaS.Component(axis)
		if !(a >= 0) || !(s >= 0) || math.IsInf(a, 0) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("%w: sigma_a=%v sigma_s=%v", ErrInvalidExtinction, sigmaA, sigmaS)
		}
	}

	sigmaT := sigmaA.Add(sigmaS)
	return &Homogeneous{
		sigmaA: sigmaA,
		sigmaS: sigmaS,
		sigmaT: sigmaT,
		albedo: sigmaS.DivideVec(sigmaT),
		phase:  pf,
	}, nil
}

// NewHomogeneousFromAlbedo creates a medium from extinction and single-scattering albedo
func NewHomogeneousFromAlbedo(sigmaT, albedo core.Vec3, pf phase.PhaseFunction) (*Homogeneous, error) {
	if albedo.Clamp(0, 1) != albedo {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAlbedo, albedo)
	}
	sigmaS := sigmaT.MultiplyVec(albedo)
	return NewHomogeneous(sigmaT.Subtract(sigmaS), sigmaS, pf)
}

// SigmaT returns the extinction coefficient
func (m *Homogeneous) SigmaT() core.Vec3 { return m.sigmaT }

// Albedo returns the single-scattering albedo
func (m *Homogeneous) Albedo() core.Vec3 { return m.albedo }

func (m *Homogeneous) SampleFreePath(rec *QueryRecord, sampler core.Sampler) bool {
	dir := rec.Direction()

	if m.sigmaT.IsUniform() {
		sigma := m.sigmaT.X
		if sigma <= 0 {
			rec.Albedo = one
			return false
		}
		t := -math.Log(1-sampler.Get1D()) / sigma
		if t < rec.TMax {
			rec.P = rec.Ref.Add(dir.Multiply(t))
			rec.Albedo = m.albedo
			return true
		}
		rec.Albedo = one
		return false
	}

	// Pick a channel uniformly and weight by the average pdf over all channels
	channel := min(int(sampler.Get1D()*3), 2)
	sigma := m.sigmaT.Component(channel)
	t := math.Inf(1)
	if sigma > 0 {
		t = -math.Log(1-sampler.Get1D()) / sigma
	}

	if t < rec.TMax {
		tr := m.transmittance(t)
		pdf := m.sigmaT.MultiplyVec(tr).Average()
		rec.P = rec.Ref.Add(dir.Multiply(t))
		rec.Albedo = safeRatio(m.sigmaS.MultiplyVec(tr), pdf)
		return true
	}

	tr := m.transmittance(rec.TMax)
	rec.Albedo = safeRatio(tr, tr.Average())
	return false
}

// Transmittance is exp(-sigma_t * distance)
func (m *Homogeneous) Transmittance(ref, p core.Vec3, sampler core.Sampler) core.Vec3 {
	return m.transmittance(p.Subtract(ref).Length())
}

func (m *Homogeneous) transmittance(distance float64) core.Vec3 {
	tr := func(sigma float64) float64 {
		if sigma == 0 {
			return 1
		}
		return math.Exp(-sigma * distance)
	}
	return core.NewVec3(tr(m.sigmaT.X), tr(m.sigmaT.Y), tr(m.sigmaT.Z))
}

func (m *Homogeneous) PhaseFunction() phase.PhaseFunction { return m.phase }

func (m *Homogeneous) Boundary() Boundary { return m.boundary }

func (m *Homogeneous) AttachBoundary(b Boundary) error {
	if m.boundary != nil {
		return ErrBoundaryAlreadyAttached
	}
	m.boundary = b
	return nil
}

// Validate always succeeds; homogeneous media may be unbounded
func (m *Homogeneous) Validate() error {
	return nil
}

// safeRatio divides v by pdf, yielding zero instead of non-finite weights
func safeRatio(v core.Vec3, pdf float64) core.Vec3 {
	if !(pdf > 0) {
		return core.Vec3{}
	}
	result := v.Multiply(1 / pdf)
	if !result.IsFinite() {
		return core.Vec3{}
	}
	return result
}
