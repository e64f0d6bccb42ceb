// Package medium implements participating media: free-path sampling,
// transmittance estimation, emission sampling and the nesting stack that
// tracks which medium a ray travels through.
package medium

import (
	"errors"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/phase"
)

var (
	ErrMissingPhaseFunction    = errors.New("medium requires a phase function")
	ErrBoundaryAlreadyAttached = errors.New("tried to attach multiple boundaries to one medium")
	ErrMissingBoundary         = errors.New("heterogeneous medium has no boundary shape")
	ErrInvalidExtinction       = errors.New("extinction must be non-negative")
	ErrInvalidAlbedo           = errors.New("albedo must lie in [0, 1]")
	ErrMajorantExceeded        = errors.New("density exceeds the majorant")
	ErrUnsupportedBoundary     = errors.New("shape cannot bound a medium")
)

// Boundary is the shape a medium is attached to. Media use it to clip
// segments to their extent and to sample emission points.
type Boundary interface {
	BoundingBox() core.AABB

	// SampleVolume draws a point uniformly inside the shape and returns
	// it with its volume density
	SampleVolume(sample core.Vec3) (core.Vec3, float64)
}

// Medium is a participating medium
type Medium interface {
	// SampleFreePath samples a scattering distance along -rec.Wi from rec.Ref,
	// limited by rec.TMax. It returns true and fills rec.P when the ray scatters.
	// rec.Albedo receives the throughput weight in both cases.
	SampleFreePath(rec *QueryRecord, sampler core.Sampler) bool

	// Transmittance returns an unbiased estimate of the transmittance between two points
	Transmittance(ref, p core.Vec3, sampler core.Sampler) core.Vec3

	PhaseFunction() phase.PhaseFunction
	Boundary() Boundary

	// AttachBoundary binds the medium to the shape enclosing it
	AttachBoundary(b Boundary) error

	// Validate reports configuration errors that must abort rendering
	Validate() error
}

// EmissiveMedium is a medium that also emits light
type EmissiveMedium interface {
	Medium

	// EvalRadiance returns the emitted radiance at p
	EvalRadiance(p core.Vec3) core.Vec3

	// SampleRadiance samples an emission point for rec.Ref. It fills rec.P,
	// rec.Radiance, rec.RadiancePDF (volume measure), rec.SigmaA and the shadow ray.
	SampleRadiance(rec *QueryRecord, sampler core.Sampler) core.Vec3
}

// QueryRecord carries the inputs and results of one medium query
type QueryRecord struct {
	Ref  core.Vec3 // Reference point the query starts from
	Wi   core.Vec3 // Direction toward Ref (negative ray direction)
	TMax float64   // Segment length

	P      core.Vec3 // Sampled interaction point or target point
	Albedo core.Vec3 // Throughput weight of the query

	Radiance    core.Vec3 // Emission at P (emissive media)
	RadiancePDF float64   // Density of the sampled emission point
	SigmaA      core.Vec3 // Absorption coefficient at P (emissive media)

	ShadowRay      core.Ray // From Ref toward the sampled point
	ShadowDistance float64
}

// NewFreePathQuery creates a record for a segment starting at ref along direction dir
func NewFreePathQuery(ref, dir core.Vec3, tMax float64) QueryRecord {
	return QueryRecord{Ref: ref, Wi: dir.Negate(), TMax: tMax}
}

// NewRadianceQuery creates a record for emission sampling toward ref
func NewRadianceQuery(ref core.Vec3) QueryRecord {
	return QueryRecord{Ref: ref}
}

// Direction returns the ray direction the record was created for
func (rec *QueryRecord) Direction() core.Vec3 {
	return rec.Wi.Negate()
}

var one = core.NewGray(1)
