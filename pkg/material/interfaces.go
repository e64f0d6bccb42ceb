package material

import (
	"github.com/df07/go-volumetric-raytracer/pkg/core"
)

// Material interface for surfaces that can scatter rays
type Material interface {
	// Scatter samples a continuation direction for a ray arriving at hit
	Scatter(rayIn core.Ray, hit *SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool)

	// EvaluateBRDF evaluates the BRDF for a ray arriving along incomingDir and leaving along outgoingDir
	EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction) core.Vec3

	// PDF returns the solid-angle pdf Scatter would produce outgoingDir with,
	// and whether the material is a delta distribution
	PDF(incomingDir, outgoingDir, normal core.Vec3) (pdf float64, isDelta bool)

	// IsDiffuse reports whether photons should be stored on this surface
	IsDiffuse() bool
}

// Emitter interface for materials that emit light
type Emitter interface {
	Emit(rayIn core.Ray, hit *SurfaceInteraction) core.Vec3
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Incoming    core.Ray  // The incoming ray
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // BRDF value, or the full weight for specular scattering
	PDF         float64   // Probability density function (0 for specular materials)
}

// IsSpecular returns true if this is specular scattering (no PDF)
func (s ScatterResult) IsSpecular() bool {
	return s.PDF <= 0
}

// Weight returns the throughput multiplier f*cos/pdf of the sampled direction
func (s ScatterResult) Weight(normal core.Vec3) core.Vec3 {
	if s.IsSpecular() {
		return s.Attenuation
	}
	cosine := s.Scattered.Direction.Normalize().Dot(normal)
	if cosine < 0 {
		cosine = -cosine
	}
	return s.Attenuation.Multiply(cosine / s.PDF)
}

// SurfaceInteraction contains information about a ray-surface intersection
type SurfaceInteraction struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal, facing against the incoming ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	UV        core.Vec2 // Surface coordinates for texturing
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *SurfaceInteraction) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// OutwardNormal returns the geometric normal pointing out of the surface
func (h *SurfaceInteraction) OutwardNormal() core.Vec3 {
	if h.FrontFace {
		return h.Normal
	}
	return h.Normal.Negate()
}

// IsPassThrough reports whether m only marks a medium boundary
func IsPassThrough(m Material) bool {
	_, ok := m.(*Null)
	return ok
}
