package material

import (
	"github.com/df07/go-volumetric-raytracer/pkg/core"
)

// Emissive represents a light-emitting material. Only the front face emits.
type Emissive struct {
	Emission core.Vec3 // Emitted radiance
}

// NewEmissive creates a new emissive material
func NewEmissive(emission core.Vec3) *Emissive {
	return &Emissive{Emission: emission}
}

// Scatter absorbs every incoming ray
func (e *Emissive) Scatter(rayIn core.Ray, hit *SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	return ScatterResult{}, false
}

// Emit returns the emitted radiance toward the ray origin
func (e *Emissive) Emit(rayIn core.Ray, hit *SurfaceInteraction) core.Vec3 {
	if hit != nil && !hit.FrontFace {
		return core.Vec3{}
	}
	return e.Emission
}

func (e *Emissive) EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction) core.Vec3 {
	return core.Vec3{}
}

func (e *Emissive) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	return 0.0, false
}

func (e *Emissive) IsDiffuse() bool {
	return false
}
