package material

import (
	"github.com/df07/go-volumetric-raytracer/pkg/core"
)

// Null is an invisible surface. It only marks the boundary of a participating
// medium: rays continue in the same direction with unit weight.
type Null struct{}

// NewNull creates a pass-through material
func NewNull() *Null {
	return &Null{}
}

func (n *Null) Scatter(rayIn core.Ray, hit *SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	return ScatterResult{
		Incoming:    rayIn,
		Scattered:   core.NewRay(hit.Point, rayIn.Direction),
		Attenuation: core.NewGray(1.0),
		PDF:         0,
	}, true
}

func (n *Null) EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction) core.Vec3 {
	return core.Vec3{}
}

func (n *Null) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	return 0.0, true
}

func (n *Null) IsDiffuse() bool {
	return false
}
