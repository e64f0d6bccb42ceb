package phase

import "github.com/df07/go-volumetric-raytracer/pkg/core"

// Isotropic scatters uniformly over the sphere
type Isotropic struct{}

// NewIsotropic creates an isotropic phase function
func NewIsotropic() *Isotropic {
	return &Isotropic{}
}

// Sample draws a uniform direction on the sphere
func (p *Isotropic) Sample(wi core.Vec3, sample core.Vec2) (core.Vec3, float64) {
	return core.SampleOnUnitSphere(sample), 1.0
}

// Evaluate returns 1/4π
func (p *Isotropic) Evaluate(wi, wo core.Vec3) float64 {
	return core.InvFourPi
}

// PDF returns 1/4π
func (p *Isotropic) PDF(wi, wo core.Vec3) float64 {
	return core.InvFourPi
}
