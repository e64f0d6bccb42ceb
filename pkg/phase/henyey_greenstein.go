package phase

import (
	"fmt"
	"math"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
)

// isotropicThreshold is the |g| below which sampling falls back to the isotropic inverse CDF
const isotropicThreshold = 1e-3

// HenyeyGreenstein is the single-parameter anisotropic phase function.
// G > 0 favors forward scattering, G < 0 back scattering.
type HenyeyGreenstein struct {
	G float64
}

// NewHenyeyGreenstein creates an HG phase function with asymmetry g in (-1, 1)
func NewHenyeyGreenstein(g float64) (*HenyeyGreenstein, error) {
	if !(g > -1 && g < 1) {
		return nil, fmt.Errorf("henyey-greenstein asymmetry must be in (-1, 1), got %v", g)
	}
	return &HenyeyGreenstein{G: g}, nil
}

// Sample draws a direction from the HG lobe around -wi
func (p *HenyeyGreenstein) Sample(wi core.Vec3, sample core.Vec2) (core.Vec3, float64) {
	g := p.G
	var cosTheta float64
	if math.Abs(g) < isotropicThreshold {
		cosTheta = 1 - 2*sample.X
	} else {
		value := (1 - g*g) / (1 - g + 2*g*sample.X)
		cosTheta = (1 + g*g - value*value) / (2 * g)
	}
	cosTheta = max(-1, min(1, cosTheta))
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * sample.Y

	local := core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
	wo := core.NewFrame(wi.Negate()).ToWorld(local)
	return wo, 1.0
}

// Evaluate equals PDF since HG is normalized
func (p *HenyeyGreenstein) Evaluate(wi, wo core.Vec3) float64 {
	return p.PDF(wi, wo)
}

// PDF returns (1-g²) / (4π (1+g²+2g wi·wo)^{3/2})
func (p *HenyeyGreenstein) PDF(wi, wo core.Vec3) float64 {
	g := p.G
	denom := 1 + g*g + 2*g*wi.Dot(wo)
	if denom <= 0 {
		return 0
	}
	return core.InvFourPi * (1 - g*g) / (denom * math.Sqrt(denom))
}
