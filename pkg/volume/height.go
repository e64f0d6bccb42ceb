package volume

import (
	"math"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
)

// DefaultHeightFalloff matches the falloff used for ground fog
const DefaultHeightFalloff = 6.0

// Height is a field that decays exponentially with height (Y) above the floor
// of the bounding box it is bound to: Value * exp(-Falloff * (y - floor)).
type Height struct {
	Value   float64
	Falloff float64
	floor   float64
}

// NewHeight creates a height field with the default falloff
func NewHeight(value float64) *Height {
	return &Height{Value: value, Falloff: DefaultHeightFalloff}
}

// Bind sets the floor of the field to the bottom of the owning medium
func (h *Height) Bind(bounds core.AABB) {
	h.floor = bounds.Min.Y
}

func (h *Height) LookupFloat(p core.Vec3) float64 {
	height := math.Max(0, p.Y-h.floor)
	return h.Value * math.Exp(-h.Falloff*height)
}

func (h *Height) LookupRGB(p core.Vec3) core.Vec3 {
	return core.NewGray(h.LookupFloat(p))
}

// MaxFloat is reached at the floor
func (h *Height) MaxFloat() float64 {
	return h.Value
}
