// Package volume provides spatial fields (density, albedo, emission) sampled by
// heterogeneous participating media.
package volume

import "github.com/df07/go-volumetric-raytracer/pkg/core"

// Volume is a scalar or color field defined over world space
type Volume interface {
	LookupFloat(p core.Vec3) float64
	LookupRGB(p core.Vec3) core.Vec3

	// MaxFloat is a conservative upper bound of LookupFloat over the field
	MaxFloat() float64
}

// Binder is implemented by volumes whose mapping depends on the extent of the
// medium that owns them. Media call Bind once with their boundary's box.
type Binder interface {
	Bind(bounds core.AABB)
}

// ConstantFloat is a uniform scalar field
type ConstantFloat struct {
	Value float64
}

// NewConstantFloat creates a uniform scalar field
func NewConstantFloat(value float64) *ConstantFloat {
	return &ConstantFloat{Value: value}
}

func (c *ConstantFloat) LookupFloat(p core.Vec3) float64 { return c.Value }
func (c *ConstantFloat) LookupRGB(p core.Vec3) core.Vec3  { return core.NewGray(c.Value) }
func (c *ConstantFloat) MaxFloat() float64                { return c.Value }

// ConstantRGB is a uniform color field
type ConstantRGB struct {
	Value core.Vec3
}

// NewConstantRGB creates a uniform color field
func NewConstantRGB(value core.Vec3) *ConstantRGB {
	return &ConstantRGB{Value: value}
}

func (c *ConstantRGB) LookupFloat(p core.Vec3) float64 { return c.Value.Average() }
func (c *ConstantRGB) LookupRGB(p core.Vec3) core.Vec3  { return c.Value }
func (c *ConstantRGB) MaxFloat() float64                { return c.Value.MaxComponent() }
