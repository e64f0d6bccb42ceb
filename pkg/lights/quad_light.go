package lights

import (
	"math"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/geometry"
	"github.com/df07/go-volumetric-raytracer/pkg/material"
)

// QuadLight represents a rectangular area light emitting from its front face
type QuadLight struct {
	*geometry.Quad
	Emission core.Vec3
}

// NewQuadLight creates a new quad light; the front face is the side U × V points to
func NewQuadLight(corner, u, v core.Vec3, emission core.Vec3) *QuadLight {
	return &QuadLight{
		Quad:     geometry.NewQuad(corner, u, v, material.NewEmissive(emission)),
		Emission: emission,
	}
}

func (ql *QuadLight) Type() LightType {
	return LightTypeArea
}

// Geometry returns the quad the path tracer intersects
func (ql *QuadLight) Geometry() geometry.Shape {
	return ql.Quad
}

// Sample implements the Light interface - samples a point on the quad for direct lighting
func (ql *QuadLight) Sample(point core.Vec3, sample core.Vec2) LightSample {
	samplePoint, normal, areaPDF := ql.SampleSurface(sample)

	toLight := samplePoint.Subtract(point)
	distance := toLight.Length()
	if distance < 1e-9 {
		return LightSample{}
	}
	direction := toLight.Multiply(1.0 / distance)

	// Back face emits nothing
	cosTheta := -direction.Dot(normal)
	if cosTheta <= 1e-8 {
		return LightSample{Point: samplePoint, Normal: normal, Direction: direction, Distance: distance}
	}

	return LightSample{
		Point:     samplePoint,
		Normal:    normal,
		Direction: direction,
		Distance:  distance,
		Emission:  ql.Emission,
		PDF:       areaPDF * distance * distance / cosTheta,
	}
}

// PDF implements the Light interface - returns the probability density for sampling a given direction
func (ql *QuadLight) PDF(point, direction core.Vec3) float64 {
	hit, ok := ql.Quad.Hit(core.NewRay(point, direction), 1e-4, math.Inf(1))
	if !ok {
		return 0.0
	}
	cosTheta := math.Abs(direction.Normalize().Dot(ql.Normal))
	if cosTheta < 1e-8 {
		return 0.0
	}
	distance := hit.Point.Subtract(point).Length()
	return distance * distance / (cosTheta * ql.Area())
}

// SamplePhoton emits a photon from a uniform point with a cosine-weighted direction
func (ql *QuadLight) SamplePhoton(samplePoint, sampleDirection core.Vec2) PhotonSample {
	origin, normal, _ := ql.SampleSurface(samplePoint)
	direction := core.SampleCosineHemisphere(normal, sampleDirection)
	return PhotonSample{
		Ray:   core.NewRay(origin, direction),
		Power: ql.Power(),
	}
}

// Power returns Le · A · π
func (ql *QuadLight) Power() core.Vec3 {
	return ql.Emission.Multiply(ql.Area() * math.Pi)
}
