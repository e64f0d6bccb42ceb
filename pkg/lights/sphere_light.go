package lights

import (
	"math"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/geometry"
	"github.com/df07/go-volumetric-raytracer/pkg/material"
)

// SphereLight represents a spherical area light
type SphereLight struct {
	*geometry.Sphere
	Emission core.Vec3
}

// NewSphereLight creates a new spherical light
func NewSphereLight(center core.Vec3, radius float64, emission core.Vec3) *SphereLight {
	return &SphereLight{
		Sphere:   geometry.NewSphere(center, radius, material.NewEmissive(emission)),
		Emission: emission,
	}
}

func (sl *SphereLight) Type() LightType {
	return LightTypeArea
}

// Geometry returns the sphere the path tracer intersects
func (sl *SphereLight) Geometry() geometry.Shape {
	return sl.Sphere
}

// Sample implements the Light interface - samples a point on the sphere for direct lighting
func (sl *SphereLight) Sample(point core.Vec3, sample core.Vec2) LightSample {
	if sl.Center.Subtract(point).Length() <= sl.Radius {
		return sl.sampleUniform(point, sample)
	}

	// Sample the cone subtended by the sphere
	return sl.sampleVisible(point, sample)
}

// sampleUniform samples uniformly on the entire sphere surface, converting to solid angle
func (sl *SphereLight) sampleUniform(point core.Vec3, sample core.Vec2) LightSample {
	samplePoint, normal, areaPDF := sl.SampleSurface(sample)

	toLight := samplePoint.Subtract(point)
	distance := toLight.Length()
	if distance < 1e-9 {
		return LightSample{}
	}
	direction := toLight.Multiply(1.0 / distance)
	cosTheta := math.Abs(direction.Dot(normal))
	if cosTheta < 1e-8 {
		return LightSample{}
	}

	// From inside, the inner face is a back face
	return LightSample{
		Point:     samplePoint,
		Normal:    normal,
		Direction: direction,
		Distance:  distance,
		PDF:       areaPDF * distance * distance / cosTheta,
	}
}

// sampleVisible samples only the visible cap of the sphere as seen from the shading point
func (sl *SphereLight) sampleVisible(point core.Vec3, sample core.Vec2) LightSample {
	toCenter := sl.Center.Subtract(point)
	distanceToCenter := toCenter.Length()

	sinThetaMax := sl.Radius / distanceToCenter
	cosThetaMax := math.Sqrt(math.Max(0, 1.0-sinThetaMax*sinThetaMax))

	direction := core.SampleCone(toCenter.Multiply(1.0/distanceToCenter), cosThetaMax, sample)

	hit, ok := sl.Sphere.Hit(core.NewRay(point, direction), 1e-6, math.Inf(1))
	if !ok {
		// Grazing directions can miss by rounding
		return LightSample{}
	}

	return LightSample{
		Point:     hit.Point,
		Normal:    hit.OutwardNormal(),
		Direction: direction,
		Distance:  hit.T,
		Emission:  sl.Emission,
		PDF:       UniformConePDF(cosThetaMax),
	}
}

// PDF implements the Light interface - returns the probability density for sampling a given direction
func (sl *SphereLight) PDF(point, direction core.Vec3) float64 {
	hit, ok := sl.Sphere.Hit(core.NewRay(point, direction), 1e-6, math.Inf(1))
	if !ok {
		return 0.0
	}

	toCenter := sl.Center.Subtract(point)
	distanceToCenter := toCenter.Length()

	if distanceToCenter <= sl.Radius {
		d := direction.Normalize()
		cosTheta := math.Abs(d.Dot(hit.OutwardNormal()))
		if cosTheta < 1e-8 {
			return 0.0
		}
		distance := hit.Point.Subtract(point).Length()
		return distance * distance / (cosTheta * sl.Area())
	}

	sinThetaMax := sl.Radius / distanceToCenter
	cosThetaMax := math.Sqrt(math.Max(0, 1.0-sinThetaMax*sinThetaMax))
	return UniformConePDF(cosThetaMax)
}

// SamplePhoton emits a photon from a uniform surface point with a cosine-weighted direction
func (sl *SphereLight) SamplePhoton(samplePoint, sampleDirection core.Vec2) PhotonSample {
	origin, normal, _ := sl.SampleSurface(samplePoint)
	direction := core.SampleCosineHemisphere(normal, sampleDirection)
	return PhotonSample{
		Ray:   core.NewRay(origin, direction),
		Power: sl.Power(),
	}
}

// Power returns Le · A · π
func (sl *SphereLight) Power() core.Vec3 {
	return sl.Emission.Multiply(sl.Area() * math.Pi)
}
