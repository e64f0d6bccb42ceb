package lights

import (
	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/geometry"
)

type LightType string

const (
	LightTypeArea  LightType = "area"
	LightTypePoint LightType = "point"
)

// Light interface for objects that can be sampled for direct lighting
type Light interface {
	Type() LightType

	// Sample samples light toward a specific point for direct lighting.
	// Returns LightSample with direction FROM the shading point TO the light.
	// The PDF is per unit solid angle as seen from point; delta lights report 1.
	Sample(point core.Vec3, sample core.Vec2) LightSample

	// PDF returns the solid angle density Sample would assign to direction from point
	PDF(point, direction core.Vec3) float64

	// SamplePhoton emits a photon leaving the light, carrying the light's share of Power
	SamplePhoton(samplePoint, sampleDirection core.Vec2) PhotonSample

	// Power is the total flux leaving the light
	Power() core.Vec3
}

// AreaLight is a light with a surface the path tracer can hit
type AreaLight interface {
	Light
	Geometry() geometry.Shape
}

// LightSample contains information about a sampled point on a light
type LightSample struct {
	Point     core.Vec3 // Point on the light source
	Normal    core.Vec3 // Normal at the light sample point
	Direction core.Vec3 // Direction from shading point to light
	Distance  float64   // Distance to light
	Emission  core.Vec3 // Incident radiance (or intensity/d² for delta lights)
	PDF       float64   // Probability density of this sample
	Delta     bool      // The sample cannot be hit by a scattered ray
}

// PhotonSample is a photon leaving a light
type PhotonSample struct {
	Ray   core.Ray
	Power core.Vec3 // Flux carried, already divided by the sampling densities
}

// IsDelta reports whether light is a delta light
func IsDelta(light Light) bool {
	return light.Type() == LightTypePoint
}

// LightSampler interface for different light sampling strategies
type LightSampler interface {
	// SampleLight selects a light for the given point and returns the light, selection probability, and light index
	SampleLight(point core.Vec3, u float64) (Light, float64, int)

	// SampleLightEmission selects a light for photon emission
	SampleLightEmission(u float64) (Light, float64, int)

	// LightProbability returns the selection probability for a specific light at a point
	LightProbability(lightIndex int, point core.Vec3) float64

	// LightCount returns the number of lights in this sampler
	LightCount() int
}
