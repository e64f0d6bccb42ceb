package lights

import (
	"math"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
)

// PointLight is an isotropic delta light
type PointLight struct {
	Position  core.Vec3
	Intensity core.Vec3 // Radiant intensity, flux per steradian
}

func NewPointLight(position, intensity core.Vec3) *PointLight {
	return &PointLight{Position: position, Intensity: intensity}
}

func (pl *PointLight) Type() LightType {
	return LightTypePoint
}

// Sample returns the only direction toward the light with inverse-square falloff folded into Emission
func (pl *PointLight) Sample(point core.Vec3, sample core.Vec2) LightSample {
	toLight := pl.Position.Subtract(point)
	distance := toLight.Length()
	if distance < 1e-9 {
		return LightSample{}
	}

	return LightSample{
		Point:     pl.Position,
		Direction: toLight.Multiply(1.0 / distance),
		Distance:  distance,
		Emission:  pl.Intensity.Multiply(1.0 / (distance * distance)),
		PDF:       1.0,
		Delta:     true,
	}
}

// PDF is zero: no scattered direction can hit a point
func (pl *PointLight) PDF(point, direction core.Vec3) float64 {
	return 0.0
}

func (pl *PointLight) SamplePhoton(samplePoint, sampleDirection core.Vec2) PhotonSample {
	return PhotonSample{
		Ray:   core.NewRay(pl.Position, core.SampleOnUnitSphere(sampleDirection)),
		Power: pl.Power(),
	}
}

// Power returns 4π · I
func (pl *PointLight) Power() core.Vec3 {
	return pl.Intensity.Multiply(4.0 * math.Pi)
}
