package integrator

import (
	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving along ray.
	// The sampler must not be shared with concurrent calls.
	RayColor(ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Vec3
}

// rayEpsilon offsets secondary rays from the surfaces they leave
const rayEpsilon = 1e-4

var one = core.NewGray(1)
