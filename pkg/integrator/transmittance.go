package integrator

import (
	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/material"
	"github.com/df07/go-volumetric-raytracer/pkg/medium"
	"github.com/df07/go-volumetric-raytracer/pkg/scene"
)

// maxShadowSegments caps the media boundaries a shadow ray may cross
const maxShadowSegments = 30

// transmittance estimates the transmittance from origin to the point distance along dir,
// crossing null surfaces and multiplying the transmittance of every medium segment.
// Any other surface blocks the ray. The stack is advanced in place.
func transmittance(sc *scene.Scene, stack *medium.Stack, origin, dir core.Vec3, distance float64, sampler core.Sampler) core.Vec3 {
	tr := one
	for i := 0; i < maxShadowSegments; i++ {
		ray := core.NewRay(origin, dir)
		hit, blocked := sc.Intersect(ray, rayEpsilon, distance-rayEpsilon)

		segment := distance
		if blocked {
			segment = hit.T
		}
		if m := stack.Top(); m != nil {
			tr = tr.MultiplyVec(m.Transmittance(origin, ray.At(segment), sampler))
			if tr.IsZero() {
				return tr
			}
		}

		if !blocked {
			return tr
		}
		if !material.IsPassThrough(hit.Material) {
			return core.Vec3{}
		}
		stack.Transition(hit.Medium, dir.Dot(hit.OutwardNormal()))
		origin = hit.Point
		distance -= hit.T
	}
	return core.Vec3{}
}
