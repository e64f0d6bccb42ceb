// Package phase provides phase functions, the medium counterpart of BSDFs.
//
// Directions follow the medium query convention: wi points back toward where
// the light path came from, wo is the sampled continuation direction.
package phase

import "github.com/df07/go-volumetric-raytracer/pkg/core"

// PhaseFunction samples and evaluates scattering directions inside a medium
type PhaseFunction interface {
	// Sample draws an outgoing direction for incoming direction wi.
	// The returned weight is Evaluate/PDF of the drawn direction.
	Sample(wi core.Vec3, sample core.Vec2) (wo core.Vec3, weight float64)

	// Evaluate returns the phase function value for the direction pair
	Evaluate(wi, wo core.Vec3) float64

	// PDF returns the solid-angle density Sample would draw wo with
	PDF(wi, wo core.Vec3) float64
}
