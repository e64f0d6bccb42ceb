package geometry

import (
	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/material"
	"github.com/df07/go-volumetric-raytracer/pkg/medium"
)

// Shape interface for objects that can be hit by rays
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*Hit, bool)
	BoundingBox() core.AABB
}

// Hit is a surface interaction together with the identity of the shape hit
// and the medium it encloses (nil when the shape bounds no medium)
type Hit struct {
	material.SurfaceInteraction
	Shape  Shape
	Medium medium.Medium
}

// VolumeShape is a closed shape that can bound a participating medium
type VolumeShape interface {
	Shape
	medium.Boundary
}

// MediumShape is a shape that may enclose a medium
type MediumShape interface {
	VolumeShape
	Interior() medium.Medium
}

// attachMedium binds m to shape and returns it for storage on the shape
func attachMedium(shape VolumeShape, m medium.Medium) (medium.Medium, error) {
	if m == nil {
		return nil, nil
	}
	if err := m.AttachBoundary(shape); err != nil {
		return nil, err
	}
	return m, nil
}
