package geometry

import (
	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/material"
	"github.com/df07/go-volumetric-raytracer/pkg/medium"
)

// Box represents an axis-aligned box made up of 6 outward-facing quads
type Box struct {
	Center   core.Vec3         // Center point of the box
	Size     core.Vec3         // Half-extents along each axis
	Material material.Material // Material for all faces
	Medium   medium.Medium     // Medium filling the box, if any
	faces    [6]*Quad
	bbox     core.AABB
}

// NewBox creates a new box. Size holds half-extents, so (1,1,1) creates a 2x2x2 box.
func NewBox(center, size core.Vec3, material material.Material) *Box {
	box := &Box{
		Center:   center,
		Size:     size,
		Material: material,
	}
	box.generateFaces()
	return box
}

// NewBoxFromBounds creates a box covering the given AABB
func NewBoxFromBounds(bounds core.AABB, material material.Material) *Box {
	return NewBox(bounds.Center(), bounds.Size().Multiply(0.5), material)
}

// AttachMedium fills the box with m
func (b *Box) AttachMedium(m medium.Medium) error {
	attached, err := attachMedium(b, m)
	if err != nil {
		return err
	}
	b.Medium = attached
	return nil
}

func (b *Box) Interior() medium.Medium {
	return b.Medium
}

// generateFaces creates the 6 quad faces of the box
func (b *Box) generateFaces() {
	corners := [8]core.Vec3{
		core.NewVec3(-1, -1, -1), // 0: left-bottom-back
		core.NewVec3(1, -1, -1),  // 1: right-bottom-back
		core.NewVec3(1, 1, -1),   // 2: right-top-back
		core.NewVec3(-1, 1, -1),  // 3: left-top-back
		core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
		core.NewVec3(1, -1, 1),   // 5: right-bottom-front
		core.NewVec3(1, 1, 1),    // 6: right-top-front
		core.NewVec3(-1, 1, 1),   // 7: left-top-front
	}
	for i := range corners {
		corners[i] = corners[i].MultiplyVec(b.Size).Add(b.Center)
	}

	// Each face is a corner and two edges whose cross product points outward
	faces := [6][3]int{
		{4, 5, 7}, // Front (Z+)
		{1, 0, 2}, // Back (Z-)
		{5, 1, 6}, // Right (X+)
		{0, 4, 3}, // Left (X-)
		{3, 7, 2}, // Top (Y+)
		{4, 0, 5}, // Bottom (Y-)
	}
	for i, f := range faces {
		origin := corners[f[0]]
		b.faces[i] = NewQuad(origin, corners[f[1]].Subtract(origin), corners[f[2]].Subtract(origin), b.Material)
	}

	b.bbox = core.NewAABB(b.Center.Subtract(b.Size), b.Center.Add(b.Size))
}

// Hit tests the ray against all faces and reports the box as the hit shape
func (b *Box) Hit(ray core.Ray, tMin, tMax float64) (*Hit, bool) {
	if !b.bbox.Expand(1e-4).Hit(ray, tMin, tMax) {
		return nil, false
	}

	var closestHit *Hit
	closestT := tMax
	for _, face := range b.faces {
		if hit, isHit := face.Hit(ray, tMin, closestT); isHit {
			closestT = hit.T
			closestHit = hit
		}
	}
	if closestHit == nil {
		return nil, false
	}

	closestHit.Shape = b
	closestHit.Medium = b.Medium
	return closestHit, true
}

// BoundingBox returns the axis-aligned bounding box for this box
func (b *Box) BoundingBox() core.AABB {
	return b.bbox
}

// SampleVolume draws a point uniformly inside the box
func (b *Box) SampleVolume(sample core.Vec3) (core.Vec3, float64) {
	p := b.bbox.Min.Add(b.bbox.Size().MultiplyVec(sample))
	return p, 1.0 / b.bbox.Volume()
}
