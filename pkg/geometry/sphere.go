package geometry

import (
	"math"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/material"
	"github.com/df07/go-volumetric-raytracer/pkg/medium"
)

// Sphere represents a sphere shape, optionally enclosing a medium
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
	Medium   medium.Medium
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// AttachMedium fills the sphere with m
func (s *Sphere) AttachMedium(m medium.Medium) error {
	attached, err := attachMedium(s, m)
	if err != nil {
		return err
	}
	s.Medium = attached
	return nil
}

// Interior returns the enclosed medium, nil for none
func (s *Sphere) Interior() medium.Medium {
	return s.Medium
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*Hit, bool) {
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return nil, false
		}
	}

	hit := &Hit{Shape: s, Medium: s.Medium}
	hit.T = root
	hit.Point = ray.At(root)
	hit.Material = s.Material

	outwardNormal := hit.Point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	hit.SetFaceNormal(ray, outwardNormal)
	hit.UV = sphereUV(outwardNormal)

	return hit, true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}

// SampleVolume draws a point uniformly inside the ball
func (s *Sphere) SampleVolume(sample core.Vec3) (core.Vec3, float64) {
	p := s.Center.Add(core.SamplePointInUnitSphere(sample).Multiply(s.Radius))
	return p, 1.0 / s.Volume()
}

// SampleSurface draws a point uniformly on the sphere, returning its outward normal and area pdf
func (s *Sphere) SampleSurface(sample core.Vec2) (core.Vec3, core.Vec3, float64) {
	normal := core.SampleOnUnitSphere(sample)
	return s.Center.Add(normal.Multiply(s.Radius)), normal, 1.0 / s.Area()
}

// Volume returns 4/3 π r³
func (s *Sphere) Volume() float64 {
	return 4.0 / 3.0 * math.Pi * s.Radius * s.Radius * s.Radius
}

// Area returns 4 π r²
func (s *Sphere) Area() float64 {
	return 4.0 * math.Pi * s.Radius * s.Radius
}

// sphereUV maps a unit direction to longitude/latitude texture coordinates
func sphereUV(n core.Vec3) core.Vec2 {
	theta := math.Acos(max(-1, min(1, -n.Y)))
	phi := math.Atan2(-n.Z, n.X) + math.Pi
	return core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
}
