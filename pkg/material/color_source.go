package material

import (
	"math"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
)

// ColorSource provides spatially-varying colors for materials
type ColorSource interface {
	// Evaluate returns color at given UV coordinates and 3D point
	// UV is used for image textures, point for procedural textures
	Evaluate(uv core.Vec2, point core.Vec3) core.Vec3
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of UV or position
func (s *SolidColor) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	return s.Color
}

// Checker alternates two colors on a world-space 3D grid
type Checker struct {
	Even, Odd core.Vec3
	Size      float64
}

// NewChecker creates a world-space checker pattern with cells of the given size
func NewChecker(even, odd core.Vec3, size float64) *Checker {
	return &Checker{Even: even, Odd: odd, Size: size}
}

// Evaluate picks the cell color at point
func (c *Checker) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	cell := math.Floor(point.X/c.Size) + math.Floor(point.Y/c.Size) + math.Floor(point.Z/c.Size)
	if int(cell)%2 == 0 {
		return c.Even
	}
	return c.Odd
}
