package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/geometry"
	"github.com/df07/go-volumetric-raytracer/pkg/lights"
	"github.com/df07/go-volumetric-raytracer/pkg/material"
	"github.com/df07/go-volumetric-raytracer/pkg/medium"
)

// ErrOverlappingMedia is returned when two medium boundaries partially overlap
var ErrOverlappingMedia = errors.New("scene: medium boundaries overlap without nesting")

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	CameraMedium   medium.Medium                    // Medium the camera sits in, nil for vacuum
	Shapes         []geometry.Shape                 // Objects in the scene
	Lights         []lights.Light                   // Lights in the scene
	LightSampler   lights.LightSampler              // Light selection for direct lighting
	EmissiveMedia  []medium.EmissiveMedium          // Collected from shapes by Preprocess
	SamplingConfig SamplingConfig
	BVH            *geometry.BVH // Acceleration structure for ray-object intersection

	lightIndex    map[geometry.Shape]int
	mediumShapes  map[medium.Medium]geometry.Shape
	emitterChoice float64 // probability of sampling a surface light over an emissive medium
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width                     int   // Image width
	Height                    int   // Image height
	SamplesPerPixel           int   // Number of rays per pixel
	MaxDepth                  int   // Maximum scattering events per path
	RussianRouletteMinBounces int   // Bounces before Russian roulette in the scattering-only estimator
	Seed                      int64 // Base seed for per-path sample streams
}

// DefaultSamplingConfig returns the settings used when a scene does not override them
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:                     400,
		Height:                    400,
		SamplesPerPixel:           64,
		MaxDepth:                  64,
		RussianRouletteMinBounces: 3,
	}
}

// NewGroundQuad creates a large horizontal quad centered at the given point with normal pointing up
func NewGroundQuad(center core.Vec3, size float64, material material.Material) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v = (0,0,size) × (size,0,0) points along +Y
	return geometry.NewQuad(corner, core.NewVec3(0, 0, size), core.NewVec3(size, 0, 0), material)
}

// AddLight adds a light, registering its surface as a shape for area lights
func (s *Scene) AddLight(light lights.Light) {
	s.Lights = append(s.Lights, light)
	if area, ok := light.(lights.AreaLight); ok {
		s.Shapes = append(s.Shapes, area.Geometry())
	}
}

// AddSphereLight adds a spherical light to the scene
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, emission core.Vec3) {
	s.AddLight(lights.NewSphereLight(center, radius, emission))
}

// AddQuadLight adds a rectangular area light to the scene
func (s *Scene) AddQuadLight(corner, u, v core.Vec3, emission core.Vec3) {
	s.AddLight(lights.NewQuadLight(corner, u, v, emission))
}

// AddPointLight adds an isotropic point light to the scene
func (s *Scene) AddPointLight(position, intensity core.Vec3) {
	s.AddLight(lights.NewPointLight(position, intensity))
}

// AddMediumShape fills shape with m and adds it to the scene
func (s *Scene) AddMediumShape(shape interface {
	geometry.Shape
	AttachMedium(medium.Medium) error
}, m medium.Medium) error {
	if err := shape.AttachMedium(m); err != nil {
		return err
	}
	s.Shapes = append(s.Shapes, shape)
	return nil
}

// Preprocess validates media and builds the acceleration structure and light tables
func (s *Scene) Preprocess() error {
	if s.Camera == nil {
		s.Camera = geometry.NewCamera(s.CameraConfig)
	}
	if s.SamplingConfig.Width == 0 {
		s.SamplingConfig.Width, s.SamplingConfig.Height = s.Camera.ImageSize()
	}

	if err := s.collectMedia(); err != nil {
		return err
	}
	if s.CameraMedium != nil {
		if err := s.CameraMedium.Validate(); err != nil {
			return fmt.Errorf("camera medium: %w", err)
		}
	}

	s.BVH = geometry.NewBVH(s.Shapes)

	s.lightIndex = make(map[geometry.Shape]int)
	for i, light := range s.Lights {
		if area, ok := light.(lights.AreaLight); ok {
			s.lightIndex[area.Geometry()] = i
		}
	}
	if s.LightSampler == nil {
		s.LightSampler = lights.NewUniformLightSampler(s.Lights)
	}

	switch {
	case len(s.EmissiveMedia) == 0:
		s.emitterChoice = 1
	case len(s.Lights) == 0:
		s.emitterChoice = 0
	default:
		s.emitterChoice = 0.5
	}

	return nil
}

// collectMedia validates every medium-filled shape, rejects partial overlaps
// and gathers the emissive media used as light sources
func (s *Scene) collectMedia() error {
	s.EmissiveMedia = s.EmissiveMedia[:0]
	s.mediumShapes = make(map[medium.Medium]geometry.Shape)

	var bounded []geometry.MediumShape
	for _, shape := range s.Shapes {
		ms, ok := shape.(geometry.MediumShape)
		if !ok || ms.Interior() == nil {
			continue
		}
		m := ms.Interior()
		if err := m.Validate(); err != nil {
			return fmt.Errorf("medium in shape %d: %w", len(bounded), err)
		}
		if em, ok := m.(medium.EmissiveMedium); ok {
			s.EmissiveMedia = append(s.EmissiveMedia, em)
		}
		s.mediumShapes[m] = shape
		bounded = append(bounded, ms)
	}

	for i := range bounded {
		for j := i + 1; j < len(bounded); j++ {
			if geometry.Relate(bounded[i], bounded[j]) == geometry.Intersecting {
				return fmt.Errorf("shapes %d and %d: %w", i, j, ErrOverlappingMedia)
			}
		}
	}
	return nil
}

// Intersect returns the closest surface hit along ray within [tMin, tMax]
func (s *Scene) Intersect(ray core.Ray, tMin, tMax float64) (*geometry.Hit, bool) {
	return s.BVH.Hit(ray, tMin, tMax)
}

// IntersectExcluding reports whether any shape other than exclude blocks ray within [tMin, tMax]
func (s *Scene) IntersectExcluding(ray core.Ray, tMin, tMax float64, exclude geometry.Shape) bool {
	return s.BVH.HitExcluding(ray, tMin, tMax, exclude)
}

// LightCount returns the number of lights
func (s *Scene) LightCount() int {
	return len(s.Lights)
}

// RandomLight picks a light with the scene's light sampler
func (s *Scene) RandomLight(point core.Vec3, u float64) (lights.Light, float64) {
	if len(s.Lights) == 0 {
		return nil, 0
	}
	light, pdf, _ := s.LightSampler.SampleLight(point, u)
	return light, pdf
}

// EmissiveMediumCount returns the number of emissive media
func (s *Scene) EmissiveMediumCount() int {
	return len(s.EmissiveMedia)
}

// RandomEmissiveMedium picks an emissive medium uniformly
func (s *Scene) RandomEmissiveMedium(u float64) (medium.EmissiveMedium, float64) {
	n := len(s.EmissiveMedia)
	if n == 0 {
		return nil, 0
	}
	return s.EmissiveMedia[min(int(u*float64(n)), n-1)], 1.0 / float64(n)
}

// SampleEmitter chooses between surface lights (true) and emissive media (false)
func (s *Scene) SampleEmitter(u float64) bool {
	return u < s.emitterChoice
}

// EmitterProbability returns the probability SampleEmitter picks the given kind
func (s *Scene) EmitterProbability(surface bool) float64 {
	if surface {
		return s.emitterChoice
	}
	return 1 - s.emitterChoice
}

// LightForShape returns the light whose surface is shape and its selection probability from point
func (s *Scene) LightForShape(shape geometry.Shape, point core.Vec3) (lights.Light, float64, bool) {
	index, ok := s.lightIndex[shape]
	if !ok {
		return nil, 0, false
	}
	return s.Lights[index], s.LightSampler.LightProbability(index, point), true
}

// MediumShape returns the shape bounding m
func (s *Scene) MediumShape(m medium.Medium) geometry.Shape {
	return s.mediumShapes[m]
}

// Bounds returns the bounding box of every shape
func (s *Scene) Bounds() core.AABB {
	if s.BVH == nil || s.BVH.Root == nil {
		return core.AABB{}
	}
	return s.BVH.BoundingBox()
}

// PrimitiveCount returns the number of top-level shapes
func (s *Scene) PrimitiveCount() int {
	return len(s.Shapes)
}
