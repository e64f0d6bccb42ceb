package scene

import (
	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/geometry"
	"github.com/df07/go-volumetric-raytracer/pkg/lights"
	"github.com/df07/go-volumetric-raytracer/pkg/material"
	"github.com/df07/go-volumetric-raytracer/pkg/medium"
	"github.com/df07/go-volumetric-raytracer/pkg/phase"
)

// cornellSize is the edge length of the box, which spans x,z in [-1, 1] and y in [0, 2]
const cornellSize = 2.0

// NewFoggyCornellScene creates a Cornell box filled with forward-scattering fog,
// holding a mirror sphere and a glass sphere
func NewFoggyCornellScene(opts Options) (*Scene, error) {
	cameraConfig := mergeCamera(geometry.CameraConfig{
		Center:      core.NewVec3(0, 1, -3.8),
		LookAt:      core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 1.0,
		VFov:        40.0,
	}, opts)

	s := &Scene{
		Camera:       geometry.NewCamera(cameraConfig),
		CameraConfig: cameraConfig,
		Shapes:       make([]geometry.Shape, 0),
		Lights:       make([]lights.Light, 0),
		SamplingConfig: SamplingConfig{
			SamplesPerPixel:           128,
			MaxDepth:                  32,
			RussianRouletteMinBounces: 3,
		},
	}

	addCornellWalls(s)

	// Ceiling light, just below the ceiling and facing down
	lightSize := 0.5
	lightOffset := -lightSize / 2
	s.AddQuadLight(
		core.NewVec3(lightOffset, cornellSize-0.005, lightOffset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		core.NewVec3(17, 15, 12),
	)

	hg, err := phase.NewHenyeyGreenstein(0.3)
	if err != nil {
		return nil, err
	}
	fog, err := medium.NewHomogeneousFromAlbedo(core.NewVec3(0.25, 0.3, 0.35), core.NewGray(0.9), hg)
	if err != nil {
		return nil, err
	}
	fogBounds := core.NewAABB(core.NewVec3(-0.99, 0.01, -0.99), core.NewVec3(0.99, cornellSize-0.02, 0.99))
	if err := s.AddMediumShape(geometry.NewBoxFromBounds(fogBounds, material.NewNull()), fog); err != nil {
		return nil, err
	}

	s.Shapes = append(s.Shapes, geometry.NewSphere(
		core.NewVec3(-0.4, 0.35, 0.3), 0.33,
		material.NewMetal(core.NewVec3(0.8, 0.8, 0.9), 0.0),
	))

	// The glass encloses clear space, so paths inside it leave the fog
	clear, err := medium.NewHomogeneous(core.Vec3{}, core.Vec3{}, phase.NewIsotropic())
	if err != nil {
		return nil, err
	}
	glass := geometry.NewSphere(core.NewVec3(0.45, 0.4, -0.25), 0.38, material.NewDielectric(1.5))
	if err := s.AddMediumShape(glass, clear); err != nil {
		return nil, err
	}

	return s, nil
}

// addCornellWalls adds floor, ceiling, back, red left and green right walls; the front is open
func addCornellWalls(s *Scene) {
	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))

	half := cornellSize / 2

	floor := geometry.NewQuad(
		core.NewVec3(-half, 0, -half),
		core.NewVec3(0, 0, cornellSize),
		core.NewVec3(cornellSize, 0, 0),
		white,
	)
	ceiling := geometry.NewQuad(
		core.NewVec3(-half, cornellSize, -half),
		core.NewVec3(cornellSize, 0, 0),
		core.NewVec3(0, 0, cornellSize),
		white,
	)
	backWall := geometry.NewQuad(
		core.NewVec3(-half, 0, half),
		core.NewVec3(cornellSize, 0, 0),
		core.NewVec3(0, cornellSize, 0),
		white,
	)
	leftWall := geometry.NewQuad(
		core.NewVec3(-half, 0, -half),
		core.NewVec3(0, 0, cornellSize),
		core.NewVec3(0, cornellSize, 0),
		red,
	)
	rightWall := geometry.NewQuad(
		core.NewVec3(half, 0, -half),
		core.NewVec3(0, cornellSize, 0),
		core.NewVec3(0, 0, cornellSize),
		green,
	)

	s.Shapes = append(s.Shapes, floor, ceiling, backWall, leftWall, rightWall)
}
