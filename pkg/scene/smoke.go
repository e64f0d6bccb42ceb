package scene

import (
	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/geometry"
	"github.com/df07/go-volumetric-raytracer/pkg/lights"
	"github.com/df07/go-volumetric-raytracer/pkg/material"
	"github.com/df07/go-volumetric-raytracer/pkg/medium"
	"github.com/df07/go-volumetric-raytracer/pkg/phase"
	"github.com/df07/go-volumetric-raytracer/pkg/volume"
)

// NewSmokeScene creates a ball of heterogeneous smoke resting on a checkered floor.
// The density settles toward the bottom of the ball unless opts.Density supplies a grid.
func NewSmokeScene(opts Options) (*Scene, error) {
	cameraConfig := mergeCamera(geometry.CameraConfig{
		Center:      core.NewVec3(0, 1.4, -5),
		LookAt:      core.NewVec3(0, 0.9, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       480,
		AspectRatio: 4.0 / 3.0,
		VFov:        35.0,
	}, opts)

	s := &Scene{
		Camera:       geometry.NewCamera(cameraConfig),
		CameraConfig: cameraConfig,
		Shapes:       make([]geometry.Shape, 0),
		Lights:       make([]lights.Light, 0),
		SamplingConfig: SamplingConfig{
			SamplesPerPixel:           128,
			MaxDepth:                  24,
			RussianRouletteMinBounces: 3,
		},
	}

	floor := material.NewTexturedLambertian(groundTexture(opts))
	s.Shapes = append(s.Shapes, NewGroundQuad(core.Vec3{}, 20, floor))

	s.AddQuadLight(
		core.NewVec3(-2.5, 4, -1),
		core.NewVec3(1.5, 0, 0),
		core.NewVec3(0, -0.5, 1.5),
		core.NewVec3(12, 11, 10),
	)

	density := opts.Density
	if density == nil {
		density = volume.NewHeight(1.0)
	}
	hg, err := phase.NewHenyeyGreenstein(0.2)
	if err != nil {
		return nil, err
	}
	smoke, err := medium.NewHeterogeneous(medium.HeterogeneousConfig{
		Density: density,
		Albedo:  volume.NewConstantRGB(core.NewVec3(0.85, 0.85, 0.8)),
		Scale:   4.0,
		Phase:   hg,
	})
	if err != nil {
		return nil, err
	}

	ball := geometry.NewSphere(core.NewVec3(0, 1, 0), 1, material.NewNull())
	if err := s.AddMediumShape(ball, smoke); err != nil {
		return nil, err
	}

	return s, nil
}

// groundTexture returns the configured texture or a grey checker
func groundTexture(opts Options) material.ColorSource {
	if opts.GroundTexture != nil {
		return opts.GroundTexture
	}
	return material.NewChecker(core.NewGray(0.7), core.NewGray(0.3), 0.5)
}
