package scene

import (
	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/geometry"
	"github.com/df07/go-volumetric-raytracer/pkg/lights"
	"github.com/df07/go-volumetric-raytracer/pkg/material"
	"github.com/df07/go-volumetric-raytracer/pkg/medium"
	"github.com/df07/go-volumetric-raytracer/pkg/phase"
)

// NewFogLanternScene places the camera inside a bank of bluish fog lit by a lantern
// and a distant point light. Extinction differs per channel.
func NewFogLanternScene(opts Options) (*Scene, error) {
	cameraConfig := mergeCamera(geometry.CameraConfig{
		Center:      core.NewVec3(0, 1.5, -5),
		LookAt:      core.NewVec3(0, 1, 1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       480,
		AspectRatio: 16.0 / 9.0,
		VFov:        50.0,
	}, opts)

	s := &Scene{
		Camera:       geometry.NewCamera(cameraConfig),
		CameraConfig: cameraConfig,
		Shapes:       make([]geometry.Shape, 0),
		Lights:       make([]lights.Light, 0),
		SamplingConfig: SamplingConfig{
			SamplesPerPixel:           96,
			MaxDepth:                  24,
			RussianRouletteMinBounces: 3,
		},
	}

	s.Shapes = append(s.Shapes,
		NewGroundQuad(core.Vec3{}, 12, material.NewTexturedLambertian(groundTexture(opts))),
		geometry.NewBox(core.NewVec3(-1.5, 0.75, 2), core.NewVec3(0.5, 0.75, 0.5), material.NewLambertian(core.NewVec3(0.5, 0.35, 0.25))),
		geometry.NewSphere(core.NewVec3(1.6, 0.7, 1.5), 0.7, material.NewMetal(core.NewVec3(0.75, 0.75, 0.8), 0.2)),
	)

	s.AddSphereLight(core.NewVec3(0.2, 1.2, 1), 0.15, core.NewVec3(60, 42, 20))
	s.AddPointLight(core.NewVec3(-3, 4.5, 5), core.NewVec3(12, 13, 16))

	hg, err := phase.NewHenyeyGreenstein(0.6)
	if err != nil {
		return nil, err
	}
	fog, err := medium.NewHomogeneousFromAlbedo(core.NewVec3(0.06, 0.08, 0.11), core.NewGray(0.95), hg)
	if err != nil {
		return nil, err
	}
	// The fog bank reaches just below the ground so the floor sits inside it
	bank := geometry.NewBoxFromBounds(core.NewAABB(core.NewVec3(-6, -0.01, -6), core.NewVec3(6, 6, 6)), material.NewNull())
	if err := s.AddMediumShape(bank, fog); err != nil {
		return nil, err
	}
	s.CameraMedium = fog

	return s, nil
}
