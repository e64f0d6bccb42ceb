package scene

import (
	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/geometry"
	"github.com/df07/go-volumetric-raytracer/pkg/lights"
	"github.com/df07/go-volumetric-raytracer/pkg/material"
)

// NewCausticGlassScene creates glass balls over a diffuse floor lit by a point light.
// The caustics under the glass are what the photon mapper is for.
func NewCausticGlassScene(opts Options) (*Scene, error) {
	cameraConfig := mergeCamera(geometry.CameraConfig{
		Center:      core.NewVec3(-4, 4.5, -6),
		LookAt:      core.NewVec3(0, 0.7, 0.5),
		Up:          core.NewVec3(0, 1, 0),
		Width:       420,
		AspectRatio: 7.0 / 5.0,
		VFov:        40.0,
	}, opts)

	s := &Scene{
		Camera:       geometry.NewCamera(cameraConfig),
		CameraConfig: cameraConfig,
		Shapes:       make([]geometry.Shape, 0),
		Lights:       make([]lights.Light, 0),
		SamplingConfig: SamplingConfig{
			SamplesPerPixel:           256,
			MaxDepth:                  20,
			RussianRouletteMinBounces: 10,
		},
	}

	floor := material.NewTexturedLambertian(groundTexture(opts))
	wall := material.NewLambertian(core.NewVec3(0.64, 0.64, 0.64))
	s.Shapes = append(s.Shapes,
		NewGroundQuad(core.Vec3{}, 16, floor),
		geometry.NewQuad(core.NewVec3(-8, 0, 4), core.NewVec3(16, 0, 0), core.NewVec3(0, 8, 0), wall),
		geometry.NewSphere(core.NewVec3(0, 1, 0.5), 1, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(1.9, 0.5, -0.6), 0.5, material.NewDielectric(1.25)),
		geometry.NewSphere(core.NewVec3(-1.9, 0.6, 1.2), 0.6, material.NewMetal(core.NewVec3(0.9, 0.85, 0.8), 0.05)),
	)

	// Warm key light behind and above the glass, plus a small visible lamp
	s.AddPointLight(core.NewVec3(0.5, 5, 3.5), core.NewVec3(28, 23.7, 21.1))
	s.AddSphereLight(core.NewVec3(-3, 3.5, 3), 0.2, core.NewVec3(20, 20, 24))

	return s, nil
}
