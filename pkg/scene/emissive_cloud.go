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

// NewEmissiveCloudScene creates a clumpy cloud of glowing gas above a floor, next to a
// lacquered ball and a dim blue panel light. Best rendered with the emissive-medium integrator.
func NewEmissiveCloudScene(opts Options) (*Scene, error) {
	cameraConfig := mergeCamera(geometry.CameraConfig{
		Center:      core.NewVec3(0, 1.5, -5.5),
		LookAt:      core.NewVec3(0, 1.1, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       480,
		AspectRatio: 4.0 / 3.0,
		VFov:        38.0,
	}, opts)

	s := &Scene{
		Camera:       geometry.NewCamera(cameraConfig),
		CameraConfig: cameraConfig,
		Shapes:       make([]geometry.Shape, 0),
		Lights:       make([]lights.Light, 0),
		SamplingConfig: SamplingConfig{
			SamplesPerPixel:           128,
			MaxDepth:                  16,
			RussianRouletteMinBounces: 3,
		},
	}

	s.Shapes = append(s.Shapes,
		NewGroundQuad(core.Vec3{}, 20, material.NewTexturedLambertian(groundTexture(opts))),
		geometry.NewSphere(core.NewVec3(1.6, 0.45, 0.8), 0.45, material.NewDisney(material.DisneyConfig{
			BaseColor:      material.NewSolidColor(core.NewVec3(0.7, 0.7, 0.75)),
			Roughness:      0.35,
			Specular:       0.5,
			Sheen:          0.3,
			Clearcoat:      0.8,
			ClearcoatGloss: 0.9,
		})),
	)

	// Panel facing -X, standing to the right of the cloud
	s.AddQuadLight(
		core.NewVec3(3, 0.5, -1),
		core.NewVec3(0, 0, 2),
		core.NewVec3(0, 2, 0),
		core.NewVec3(0.6, 0.8, 2.0),
	)

	density := opts.Density
	if density == nil {
		density = volume.NewPerlin(0.9, 0.2, 7)
	}
	gas, err := medium.NewEmissive(medium.EmissiveConfig{
		HeterogeneousConfig: medium.HeterogeneousConfig{
			Density: density,
			Albedo:  volume.NewConstantRGB(core.NewGray(0.3)),
			Scale:   3.0,
			Phase:   phase.NewIsotropic(),
		},
		Radiance: volume.NewConstantRGB(core.NewVec3(4.0, 1.6, 0.35)),
	})
	if err != nil {
		return nil, err
	}

	cloud := geometry.NewSphere(core.NewVec3(-0.3, 1.2, 0), 1.1, material.NewNull())
	if err := s.AddMediumShape(cloud, gas); err != nil {
		return nil, err
	}

	return s, nil
}
