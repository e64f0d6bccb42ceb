package scene

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/geometry"
	"github.com/df07/go-volumetric-raytracer/pkg/lights"
	"github.com/df07/go-volumetric-raytracer/pkg/material"
	"github.com/df07/go-volumetric-raytracer/pkg/medium"
	"github.com/df07/go-volumetric-raytracer/pkg/phase"
	"github.com/df07/go-volumetric-raytracer/pkg/volume"
)

func TestBuiltinScenes_Preprocess(t *testing.T) {
	scenes, err := ListAllScenes()
	if err != nil {
		t.Fatalf("ListAllScenes failed: %v", err)
	}
	for _, info := range scenes {
		if info.Type != "builtin" {
			continue
		}
		t.Run(info.ID, func(t *testing.T) {
			s, err := New(info.ID, Options{Camera: geometry.CameraConfig{Width: 32}})
			if err != nil {
				t.Fatalf("Failed to build scene: %v", err)
			}
			if err := s.Preprocess(); err != nil {
				t.Fatalf("Preprocess failed: %v", err)
			}
			if s.LightCount()+s.EmissiveMediumCount() == 0 {
				t.Error("Expected at least one emitter")
			}
			if width, _ := s.Camera.ImageSize(); width != 32 {
				t.Errorf("Expected camera override width 32, got %d", width)
			}
			if s.SamplingConfig.Width != 32 {
				t.Errorf("Expected sampling width from camera, got %d", s.SamplingConfig.Width)
			}
		})
	}
}

func TestNew_UnknownScene(t *testing.T) {
	if _, err := New("does-not-exist", Options{}); err == nil {
		t.Error("Expected an error for an unknown scene")
	}
}

func TestNew_GridScene(t *testing.T) {
	bounds := core.NewAABB(core.Vec3{}, core.NewVec3(1, 1, 1))
	grid, err := volume.NewGrid(2, 2, 2, 1, []float32{0, 0.5, 0.5, 1, 0, 0.5, 0.5, 1}, bounds)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "puff.vol")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := grid.Encode(f); err != nil {
		t.Fatal(err)
	}
	f.Close()

	s, err := New("smoke:"+path, Options{Logger: core.NopLogger{}})
	if err != nil {
		t.Fatalf("Failed to build grid scene: %v", err)
	}
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	if _, err := New("smoke:"+filepath.Join(t.TempDir(), "missing.vol"), Options{}); err == nil {
		t.Error("Expected an error for a missing grid")
	}
}

func newFog(t *testing.T) medium.Medium {
	t.Helper()
	m, err := medium.NewHomogeneousFromAlbedo(core.NewGray(1), core.NewGray(0.5), phase.NewIsotropic())
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestPreprocess_OverlappingMedia(t *testing.T) {
	s := &Scene{CameraConfig: geometry.CameraConfig{Width: 8, AspectRatio: 1, VFov: 40, LookAt: core.NewVec3(0, 0, 1)}}
	a := geometry.NewSphere(core.Vec3{}, 1, material.NewNull())
	b := geometry.NewSphere(core.NewVec3(1, 0, 0), 1, material.NewNull())
	if err := s.AddMediumShape(a, newFog(t)); err != nil {
		t.Fatal(err)
	}
	if err := s.AddMediumShape(b, newFog(t)); err != nil {
		t.Fatal(err)
	}
	if err := s.Preprocess(); !errors.Is(err, ErrOverlappingMedia) {
		t.Errorf("Expected ErrOverlappingMedia, got %v", err)
	}
}

func TestPreprocess_OverlappingMediaWithNestedBoxes(t *testing.T) {
	// The small sphere's bounding box lies inside the large one, yet the spheres cut each other
	s := &Scene{CameraConfig: geometry.CameraConfig{Width: 8, AspectRatio: 1, VFov: 40, LookAt: core.NewVec3(0, 0, 1)}}
	a := geometry.NewSphere(core.Vec3{}, 1, material.NewNull())
	b := geometry.NewSphere(core.NewVec3(0.75, 0.75, 0), 0.2, material.NewNull())
	if err := s.AddMediumShape(a, newFog(t)); err != nil {
		t.Fatal(err)
	}
	if err := s.AddMediumShape(b, newFog(t)); err != nil {
		t.Fatal(err)
	}
	if err := s.Preprocess(); !errors.Is(err, ErrOverlappingMedia) {
		t.Errorf("Expected ErrOverlappingMedia, got %v", err)
	}
}

func TestPreprocess_DisjointSpheresWithOverlappingBoxes(t *testing.T) {
	s := &Scene{CameraConfig: geometry.CameraConfig{Width: 8, AspectRatio: 1, VFov: 40, LookAt: core.NewVec3(0, 0, 5)}}
	a := geometry.NewSphere(core.Vec3{}, 1, material.NewNull())
	b := geometry.NewSphere(core.NewVec3(1.6, 1.6, 0), 1, material.NewNull())
	if err := s.AddMediumShape(a, newFog(t)); err != nil {
		t.Fatal(err)
	}
	if err := s.AddMediumShape(b, newFog(t)); err != nil {
		t.Fatal(err)
	}
	if err := s.Preprocess(); err != nil {
		t.Errorf("Expected disjoint spheres to be accepted, got %v", err)
	}
}

func TestPreprocess_NestedMediaAllowed(t *testing.T) {
	s := &Scene{CameraConfig: geometry.CameraConfig{Width: 8, AspectRatio: 1, VFov: 40, LookAt: core.NewVec3(0, 0, 1)}}
	outer := geometry.NewBox(core.Vec3{}, core.NewVec3(3, 3, 3), material.NewNull())
	inner := geometry.NewSphere(core.Vec3{}, 1, material.NewDielectric(1.5))
	if err := s.AddMediumShape(outer, newFog(t)); err != nil {
		t.Fatal(err)
	}
	if err := s.AddMediumShape(inner, newFog(t)); err != nil {
		t.Fatal(err)
	}
	if err := s.Preprocess(); err != nil {
		t.Errorf("Expected nested media to be accepted, got %v", err)
	}
	if s.MediumShape(inner.Medium) != geometry.Shape(inner) {
		t.Error("Expected MediumShape to return the bounding sphere")
	}
}

func TestPreprocess_InvalidMedium(t *testing.T) {
	s := &Scene{CameraConfig: geometry.CameraConfig{Width: 8, AspectRatio: 1, VFov: 40, LookAt: core.NewVec3(0, 0, 1)}}
	smoke, err := medium.NewHeterogeneous(medium.HeterogeneousConfig{
		Density: volume.NewConstantFloat(0.5),
		Albedo:  volume.NewConstantFloat(0.5),
		Scale:   1,
		Phase:   phase.NewIsotropic(),
	})
	if err != nil {
		t.Fatal(err)
	}
	// Camera medium without a boundary cannot be delta-tracked
	s.CameraMedium = smoke
	if err := s.Preprocess(); !errors.Is(err, medium.ErrMissingBoundary) {
		t.Errorf("Expected ErrMissingBoundary, got %v", err)
	}
}

func TestEmitterSelection(t *testing.T) {
	s, err := NewEmissiveCloudScene(Options{Camera: geometry.CameraConfig{Width: 8}})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Preprocess(); err != nil {
		t.Fatal(err)
	}

	if s.EmissiveMediumCount() != 1 || s.LightCount() != 1 {
		t.Fatalf("Expected one light and one emissive medium, got %d and %d", s.LightCount(), s.EmissiveMediumCount())
	}
	if p := s.EmitterProbability(true); p != 0.5 {
		t.Errorf("Expected surface light probability 0.5, got %f", p)
	}
	if !s.SampleEmitter(0.25) || s.SampleEmitter(0.75) {
		t.Error("Expected SampleEmitter to split at 0.5")
	}

	m, pdf := s.RandomEmissiveMedium(0.9)
	if m == nil || pdf != 1 {
		t.Errorf("Expected the only emissive medium with pdf 1, got %v %f", m, pdf)
	}

	if l, pdf := s.RandomLight(core.NewVec3(0, 1, 0), 0.3); l != s.Lights[0] || pdf != 1 {
		t.Errorf("Expected RandomLight to return the only light with pdf 1, got %v %f", l, pdf)
	}
	if l, pdf := (&Scene{}).RandomLight(core.Vec3{}, 0.3); l != nil || pdf != 0 {
		t.Errorf("Expected no light from an empty scene, got %v %f", l, pdf)
	}

	light, prob, ok := s.LightForShape(s.Lights[0].(lights.AreaLight).Geometry(), core.Vec3{})
	if !ok || light != s.Lights[0] || prob != 1 {
		t.Errorf("Expected the panel light with probability 1, got %v %f %v", light, prob, ok)
	}
	if _, _, ok := s.LightForShape(s.Shapes[0], core.Vec3{}); ok {
		t.Error("Expected the floor not to be a light")
	}
}

func TestEmitterSelection_LightsOnly(t *testing.T) {
	s, err := NewCausticGlassScene(Options{Camera: geometry.CameraConfig{Width: 8}})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Preprocess(); err != nil {
		t.Fatal(err)
	}
	if !s.SampleEmitter(0.999) {
		t.Error("Expected surface lights to always be chosen without emissive media")
	}
	if m, _ := s.RandomEmissiveMedium(0.5); m != nil {
		t.Error("Expected no emissive medium")
	}
}

func TestIntersect(t *testing.T) {
	s, err := NewFoggyCornellScene(Options{Camera: geometry.CameraConfig{Width: 8}})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Preprocess(); err != nil {
		t.Fatal(err)
	}

	// Straight down from the middle of the box: the fog box top is the first surface
	ray := core.NewRay(core.NewVec3(0, 1.99, 0.6), core.NewVec3(0, -1, 0))
	hit, ok := s.Intersect(ray, 1e-4, math.Inf(1))
	if !ok {
		t.Fatal("Expected a hit")
	}
	if !material.IsPassThrough(hit.Material) || hit.Medium == nil {
		t.Errorf("Expected the fog boundary, got material %T", hit.Material)
	}
	if math.Abs(hit.T-0.01) > 1e-6 {
		t.Errorf("Expected t=0.01, got %f", hit.T)
	}

	if !s.IntersectExcluding(ray, 1e-4, 10, nil) {
		t.Error("Expected occlusion by the floor")
	}

	bounds := s.Bounds()
	if !bounds.Contains(core.NewVec3(0, 1, 0)) || bounds.Diagonal() < 3 {
		t.Errorf("Unexpected scene bounds %v", bounds)
	}
}

func TestTitleCase(t *testing.T) {
	if got := titleCase("wdas_cloud-half"); got != "Wdas Cloud Half" {
		t.Errorf("Expected 'Wdas Cloud Half', got %q", got)
	}
}
