package integrator

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/material"
)

func TestPhotonMap_WithinMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	photons := make([]Photon, 2000)
	for i := range photons {
		photons[i] = Photon{
			Position: core.NewVec3(rng.Float64()*4-2, rng.Float64()*4-2, rng.Float64()*4-2),
			Power:    core.NewGray(float64(i)),
		}
	}
	// Keep an independent copy for the brute-force scan
	reference := append([]Photon(nil), photons...)
	pm := NewPhotonMap(photons)
	if pm.Len() != len(reference) {
		t.Fatalf("Expected %d photons, got %d", len(reference), pm.Len())
	}

	for q := 0; q < 50; q++ {
		p := core.NewVec3(rng.Float64()*4-2, rng.Float64()*4-2, rng.Float64()*4-2)
		radius := 0.1 + rng.Float64()*0.5

		var want []float64
		for _, ph := range reference {
			if ph.Position.Subtract(p).LengthSquared() <= radius*radius {
				want = append(want, ph.Power.X)
			}
		}
		var got []float64
		pm.Within(p, radius, func(ph *Photon) {
			got = append(got, ph.Power.X)
		})

		sort.Float64s(want)
		sort.Float64s(got)
		if len(got) != len(want) {
			t.Fatalf("Query %d: expected %d photons, got %d", q, len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("Query %d: photon sets differ at %d", q, i)
			}
		}
	}
}

func TestPhotonMap_SinglePhotonAtRadius(t *testing.T) {
	photon := Photon{Position: core.NewVec3(0.5, 0, 0), Power: core.NewGray(1)}
	pm := NewPhotonMap([]Photon{photon})

	var found []*Photon
	pm.Within(core.Vec3{}, 0.5, func(ph *Photon) { found = append(found, ph) })
	if len(found) != 1 || found[0].Position != photon.Position {
		t.Errorf("Expected the photon on the search sphere, got %v", found)
	}

	visited := 0
	pm.Within(core.Vec3{}, 0.49, func(*Photon) { visited++ })
	if visited != 0 {
		t.Errorf("Expected no photon inside radius 0.49, got %d", visited)
	}
}

func TestPhotonMap_Empty(t *testing.T) {
	pm := NewPhotonMap(nil)
	visited := 0
	pm.Within(core.Vec3{}, 10, func(*Photon) { visited++ })
	if visited != 0 {
		t.Errorf("Expected no photons from an empty map, got %d", visited)
	}
}

func newFloorHitPoint(radius float64) HitPoint {
	return HitPoint{
		SI: material.SurfaceInteraction{
			Normal:   core.NewVec3(0, 1, 0),
			Material: material.NewLambertian(core.NewGray(0.5)),
		},
		Incoming: core.NewVec3(0, -1, 0),
		Weight:   one,
		Valid:    true,
		Radius:   radius,
	}
}

func TestHitPoint_UpdateShrinksRadius(t *testing.T) {
	hp := newFloorHitPoint(1)
	photons := []Photon{
		{Position: core.NewVec3(0.1, 0, 0), Direction: core.NewVec3(0, 1, 0), Power: core.NewGray(2)},
		{Position: core.NewVec3(0, 0, 0.5), Direction: core.NewVec3(0, 1, 0), Power: core.NewGray(2)},
		{Position: core.NewVec3(3, 0, 0), Direction: core.NewVec3(0, 1, 0), Power: core.NewGray(2)},
		// Arrives from below the surface: no BRDF contribution but still counted
		{Position: core.NewVec3(0, 0, -0.2), Direction: core.NewVec3(0, -1, 0), Power: core.NewGray(2)},
	}
	alpha := 0.7

	found := hp.Update(NewPhotonMap(photons), alpha)
	if found != 3 {
		t.Fatalf("Expected 3 photons in range, got %d", found)
	}

	wantN := alpha * 3
	if math.Abs(hp.N-wantN) > 1e-12 {
		t.Errorf("Expected N %.4f, got %.4f", wantN, hp.N)
	}
	wantRadius := math.Sqrt(alpha)
	if math.Abs(hp.Radius-wantRadius) > 1e-12 {
		t.Errorf("Expected radius %.4f, got %.4f", wantRadius, hp.Radius)
	}
	wantTau := 2 * 2 * 0.5 / math.Pi * alpha
	if math.Abs(hp.Tau.X-wantTau) > 1e-12 {
		t.Errorf("Expected tau %.5f, got %.5f", wantTau, hp.Tau.X)
	}

	// Radiance normalizes the shrunken flux by the shrunken disk
	emitted := 10
	wantL := wantTau / (float64(emitted) * math.Pi * wantRadius * wantRadius)
	if got := hp.Radiance(emitted).X; math.Abs(got-wantL) > 1e-12 {
		t.Errorf("Expected radiance %.6f, got %.6f", wantL, got)
	}
}

func TestHitPoint_UpdateWithoutPhotons(t *testing.T) {
	hp := newFloorHitPoint(0.25)
	hp.N = 4
	hp.Tau = core.NewGray(1.5)
	before := hp

	far := []Photon{{Position: core.NewVec3(5, 0, 0), Power: core.NewGray(1)}}
	if found := hp.Update(NewPhotonMap(far), 0.7); found != 0 {
		t.Errorf("Expected no photons found, got %d", found)
	}
	if hp.Radius != before.Radius || hp.N != before.N || hp.Tau != before.Tau {
		t.Errorf("Expected unchanged hit point, got radius %v N %v tau %v", hp.Radius, hp.N, hp.Tau)
	}
}

func TestHitPoint_InvalidReturnsDirect(t *testing.T) {
	hp := HitPoint{Direct: core.NewGray(0.3), Radius: 1}
	if got := hp.Radiance(100); got != core.NewGray(0.3) {
		t.Errorf("Expected direct radiance only, got %v", got)
	}
}

func TestPhotonMapper_TracePhotonsLandOnFloor(t *testing.T) {
	sc := createLitFloorScene(t)
	if err := sc.Preprocess(); err != nil {
		t.Fatal(err)
	}
	mapper := NewPhotonMapper(DefaultPhotonConfig())
	photons, emitted := mapper.TracePhotons(sc, 5000, core.NewPathSampler(5))

	if len(photons) != 5000 {
		t.Fatalf("Expected 5000 photons, got %d", len(photons))
	}
	if emitted < len(photons)/2 {
		t.Errorf("Expected most emitted photons to reach the floor, got %d emitted", emitted)
	}
	for i, ph := range photons {
		if math.Abs(ph.Position.Y) > 1e-6 {
			t.Fatalf("Photon %d: expected on the floor, got %v", i, ph.Position)
		}
		if ph.Direction.Y <= 0 {
			t.Fatalf("Photon %d: expected direction toward the light side, got %v", i, ph.Direction)
		}
	}
}

func TestPhotonMapper_NoLights(t *testing.T) {
	sc := newTestScene()
	if err := sc.Preprocess(); err != nil {
		t.Fatal(err)
	}
	photons, emitted := NewPhotonMapper(DefaultPhotonConfig()).TracePhotons(sc, 100, core.NewPathSampler(1))
	if len(photons) != 0 || emitted != 0 {
		t.Errorf("Expected no photons without lights, got %d stored %d emitted", len(photons), emitted)
	}
}

func TestPhotonMapper_FloorRadiance(t *testing.T) {
	sc := createLitFloorScene(t)
	if err := sc.Preprocess(); err != nil {
		t.Fatal(err)
	}
	config := DefaultPhotonConfig()
	config.InitialRadius = 0.1
	mapper := NewPhotonMapper(config)
	sampler := core.NewPathSampler(9)

	ray := core.NewRay(core.NewVec3(0, 0.5, 0), core.NewVec3(0, -1, 0))
	hp := mapper.TraceEyePath(ray, sc, sampler, mapper.InitialRadius(sc))
	if !hp.Valid {
		t.Fatal("Expected the eye path to reach the floor")
	}

	photons, emitted := mapper.TracePhotons(sc, 300000, sampler)
	hp.Update(NewPhotonMap(photons), config.Alpha)

	expected := litFloorReference()
	got := hp.Radiance(emitted).X
	if math.Abs(got-expected)/expected > 0.1 {
		t.Errorf("Expected floor radiance %.4f, got %.4f", expected, got)
	}
}

func TestPhotonMapper_EyePathSeesEmission(t *testing.T) {
	sc := createLitFloorScene(t)
	if err := sc.Preprocess(); err != nil {
		t.Fatal(err)
	}
	mapper := NewPhotonMapper(DefaultPhotonConfig())
	ray := core.NewRay(core.NewVec3(0, 0.5, 0), core.NewVec3(0, 1, 0))
	hp := mapper.TraceEyePath(ray, sc, core.NewPathSampler(1), 0.1)
	if hp.Valid {
		t.Error("Expected no diffuse hit point when looking at the light")
	}
	if hp.Radiance(1000) != core.NewGray(1) {
		t.Errorf("Expected light emission 1, got %v", hp.Radiance(1000))
	}
}
