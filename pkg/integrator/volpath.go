package integrator

import (
	"fmt"
	"math"
	"strings"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
	"github.com/df07/go-volumetric-raytracer/pkg/geometry"
	"github.com/df07/go-volumetric-raytracer/pkg/material"
	"github.com/df07/go-volumetric-raytracer/pkg/medium"
	"github.com/df07/go-volumetric-raytracer/pkg/phase"
	"github.com/df07/go-volumetric-raytracer/pkg/scene"
)

// Variant selects the light transport strategy of the volumetric path tracer
type Variant int

const (
	// MATS samples only BSDFs and phase functions
	MATS Variant = iota
	// MIS adds light sampling combined with the balance heuristic
	MIS
	// EMS also samples emissive media as light sources
	EMS
)

func (v Variant) String() string {
	switch v {
	case MATS:
		return "mats"
	case MIS:
		return "mis"
	case EMS:
		return "ems"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant converts a variant name such as "mis" to a Variant
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(name) {
	case "mats":
		return MATS, nil
	case "mis":
		return MIS, nil
	case "ems":
		return EMS, nil
	}
	return 0, fmt.Errorf("unknown volumetric path tracer variant %q", name)
}

// maxPathIterations bounds the state machine, including null-surface crossings
const maxPathIterations = 4096

type pathState int

const (
	stateMediumSegment pathState = iota
	stateSurface
	stateTerminated
)

// VolPathIntegrator is an iterative volumetric path tracer
type VolPathIntegrator struct {
	variant Variant
	config  scene.SamplingConfig
}

// NewVolPathIntegrator creates a volumetric path tracer
func NewVolPathIntegrator(variant Variant, config scene.SamplingConfig) *VolPathIntegrator {
	return &VolPathIntegrator{variant: variant, config: config}
}

// Variant returns the strategy the integrator runs
func (vp *VolPathIntegrator) Variant() Variant {
	return vp.variant
}

// lastVertex is the MIS state of the previous real scattering event
type lastVertex struct {
	point core.Vec3
	pdf   float64 // solid-angle pdf the continuation was sampled with
	delta bool
}

// path is the mutable state of one camera path
type path struct {
	ray        core.Ray
	hit        *geometry.Hit
	hasHit     bool
	throughput core.Vec3
	radiance   core.Vec3
	stack      *medium.Stack
	bounces    int
	last       lastVertex

	// collectVolumeEmission is false once emissive media are reached by light sampling instead
	collectVolumeEmission bool
}

func (p *path) intersect(sc *scene.Scene) {
	p.hit, p.hasHit = sc.Intersect(p.ray, rayEpsilon, math.Inf(1))
}

// segmentState picks the state for the segment in front of the current ray
func (p *path) segmentState() pathState {
	if p.stack.Top() != nil {
		return stateMediumSegment
	}
	return stateSurface
}

// RayColor estimates the radiance along a camera ray
func (vp *VolPathIntegrator) RayColor(ray core.Ray, sc *scene.Scene, sampler core.Sampler) core.Vec3 {
	p := &path{
		ray:                   core.NewRay(ray.Origin, ray.Direction.Normalize()),
		throughput:            one,
		stack:                 medium.NewStack(sc.CameraMedium),
		last:                  lastVertex{point: ray.Origin, delta: true},
		collectVolumeEmission: true,
	}
	p.intersect(sc)

	state := p.segmentState()
	for i := 0; i < maxPathIterations && state != stateTerminated; i++ {
		switch state {
		case stateMediumSegment:
			state = vp.mediumSegment(p, sc, sampler)
		case stateSurface:
			state = vp.surface(p, sc, sampler)
		}
	}
	return p.radiance
}

// mediumSegment samples a free path along the current segment of the top medium
func (vp *VolPathIntegrator) mediumSegment(p *path, sc *scene.Scene, sampler core.Sampler) pathState {
	m := p.stack.Top()
	tMax := math.Inf(1)
	if p.hasHit {
		tMax = p.hit.T
	}

	rec := medium.NewFreePathQuery(p.ray.Origin, p.ray.Direction, tMax)
	if !m.SampleFreePath(&rec, sampler) {
		p.throughput = p.throughput.MultiplyVec(rec.Albedo)
		if p.throughput.IsZero() {
			return stateTerminated
		}
		return stateSurface
	}

	// Collision estimator for volume emission: the absorbed fraction emits
	if _, emissive := m.(medium.EmissiveMedium); emissive && (vp.variant != EMS || p.collectVolumeEmission) {
		absorbed := one.Subtract(rec.Albedo)
		p.radiance = p.radiance.Add(p.throughput.MultiplyVec(absorbed).MultiplyVec(rec.Radiance))
	}

	if p.bounces >= vp.config.MaxDepth {
		return stateTerminated
	}
	p.throughput = p.throughput.MultiplyVec(rec.Albedo)
	p.bounces++

	pf := m.PhaseFunction()
	v := scatterVertex{point: rec.P, in: p.ray.Direction, phase: pf}
	if vp.variant != MATS {
		p.radiance = p.radiance.Add(p.throughput.MultiplyVec(vp.sampleDirect(p, v, sc, sampler)))
	}

	if !vp.survive(p, sampler) {
		return stateTerminated
	}

	wo, weight := pf.Sample(rec.Wi, sampler.Get2D())
	p.throughput = p.throughput.Multiply(weight)
	p.last = lastVertex{point: rec.P, pdf: pf.PDF(rec.Wi, wo)}
	p.collectVolumeEmission = false

	p.ray = core.NewRay(rec.P, wo)
	p.intersect(sc)
	return p.segmentState()
}

// surface handles the intersection at the end of the current segment
func (vp *VolPathIntegrator) surface(p *path, sc *scene.Scene, sampler core.Sampler) pathState {
	if !p.hasHit {
		return stateTerminated
	}
	hit := p.hit

	// Medium boundaries only change the stack
	if material.IsPassThrough(hit.Material) {
		p.stack.Transition(hit.Medium, p.ray.Direction.Dot(hit.OutwardNormal()))
		p.ray = core.NewRay(hit.Point, p.ray.Direction)
		p.intersect(sc)
		return p.segmentState()
	}

	if emitter, ok := hit.Material.(material.Emitter); ok {
		if le := emitter.Emit(p.ray, &hit.SurfaceInteraction); !le.IsZero() {
			w := vp.emissionWeight(p, sc, hit)
			p.radiance = p.radiance.Add(p.throughput.MultiplyVec(le).Multiply(w))
		}
	}

	if p.bounces >= vp.config.MaxDepth {
		return stateTerminated
	}
	scatter, ok := hit.Material.Scatter(p.ray, &hit.SurfaceInteraction, sampler)
	if !ok {
		return stateTerminated
	}
	p.bounces++

	specular := scatter.IsSpecular()
	if vp.variant != MATS && !specular {
		v := scatterVertex{point: hit.Point, in: p.ray.Direction, hit: hit}
		p.radiance = p.radiance.Add(p.throughput.MultiplyVec(vp.sampleDirect(p, v, sc, sampler)))
	}

	p.throughput = p.throughput.MultiplyVec(scatter.Weight(hit.Normal))
	if !vp.survive(p, sampler) {
		return stateTerminated
	}

	wo := scatter.Scattered.Direction.Normalize()
	p.last = lastVertex{point: hit.Point, pdf: scatter.PDF, delta: specular}
	p.collectVolumeEmission = specular

	p.stack.Transition(hit.Medium, wo.Dot(hit.OutwardNormal()))
	p.ray = core.NewRay(hit.Point, wo)
	p.intersect(sc)
	return p.segmentState()
}

// emissionWeight is the MIS weight of hitting an emitter by BSDF or phase sampling
func (vp *VolPathIntegrator) emissionWeight(p *path, sc *scene.Scene, hit *geometry.Hit) float64 {
	if vp.variant == MATS || p.last.delta {
		return 1
	}
	light, selection, ok := sc.LightForShape(hit.Shape, p.last.point)
	if !ok {
		return 1
	}
	pdfEm := light.PDF(p.last.point, p.ray.Direction) * selection
	if vp.variant == EMS {
		pdfEm *= sc.EmitterProbability(true)
	}
	return core.BalanceHeuristic(p.last.pdf, pdfEm)
}

// survive applies Russian roulette and compensates the throughput of surviving paths
func (vp *VolPathIntegrator) survive(p *path, sampler core.Sampler) bool {
	if vp.variant == MATS && p.bounces <= vp.config.RussianRouletteMinBounces {
		return !p.throughput.IsZero()
	}
	ok, prob := core.RussianRoulette(p.throughput, sampler.Get1D())
	if !ok {
		return false
	}
	p.throughput = p.throughput.Multiply(1 / prob)
	return true
}

// scatterVertex is a surface or medium interaction that light sampling starts from
type scatterVertex struct {
	point core.Vec3
	in    core.Vec3 // direction of the ray arriving at point
	hit   *geometry.Hit
	phase phase.PhaseFunction
}

// evaluate returns the scattering function times the cosine factor toward wo and the pdf
// of sampling wo from this vertex
func (v scatterVertex) evaluate(wo core.Vec3) (core.Vec3, float64) {
	if v.hit == nil {
		wi := v.in.Negate()
		return core.NewGray(v.phase.Evaluate(wi, wo)), v.phase.PDF(wi, wo)
	}
	cosine := math.Abs(wo.Dot(v.hit.Normal))
	f := v.hit.Material.EvaluateBRDF(v.in, wo, &v.hit.SurfaceInteraction).Multiply(cosine)
	pdf, _ := v.hit.Material.PDF(v.in, wo, v.hit.Normal)
	return f, pdf
}

// shadowStack returns the media a shadow ray toward wo starts in
func (v scatterVertex) shadowStack(stack *medium.Stack, wo core.Vec3) *medium.Stack {
	s := stack.Clone()
	if v.hit != nil {
		s.Transition(v.hit.Medium, wo.Dot(v.hit.OutwardNormal()))
	}
	return s
}

// sampleDirect estimates direct lighting at v, excluding the path throughput
func (vp *VolPathIntegrator) sampleDirect(p *path, v scatterVertex, sc *scene.Scene, sampler core.Sampler) core.Vec3 {
	if vp.variant != EMS {
		return vp.sampleSurfaceLight(p, v, sc, sampler, 1)
	}
	if sc.SampleEmitter(sampler.Get1D()) {
		return vp.sampleSurfaceLight(p, v, sc, sampler, sc.EmitterProbability(true))
	}
	return vp.sampleEmissiveMedium(p, v, sc, sampler).Multiply(1 / sc.EmitterProbability(false))
}

// sampleSurfaceLight samples one light, chosen with probability emitterProb among emitter kinds
func (vp *VolPathIntegrator) sampleSurfaceLight(p *path, v scatterVertex, sc *scene.Scene, sampler core.Sampler, emitterProb float64) core.Vec3 {
	light, selection := sc.RandomLight(v.point, sampler.Get1D())
	if light == nil || !(selection > 0) {
		return core.Vec3{}
	}
	ls := light.Sample(v.point, sampler.Get2D())
	ls.PDF *= selection
	if !(ls.PDF > 0) || ls.Emission.IsZero() {
		return core.Vec3{}
	}

	f, pdfMat := v.evaluate(ls.Direction)
	if f.IsZero() {
		return core.Vec3{}
	}

	tr := transmittance(sc, v.shadowStack(p.stack, ls.Direction), v.point, ls.Direction, ls.Distance, sampler)
	if tr.IsZero() {
		return core.Vec3{}
	}

	pdfEm := ls.PDF * emitterProb
	weight := 1.0
	if !ls.Delta {
		weight = core.BalanceHeuristic(pdfEm, pdfMat)
	}
	return f.MultiplyVec(ls.Emission).MultiplyVec(tr).Multiply(weight / pdfEm)
}

// sampleEmissiveMedium samples an emission point inside a randomly chosen emissive medium
func (vp *VolPathIntegrator) sampleEmissiveMedium(p *path, v scatterVertex, sc *scene.Scene, sampler core.Sampler) core.Vec3 {
	em, selection := sc.RandomEmissiveMedium(sampler.Get1D())
	if em == nil {
		return core.Vec3{}
	}

	rec := medium.NewRadianceQuery(v.point)
	le := em.SampleRadiance(&rec, sampler)
	if !(rec.RadiancePDF > 0) || le.IsZero() {
		return core.Vec3{}
	}

	dir := rec.ShadowRay.Direction
	f, _ := v.evaluate(dir)
	if f.IsZero() {
		return core.Vec3{}
	}

	stack := v.shadowStack(p.stack, dir)
	var tr core.Vec3
	if stack.Top() == medium.Medium(em) &&
		!sc.IntersectExcluding(rec.ShadowRay, rayEpsilon, rec.ShadowDistance, sc.MediumShape(em)) {
		// Inside the emitter with nothing in the way
		tr = em.Transmittance(v.point, rec.P, sampler)
	} else {
		tr = transmittance(sc, stack, v.point, dir, rec.ShadowDistance, sampler)
	}
	if tr.IsZero() {
		return core.Vec3{}
	}

	d2 := rec.ShadowDistance * rec.ShadowDistance
	return f.MultiplyVec(tr).MultiplyVec(rec.SigmaA).MultiplyVec(le).Multiply(1 / (d2 * rec.RadiancePDF * selection))
}
