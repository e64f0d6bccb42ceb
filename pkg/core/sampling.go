package core

import (
	"math"
	"math/rand"
	randv2 "math/rand/v2"
)

// InvFourPi is the density of a uniformly sampled direction on the unit sphere
const InvFourPi = 1.0 / (4.0 * math.Pi)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// PathSampler is a deterministic sampler whose stream depends only on a
// (pixel, sample index) key, so a path draws the same numbers regardless of
// which worker traces it or in what order.
type PathSampler struct {
	seed   uint64
	pcg    *randv2.PCG
	random *randv2.Rand
}

// NewPathSampler creates a sampler for the given render seed
func NewPathSampler(seed int64) *PathSampler {
	pcg := randv2.NewPCG(uint64(seed), 0)
	return &PathSampler{seed: uint64(seed), pcg: pcg, random: randv2.New(pcg)}
}

// StartPath reseeds the stream for sample index of pixel (x, y)
func (p *PathSampler) StartPath(x, y, sampleIndex int) {
	key := splitMix64(uint64(uint32(x)) | uint64(uint32(y))<<32)
	p.pcg.Seed(splitMix64(p.seed^key), splitMix64(key+uint64(sampleIndex)))
}

// Get1D returns a random float64 in [0, 1)
func (p *PathSampler) Get1D() float64 {
	return p.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (p *PathSampler) Get2D() Vec2 {
	return NewVec2(p.random.Float64(), p.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (p *PathSampler) Get3D() Vec3 {
	return NewVec3(p.random.Float64(), p.random.Float64(), p.random.Float64())
}

func splitMix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Frame is an orthonormal basis whose Z axis is a given direction
type Frame struct {
	S, T, N Vec3
}

// NewFrame builds a frame around the unit vector n
func NewFrame(n Vec3) Frame {
	// Find a vector perpendicular to n
	var helper Vec3
	if math.Abs(n.X) > 0.1 {
		helper = NewVec3(0, 1, 0)
	} else {
		helper = NewVec3(1, 0, 0)
	}
	s := helper.Cross(n).Normalize()
	t := n.Cross(s)
	return Frame{S: s, T: t, N: n}
}

// ToWorld converts local frame coordinates to world space
func (f Frame) ToWorld(local Vec3) Vec3 {
	return f.S.Multiply(local.X).Add(f.T.Multiply(local.Y)).Add(f.N.Multiply(local.Z))
}

// ToLocal converts a world space vector to frame coordinates
func (f Frame) ToLocal(v Vec3) Vec3 {
	return NewVec3(v.Dot(f.S), v.Dot(f.T), v.Dot(f.N))
}

// SampleCosineHemisphere generates a cosine-weighted random direction in hemisphere around normal
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	a := 2.0 * math.Pi * sample.X
	z := sample.Y
	r := math.Sqrt(z)

	local := NewVec3(r*math.Cos(a), r*math.Sin(a), math.Sqrt(1.0-z))
	return NewFrame(normal).ToWorld(local)
}

// SampleCone samples a direction uniformly within a cone
func SampleCone(direction Vec3, cosTotalWidth float64, sample Vec2) Vec3 {
	cosTheta := 1.0 - sample.X*(1.0-cosTotalWidth)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * sample.Y

	local := NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
	return NewFrame(direction).ToWorld(local)
}

// SampleOnUnitSphere generates a uniform random direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	x := r * math.Cos(phi)
	y := r * math.Sin(phi)
	return NewVec3(x, y, z)
}

// SamplePointInUnitDisk generates a random point in a unit disk using concentric mapping
// This avoids rejection sampling by mapping a square uniformly to a disk
func SamplePointInUnitDisk(sample Vec2) Vec3 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	uOffset := NewVec2(2*sample.X-1, 2*sample.Y-1)
	if uOffset.X == 0 && uOffset.Y == 0 {
		return NewVec3(0, 0, 0)
	}

	var theta, r float64
	if math.Abs(uOffset.X) > math.Abs(uOffset.Y) {
		r = uOffset.X
		theta = math.Pi / 4 * (uOffset.Y / uOffset.X)
	} else {
		r = uOffset.Y
		theta = math.Pi/2 - math.Pi/4*(uOffset.X/uOffset.Y)
	}

	return NewVec3(r*math.Cos(theta), r*math.Sin(theta), 0)
}

// SamplePointInUnitSphere generates a random point inside a unit sphere using spherical coordinates
// This avoids rejection sampling by using the inverse CDF method
func SamplePointInUnitSphere(sample Vec3) Vec3 {
	// r = ∛(u₁) to account for volume scaling
	r := math.Cbrt(sample.X)
	phi := 2 * math.Pi * sample.Y
	cosTheta := 2*sample.Z - 1
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))

	return NewVec3(r*sinTheta*math.Cos(phi), r*sinTheta*math.Sin(phi), r*cosTheta)
}
