package volume

import (
	"math"
	"math/rand"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
)

const (
	// DefaultPerlinCellSize is the lattice spacing in world units
	DefaultPerlinCellSize = 0.1

	maxPerlinCells = 256 // per axis
)

// Perlin is smooth lattice noise spanning the box it is bound to.
// Lattice values are uniform in [0, Value] and blended with the quintic fade 6t^5 - 15t^4 + 10t^3.
// Points outside the bound box read 0.
type Perlin struct {
	Value    float64
	CellSize float64
	seed     int64

	bounds  core.AABB
	res     [3]int     // lattice points per axis
	spacing [3]float64 // world distance between lattice points per axis
	lattice []float64
}

// NewPerlin creates a noise field. The same seed always produces the same field for the same box.
func NewPerlin(value, cellSize float64, seed int64) *Perlin {
	if !(cellSize > 0) {
		cellSize = DefaultPerlinCellSize
	}
	return &Perlin{Value: value, CellSize: cellSize, seed: seed}
}

// Bind lays the lattice over bounds and draws its values
func (n *Perlin) Bind(bounds core.AABB) {
	n.bounds = bounds
	size := bounds.Size()
	count := 1
	for axis := 0; axis < 3; axis++ {
		extent := size.Component(axis)
		cells := min(max(int(math.Ceil(extent/n.CellSize)), 1), maxPerlinCells)
		n.res[axis] = cells + 1
		n.spacing[axis] = extent / float64(cells)
		count *= n.res[axis]
	}

	rng := rand.New(rand.NewSource(n.seed))
	n.lattice = make([]float64, count)
	for i := range n.lattice {
		n.lattice[i] = rng.Float64() * n.Value
	}
}

func (n *Perlin) LookupFloat(p core.Vec3) float64 {
	if n.lattice == nil || !n.bounds.Contains(p) {
		return 0
	}

	var cell [3]int
	var fade [3]float64
	offset := p.Subtract(n.bounds.Min)
	for axis := 0; axis < 3; axis++ {
		g := 0.0
		if n.spacing[axis] > 0 {
			g = offset.Component(axis) / n.spacing[axis]
		}
		i := min(int(math.Floor(g)), n.res[axis]-2)
		cell[axis] = max(i, 0)
		fade[axis] = smootherstep(math.Min(math.Max(g-float64(cell[axis]), 0), 1))
	}

	x, y, z := cell[0], cell[1], cell[2]
	fx, fy, fz := fade[0], fade[1], fade[2]
	c00 := lerp(n.at(x, y, z), n.at(x+1, y, z), fx)
	c10 := lerp(n.at(x, y+1, z), n.at(x+1, y+1, z), fx)
	c01 := lerp(n.at(x, y, z+1), n.at(x+1, y, z+1), fx)
	c11 := lerp(n.at(x, y+1, z+1), n.at(x+1, y+1, z+1), fx)
	return lerp(lerp(c00, c10, fy), lerp(c01, c11, fy), fz)
}

func (n *Perlin) LookupRGB(p core.Vec3) core.Vec3 {
	return core.NewGray(n.LookupFloat(p))
}

// MaxFloat bounds every lattice value, and interpolation never exceeds its corners
func (n *Perlin) MaxFloat() float64 {
	return n.Value
}

func (n *Perlin) at(x, y, z int) float64 {
	return n.lattice[(z*n.res[1]+y)*n.res[0]+x]
}

func smootherstep(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}
