package geometry

import (
	"math"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
)

// Nesting classifies how two closed shapes share space
type Nesting int

const (
	Disjoint     Nesting = iota // no shared interior
	Contains                    // a encloses b
	Inside                      // b encloses a
	Intersecting                // the boundaries cross
)

const nestingEpsilon = 1e-9

// Relate classifies the relation between the interiors of a and b.
// Spheres and boxes are compared exactly; other shapes fall back to their bounding boxes.
func Relate(a, b VolumeShape) Nesting {
	switch sa := a.(type) {
	case *Sphere:
		switch sb := b.(type) {
		case *Sphere:
			return relateSpheres(sa, sb)
		case *Box:
			return relateSphereBox(sa, sb.BoundingBox())
		}
	case *Box:
		if sb, ok := b.(*Sphere); ok {
			return flip(relateSphereBox(sb, sa.BoundingBox()))
		}
	}
	return relateBoxes(a.BoundingBox(), b.BoundingBox())
}

func relateSpheres(a, b *Sphere) Nesting {
	d := a.Center.Subtract(b.Center).Length()
	switch {
	case d >= a.Radius+b.Radius-nestingEpsilon:
		return Disjoint
	case d+b.Radius <= a.Radius+nestingEpsilon:
		return Contains
	case d+a.Radius <= b.Radius+nestingEpsilon:
		return Inside
	}
	return Intersecting
}

// relateSphereBox relates sphere s (as a) to the axis-aligned box (as b)
func relateSphereBox(s *Sphere, box core.AABB) Nesting {
	var nearest, farthest float64
	for axis := 0; axis < 3; axis++ {
		c := s.Center.Component(axis)
		lo, hi := box.Min.Component(axis), box.Max.Component(axis)
		if c < lo {
			nearest += (lo - c) * (lo - c)
		} else if c > hi {
			nearest += (c - hi) * (c - hi)
		}
		far := math.Max(math.Abs(c-lo), math.Abs(c-hi))
		farthest += far * far
	}
	r := s.Radius
	switch {
	case math.Sqrt(nearest) >= r-nestingEpsilon:
		return Disjoint
	case math.Sqrt(farthest) <= r+nestingEpsilon:
		return Contains
	case box.Expand(nestingEpsilon).ContainsBox(s.BoundingBox()):
		return Inside
	}
	return Intersecting
}

func relateBoxes(a, b core.AABB) Nesting {
	switch {
	case !a.Overlaps(b):
		return Disjoint
	case a.Expand(nestingEpsilon).ContainsBox(b):
		return Contains
	case b.Expand(nestingEpsilon).ContainsBox(a):
		return Inside
	}
	return Intersecting
}

func flip(n Nesting) Nesting {
	switch n {
	case Contains:
		return Inside
	case Inside:
		return Contains
	}
	return n
}
