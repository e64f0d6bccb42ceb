package integrator

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
)

// Photon is a flux record left on a diffuse surface
type Photon struct {
	Position  core.Vec3
	Direction core.Vec3 // Unit direction back toward where the photon came from
	Power     core.Vec3
}

// PhotonMap indexes the photons of one pass in a k-d tree for radius queries
type PhotonMap struct {
	photons []Photon
	tree    *kdtree.Tree
}

// NewPhotonMap builds the tree over photons. The slice must not be modified afterwards.
func NewPhotonMap(photons []Photon) *PhotonMap {
	pm := &PhotonMap{photons: photons}
	if len(photons) == 0 {
		return pm
	}
	points := make(photonPoints, len(photons))
	for i := range photons {
		points[i] = photonPoint{pos: photons[i].Position, photon: &photons[i]}
	}
	pm.tree = kdtree.New(points, false)
	return pm
}

// Len returns the number of stored photons
func (pm *PhotonMap) Len() int {
	return len(pm.photons)
}

// Within calls visit for every photon closer to p than radius
func (pm *PhotonMap) Within(p core.Vec3, radius float64, visit func(*Photon)) {
	if pm.tree == nil {
		return
	}
	keep := kdtree.NewDistKeeper(radius * radius)
	pm.tree.NearestSet(keep, photonPoint{pos: p})
	for _, c := range keep.Heap {
		// The keeper seeds its heap with an empty sentinel at the search radius
		if c.Comparable == nil {
			continue
		}
		visit(c.Comparable.(photonPoint).photon)
	}
}

// photonPoint is a photon position as seen by the k-d tree
type photonPoint struct {
	pos    core.Vec3
	photon *Photon
}

// Compare returns the signed distance of p from the plane through c perpendicular to d
func (p photonPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(photonPoint)
	return p.pos.Component(int(d)) - q.pos.Component(int(d))
}

func (p photonPoint) Dims() int { return 3 }

// Distance is squared, as the tree's pruning expects
func (p photonPoint) Distance(c kdtree.Comparable) float64 {
	return p.pos.Subtract(c.(photonPoint).pos).LengthSquared()
}

type photonPoints []photonPoint

func (p photonPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p photonPoints) Len() int                       { return len(p) }
func (p photonPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}
func (p photonPoints) Pivot(d kdtree.Dim) int {
	return photonPlane{Dim: d, points: p}.Pivot()
}

// photonPlane sorts photons along one axis while the tree is built
type photonPlane struct {
	kdtree.Dim
	points photonPoints
}

func (p photonPlane) Len() int { return len(p.points) }
func (p photonPlane) Less(i, j int) bool {
	return p.points[i].pos.Component(int(p.Dim)) < p.points[j].pos.Component(int(p.Dim))
}
func (p photonPlane) Swap(i, j int) { p.points[i], p.points[j] = p.points[j], p.points[i] }
func (p photonPlane) Slice(start, end int) kdtree.SortSlicer {
	return photonPlane{Dim: p.Dim, points: p.points[start:end]}
}
func (p photonPlane) Pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}
