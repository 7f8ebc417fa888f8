package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box.
// Min <= Max on every axis; zero-volume boxes are allowed.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Edge is a segment between two box corners.
type Edge struct {
	Start mgl64.Vec3
	End   mgl64.Vec3
}

// edgeIndices pairs vertex indices from Vertices: min-x face, max-x face, connectors.
var edgeIndices = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// NewAABB builds a box from two corners in any order.
func NewAABB(a, b mgl64.Vec3) AABB {
	var box AABB
	for i := range 3 {
		box.Min[i] = min(a[i], b[i])
		box.Max[i] = max(a[i], b[i])
	}
	return box
}

// FromCenterAndSize creates an AABB from a center point and full size dimensions.
func FromCenterAndSize(center, size mgl64.Vec3) AABB {
	half := size.Mul(0.5)
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// Vertices returns the eight corners with x varying slowest and z fastest.
func (a AABB) Vertices() [8]mgl64.Vec3 {
	return [8]mgl64.Vec3{
		{a.Min.X(), a.Min.Y(), a.Min.Z()},
		{a.Min.X(), a.Min.Y(), a.Max.Z()},
		{a.Min.X(), a.Max.Y(), a.Min.Z()},
		{a.Min.X(), a.Max.Y(), a.Max.Z()},
		{a.Max.X(), a.Min.Y(), a.Min.Z()},
		{a.Max.X(), a.Min.Y(), a.Max.Z()},
		{a.Max.X(), a.Max.Y(), a.Min.Z()},
		{a.Max.X(), a.Max.Y(), a.Max.Z()},
	}
}

// Edges returns the twelve box edges built from Vertices.
func (a AABB) Edges() [12]Edge {
	v := a.Vertices()
	var edges [12]Edge
	for i, idx := range edgeIndices {
		edges[i] = Edge{Start: v[idx[0]], End: v[idx[1]]}
	}
	return edges
}

// ContainsPoint checks if a point is inside the AABB, bounds included.
func (a AABB) ContainsPoint(p mgl64.Vec3) bool {
	return p.X() >= a.Min.X() && p.X() <= a.Max.X() &&
		p.Y() >= a.Min.Y() && p.Y() <= a.Max.Y() &&
		p.Z() >= a.Min.Z() && p.Z() <= a.Max.Z()
}

// Intersects reports whether the boxes share any point. Touching faces count.
func (a AABB) Intersects(b AABB) bool {
	return a.Min.X() <= b.Max.X() && a.Max.X() >= b.Min.X() &&
		a.Min.Y() <= b.Max.Y() && a.Max.Y() >= b.Min.Y() &&
		a.Min.Z() <= b.Max.Z() && a.Max.Z() >= b.Min.Z()
}

// Overlaps reports whether the boxes share interior volume. Touching faces do not count.
func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X() < b.Max.X() && a.Max.X() > b.Min.X() &&
		a.Min.Y() < b.Max.Y() && a.Max.Y() > b.Min.Y() &&
		a.Min.Z() < b.Max.Z() && a.Max.Z() > b.Min.Z()
}

// Translate returns the box moved by v.
func (a AABB) Translate(v mgl64.Vec3) AABB {
	return AABB{Min: a.Min.Add(v), Max: a.Max.Add(v)}
}

// ExpandByScalar grows the box by s on every side.
func (a AABB) ExpandByScalar(s float64) AABB {
	d := mgl64.Vec3{s, s, s}
	return AABB{Min: a.Min.Sub(d), Max: a.Max.Add(d)}
}

// Center is the midpoint of the box.
func (a AABB) Center() mgl64.Vec3 { return a.Min.Add(a.Max).Mul(0.5) }

// Size is the extent of the box along each axis.
func (a AABB) Size() mgl64.Vec3 { return a.Max.Sub(a.Min) }

// IsValid reports whether the bounds are finite and ordered.
func (a AABB) IsValid() bool {
	if HasNaN(a.Min) || HasNaN(a.Max) {
		return false
	}
	return a.Min.X() <= a.Max.X() && a.Min.Y() <= a.Max.Y() && a.Min.Z() <= a.Max.Z()
}

func (a AABB) String() string {
	return fmt.Sprintf("AABB{min:(%g,%g,%g) max:(%g,%g,%g)}",
		a.Min.X(), a.Min.Y(), a.Min.Z(), a.Max.X(), a.Max.Y(), a.Max.Z())
}
