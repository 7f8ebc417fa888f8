package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the length under which a movement is treated as no movement.
const Epsilon = 0.000001

// Axis directions used by the simulation. Forward is -Z, up is +Y.
var (
	Forward = mgl64.Vec3{0, 0, -1}
	Right   = mgl64.Vec3{1, 0, 0}
	Up      = mgl64.Vec3{0, 1, 0}
)

// Distance computes the Euclidean distance between two points.
func Distance(a, b mgl64.Vec3) float64 { return b.Sub(a).Len() }

// HasNaN reports whether any component is NaN or infinite.
func HasNaN(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return true
		}
	}
	return false
}

// IsZero reports whether v is shorter than Epsilon.
func IsZero(v mgl64.Vec3) bool { return v.Len() < Epsilon }

// RotateY rotates v around the vertical axis by yaw radians.
func RotateY(v mgl64.Vec3, yaw float64) mgl64.Vec3 {
	return mgl64.Rotate3DY(yaw).Mul3x1(v)
}

// ClosestPointOnSegment returns the point on segment [start,end] nearest to p.
func ClosestPointOnSegment(p, start, end mgl64.Vec3) mgl64.Vec3 {
	line := end.Sub(start)
	length := line.Len()
	if length < Epsilon {
		return start
	}
	dir := line.Mul(1 / length)

	dot := p.Sub(start).Dot(dir)
	if dot <= 0 {
		return start
	}
	if dot >= length {
		return end
	}
	return start.Add(dir.Mul(dot))
}
