package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/drivesim/drivesim/internal/core/systems/physics"
)

// AABB is re-exported so callers of this package rarely need the physics import.
type AABB = physics.AABB

// DefaultMargin pads static boxes so touching faces do not chatter between ticks.
const DefaultMargin = 0.01

// Result describes one moving-box vs static-box query.
// Penetration is the per-axis correction to add to the movement; zero when Collides is false.
type Result struct {
	Collides    bool
	Penetration mgl64.Vec3
}

// Resolver computes axis-aligned corrections for a single static box.
type Resolver struct {
	margin float64
}

// NewResolver creates a resolver. A non-positive margin selects DefaultMargin.
func NewResolver(margin float64) *Resolver {
	if margin <= 0 {
		margin = DefaultMargin
	}
	return &Resolver{margin: margin}
}

// Margin is the padding added around every static box.
func (r *Resolver) Margin() float64 { return r.margin }

// Check tests movingBox translated by movement against staticBox.
//
// Penetration is evaluated per axis against the padded static box and is not a
// swept test: an axis only keeps its penetration if it is no larger than the
// movement along that axis, so fast actors can tunnel through thin obstacles.
// The comparison allows Epsilon of rounding so an actor resting at contact and
// pushing into the face stays blocked.
func (r *Resolver) Check(movingBox AABB, movement mgl64.Vec3, staticBox AABB) Result {
	expanded := staticBox.ExpandByScalar(r.margin)
	future := movingBox.Translate(movement)
	if !future.Overlaps(expanded) {
		return Result{}
	}

	var pen mgl64.Vec3
	for axis := range 3 {
		var p float64
		if movement[axis] > 0 {
			p = expanded.Min[axis] - future.Max[axis]
		} else {
			p = expanded.Max[axis] - future.Min[axis]
		}
		if math.Abs(p) > math.Abs(movement[axis])+physics.Epsilon {
			p = 0
		}
		pen[axis] = p
	}

	return Result{Collides: true, Penetration: pen}
}

// Resolve returns the movement from current towards target corrected against staticBox.
//
// Between the horizontal axes the one with the larger penetration (Z on ties) is
// blocked at contact while the other keeps its full movement, so the actor slides
// along the face. Any vertical penetration stops vertical motion outright.
func (r *Resolver) Resolve(current, target mgl64.Vec3, movingBox, staticBox AABB) (mgl64.Vec3, Result) {
	movement := target.Sub(current)
	res := r.Check(movingBox, movement, staticBox)
	if !res.Collides {
		return movement, res
	}

	corrected := movement.Add(res.Penetration)
	if math.Abs(res.Penetration.X()) > math.Abs(res.Penetration.Z()) {
		corrected[2] = movement.Z()
	} else {
		corrected[0] = movement.X()
	}
	if res.Penetration.Y() != 0 {
		corrected[1] = 0
	}

	return corrected, res
}
