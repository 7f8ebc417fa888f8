package physics

import "github.com/go-gl/mathgl/mgl64"

// Obstacle is anything the collision system can be tested against.
// Implementations own their box and keep it current when their pose changes.
type Obstacle interface {
	BoundingBox() AABB
}

// Transform provides the world position of an actor.
type Transform interface {
	Position() mgl64.Vec3
}

// BoxObstacle adapts a bare AABB to the Obstacle interface.
type BoxObstacle AABB

// BoundingBox returns the wrapped box.
func (b BoxObstacle) BoundingBox() AABB { return AABB(b) }

// Boxes wraps plain boxes as obstacles, keeping their order.
func Boxes(boxes ...AABB) []Obstacle {
	out := make([]Obstacle, len(boxes))
	for i, b := range boxes {
		out[i] = BoxObstacle(b)
	}
	return out
}
