package world

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/drivesim/drivesim/internal/core/systems/physics"
)

var _ physics.Obstacle = (*Cube)(nil)

// Cube is a static box obstacle. Its bounding box is kept in step with its pose.
type Cube struct {
	position mgl64.Vec3
	size     mgl64.Vec3
	box      physics.AABB
}

// NewCube creates a cube of the given size centred on position.
func NewCube(size, position mgl64.Vec3) *Cube {
	c := &Cube{size: size}
	c.SetPosition(position)
	return c
}

func (c *Cube) Position() mgl64.Vec3 { return c.position }

func (c *Cube) Size() mgl64.Vec3 { return c.size }

// SetPosition moves the cube and recomputes its box in place.
func (c *Cube) SetPosition(p mgl64.Vec3) {
	c.position = p
	c.box = physics.FromCenterAndSize(p, c.size)
}

func (c *Cube) BoundingBox() physics.AABB { return c.box }
