package vehicle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/drivesim/drivesim/internal/core/systems/physics"
)

var (
	_ physics.Transform = (*Car)(nil)
	_ physics.Transform = (*AICar)(nil)
	_ physics.Transform = (*Walker)(nil)
	_ physics.Obstacle  = (*AICar)(nil)
)

// Controls are the held movement keys for one tick. Cars ignore Up and Down.
type Controls struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Up       bool
	Down     bool
}

// CarConfig holds the per-tick kinematics of a car.
type CarConfig struct {
	Acceleration float64    `yaml:"acceleration"`
	Deceleration float64    `yaml:"deceleration"`
	MaxSpeed     float64    `yaml:"max_speed"`
	TurnSpeed    float64    `yaml:"turn_speed"`
	Size         mgl64.Vec3 `yaml:"size"`
}

func DefaultCarConfig() CarConfig {
	return CarConfig{
		Acceleration: 0.01,
		Deceleration: 0.005,
		MaxSpeed:     0.3,
		TurnSpeed:    0.03,
		Size:         mgl64.Vec3{2, 2.3, 4},
	}
}

// Car is the learner's vehicle. Speed is in world units per tick and may be
// negative when reversing.
type Car struct {
	cfg      CarConfig
	position mgl64.Vec3
	yaw      float64
	speed    float64
}

// NewCar parks a car at position facing yaw.
func NewCar(cfg CarConfig, position mgl64.Vec3, yaw float64) *Car {
	return &Car{cfg: cfg, position: position, yaw: yaw}
}

func (c *Car) Config() CarConfig { return c.cfg }

func (c *Car) Position() mgl64.Vec3 { return c.position }

func (c *Car) SetPosition(p mgl64.Vec3) { c.position = p }

func (c *Car) Yaw() float64 { return c.yaw }

// Speed is the signed forward speed per tick; negative when reversing.
func (c *Car) Speed() float64 { return c.speed }

// Stop kills all speed, for example after hitting another car.
func (c *Car) Stop() { c.speed = 0 }

// Heading is the unit vector the car points along.
func (c *Car) Heading() mgl64.Vec3 { return physics.RotateY(physics.Forward, c.yaw) }

// Step applies the controls to speed and heading and returns the position the
// car wants to reach this tick. The position itself is left unchanged so the
// caller can resolve the move against obstacles first. Steering takes effect
// from the next tick.
func (c *Car) Step(ctl Controls) mgl64.Vec3 {
	switch {
	case ctl.Forward:
		c.speed = math.Min(c.speed+c.cfg.Acceleration, c.cfg.MaxSpeed)
	case ctl.Backward:
		c.speed = math.Max(c.speed-c.cfg.Acceleration, -c.cfg.MaxSpeed/2)
	case c.speed > 0:
		c.speed = math.Max(0, c.speed-c.cfg.Deceleration)
	case c.speed < 0:
		c.speed = math.Min(0, c.speed+c.cfg.Deceleration)
	}

	target := c.position
	if c.speed != 0 {
		target = c.position.Add(c.Heading().Mul(c.speed))
	}

	if ctl.Left {
		c.yaw += c.cfg.TurnSpeed
	}
	if ctl.Right {
		c.yaw -= c.cfg.TurnSpeed
	}
	return target
}

// BoundingBox is the box of the car body resting on its position.
func (c *Car) BoundingBox() physics.AABB { return c.BoundingBoxAt(c.position) }

// BoundingBoxAt is the box the car would have at p.
func (c *Car) BoundingBoxAt(p mgl64.Vec3) physics.AABB {
	return physics.FromCenterAndSize(p.Add(mgl64.Vec3{0, c.cfg.Size.Y() / 2, 0}), c.cfg.Size)
}

// ExitPoint is where a driver stands after leaving the car: offset by side in
// the car's own frame, at eye height.
func (c *Car) ExitPoint(side mgl64.Vec3, eyeHeight float64) mgl64.Vec3 {
	p := c.position.Add(physics.RotateY(side, c.yaw))
	p[1] = eyeHeight
	return p
}
