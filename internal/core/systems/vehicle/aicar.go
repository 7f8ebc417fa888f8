package vehicle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/drivesim/drivesim/internal/core/systems/physics"
)

// StopChecker tells traffic whether it must hold at a position.
type StopChecker interface {
	ShouldStop(position mgl64.Vec3) bool
}

// AICarConfig describes the loop driven by computer-controlled cars.
type AICarConfig struct {
	Count          int        `yaml:"count"`
	Centre         mgl64.Vec3 `yaml:"centre"`
	PathRadius     float64    `yaml:"path_radius"`
	PathPoints     int        `yaml:"path_points"`
	Speed          float64    `yaml:"speed"`
	ArriveDistance float64    `yaml:"arrive_distance"`
	Size           mgl64.Vec3 `yaml:"size"`
}

func DefaultAICarConfig() AICarConfig {
	return AICarConfig{
		Count:          2,
		PathRadius:     50,
		PathPoints:     36,
		Speed:          0.1,
		ArriveDistance: 0.5,
		Size:           mgl64.Vec3{2, 2.3, 4},
	}
}

// CirclePath returns n points evenly spaced on a horizontal circle.
func CirclePath(centre mgl64.Vec3, radius float64, n int) []mgl64.Vec3 {
	points := make([]mgl64.Vec3, max(n, 0))
	for i := range points {
		angle := float64(i) / float64(n) * 2 * math.Pi
		points[i] = centre.Add(mgl64.Vec3{math.Cos(angle) * radius, 0, math.Sin(angle) * radius})
	}
	return points
}

// AICar follows a closed path of waypoints and holds at red or yellow lights.
type AICar struct {
	cfg      AICarConfig
	path     []mgl64.Vec3
	next     int
	position mgl64.Vec3
	stopped  bool
}

// NewAICar places a car on waypoint start of its path, heading for the one after.
func NewAICar(cfg AICarConfig, start int) *AICar {
	path := CirclePath(cfg.Centre, cfg.PathRadius, cfg.PathPoints)
	c := &AICar{cfg: cfg, path: path}
	if len(path) > 0 {
		start = ((start % len(path)) + len(path)) % len(path)
		c.position = path[start]
		c.next = (start + 1) % len(path)
	}
	return c
}

func (c *AICar) Position() mgl64.Vec3 { return c.position }

func (c *AICar) Path() []mgl64.Vec3 { return c.path }

// Target is the waypoint the car is heading for.
func (c *AICar) Target() mgl64.Vec3 {
	if len(c.path) == 0 {
		return c.position
	}
	return c.path[c.next]
}

// Stopped reports whether the car held position on its last update.
func (c *AICar) Stopped() bool { return c.stopped }

// BoundingBox is the car collider at its current position.
func (c *AICar) BoundingBox() physics.AABB {
	return physics.FromCenterAndSize(c.position.Add(mgl64.Vec3{0, c.cfg.Size.Y() / 2, 0}), c.cfg.Size)
}

// Update moves the car one tick along its path unless lights tell it to stop.
func (c *AICar) Update(lights StopChecker) {
	if len(c.path) == 0 {
		return
	}
	c.stopped = lights != nil && lights.ShouldStop(c.position)
	if c.stopped {
		return
	}

	target := c.path[c.next]
	toTarget := target.Sub(c.position)
	if dist := toTarget.Len(); dist > physics.Epsilon {
		c.position = c.position.Add(toTarget.Mul(c.cfg.Speed / dist))
	}
	if physics.Distance(c.position, target) < c.cfg.ArriveDistance {
		c.next = (c.next + 1) % len(c.path)
	}
}
