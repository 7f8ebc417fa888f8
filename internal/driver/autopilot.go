package driver

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/drivesim/drivesim/internal/core/session"
	"github.com/drivesim/drivesim/internal/core/systems/physics"
)

const (
	defaultArrive = 3.0
	// Heading errors smaller than this are left alone.
	steerDeadband = 0.05
	// Sharper turns are taken without throttle.
	coastAngle = math.Pi / 6
	coastSpeed = 0.15
	// The car looks this far ahead for lights it has to stop at.
	brakeLookahead = 6.0
	// Closer than this to a light the car commits and drives through.
	brakeCommit = 8.0
)

// DefaultRoute circles the block between the four inner junctions of the
// stock grid, running down the middle of the roads.
func DefaultRoute() []mgl64.Vec3 {
	return []mgl64.Vec3{
		{20, 0, 20},
		{20, 0, -20},
		{-20, 0, -20},
		{-20, 0, 20},
	}
}

// Autopilot walks to the car, gets in, then steers towards each waypoint of a
// closed route in turn and brakes for red and yellow lights ahead.
type Autopilot struct {
	route  []mgl64.Vec3
	next   int
	arrive float64
}

// NewAutopilot follows route, or DefaultRoute when route is empty.
func NewAutopilot(route []mgl64.Vec3) *Autopilot {
	if len(route) == 0 {
		route = DefaultRoute()
	}
	return &Autopilot{route: route, arrive: defaultArrive}
}

// Waypoint is the index of the route point currently steered at.
func (a *Autopilot) Waypoint() int { return a.next }

// Next picks the controls for the coming tick.
func (a *Autopilot) Next(s *session.Session) session.Input {
	if !s.Driving() {
		return a.walkToCar(s)
	}

	car := s.Car()
	pos := car.Position()
	if flatDistance(pos, a.route[a.next]) < a.arrive {
		a.next = (a.next + 1) % len(a.route)
	}

	var in session.Input
	diff := wrapAngle(yawTowards(pos, a.route[a.next]) - car.Yaw())
	switch {
	case diff > steerDeadband:
		in.Controls.Left = true
	case diff < -steerDeadband:
		in.Controls.Right = true
	}

	switch {
	case a.mustBrake(s):
		in.Controls.Backward = car.Speed() > car.Config().Acceleration
	case math.Abs(diff) > coastAngle && car.Speed() > coastSpeed:
	default:
		in.Controls.Forward = true
	}
	return in
}

func (a *Autopilot) walkToCar(s *session.Session) session.Input {
	walker, car := s.Walker().Position(), s.Car().Position()
	// The session only lets the walker in once close enough.
	in := session.Input{ToggleDrive: true, Yaw: yawTowards(walker, car)}
	in.Controls.Forward = flatDistance(walker, car) > 1
	return in
}

// mustBrake reports whether a light that is red or yellow lies just ahead and
// the car is not yet committed to the junction.
func (a *Autopilot) mustBrake(s *session.Session) bool {
	car := s.Car()
	pos := car.Position()
	ahead := pos.Add(car.Heading().Mul(brakeLookahead))
	for _, sig := range s.City().Signals.Signals() {
		if !sig.State.Stops() {
			continue
		}
		now := physics.Distance(pos, sig.Position)
		next := physics.Distance(ahead, sig.Position)
		if next < sig.StopDistance() && next < now && now > brakeCommit {
			return true
		}
	}
	return false
}

// yawTowards is the yaw that points Forward from 'from' at 'to'.
func yawTowards(from, to mgl64.Vec3) float64 {
	d := to.Sub(from)
	return math.Atan2(-d.X(), -d.Z())
}

func flatDistance(a, b mgl64.Vec3) float64 {
	return math.Hypot(b.X()-a.X(), b.Z()-a.Z())
}

// wrapAngle maps a to (-pi, pi].
func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
