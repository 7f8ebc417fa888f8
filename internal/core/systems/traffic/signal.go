package traffic

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/drivesim/drivesim/internal/core/systems/physics"
)

const (
	DefaultDwell        = 5 * time.Second
	DefaultPenalty      = int64(50)
	DefaultStopDistance = 10.0
)

// State is the lamp currently lit on a signal.
type State uint8

const (
	Red State = iota
	Green
	Yellow
)

func (s State) String() string {
	switch s {
	case Red:
		return "red"
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	default:
		return "unknown"
	}
}

// Next returns the state that follows s in the red, green, yellow cycle.
func (s State) Next() State {
	switch s {
	case Red:
		return Green
	case Green:
		return Yellow
	default:
		return Red
	}
}

// Stops reports whether traffic must not enter the junction.
func (s State) Stops() bool { return s == Red || s == Yellow }

// Occupancy tracks where the actor is relative to a signal's violation zone.
type Occupancy uint8

const (
	OutsideZone Occupancy = iota
	InsideZone
	// InsideZoneFlagged means a violation was already reported for the current visit.
	InsideZoneFlagged
)

func (o Occupancy) String() string {
	switch o {
	case OutsideZone:
		return "outside"
	case InsideZone:
		return "inside"
	case InsideZoneFlagged:
		return "inside_flagged"
	default:
		return "unknown"
	}
}

// Config holds per-signal tunables. Zero values select the defaults.
type Config struct {
	Dwell        time.Duration `yaml:"dwell"`
	Penalty      int64         `yaml:"penalty"`
	StopDistance float64       `yaml:"stop_distance"`
}

func (c Config) withDefaults() Config {
	if c.Dwell <= 0 {
		c.Dwell = DefaultDwell
	}
	if c.Penalty <= 0 {
		c.Penalty = DefaultPenalty
	}
	if c.StopDistance <= 0 {
		c.StopDistance = DefaultStopDistance
	}
	return c
}

// Violation is reported once per visit when the actor enters a zone on red or yellow.
type Violation struct {
	SignalID string
	State    State
	Penalty  int64
	Position mgl64.Vec3
}

// Signal is a single traffic light guarding one intersection.
type Signal struct {
	ID         string
	Position   mgl64.Vec3
	State      State
	LastChange time.Time
	Dwell      time.Duration
	Zone       physics.AABB
	Occupancy  Occupancy

	penalty      int64
	stopDistance float64
}

// NewSignal creates a red signal whose dwell timer starts at now.
func NewSignal(id string, position mgl64.Vec3, zone physics.AABB, now time.Time, cfg Config) *Signal {
	cfg = cfg.withDefaults()
	return &Signal{
		ID:           id,
		Position:     position,
		State:        Red,
		LastChange:   now,
		Dwell:        cfg.Dwell,
		Zone:         zone,
		Occupancy:    OutsideZone,
		penalty:      cfg.Penalty,
		stopDistance: cfg.StopDistance,
	}
}

// Penalty is the points deducted for entering the junction on red.
func (s *Signal) Penalty() int64 { return s.penalty }

// StopDistance is the radius within which AI cars hold while the light stops traffic.
func (s *Signal) StopDistance() float64 { return s.stopDistance }

// Update advances the cycle by one step once more than Dwell has passed since
// the last change. It reports whether the state changed.
func (s *Signal) Update(now time.Time) bool {
	if now.Sub(s.LastChange) <= s.Dwell {
		return false
	}
	s.State = s.State.Next()
	s.LastChange = now
	return true
}

// CheckViolation is edge-triggered: at most one violation is reported per
// visit to the zone, and the visit only ends once the position leaves it.
func (s *Signal) CheckViolation(position mgl64.Vec3) (Violation, bool) {
	if !s.Zone.ContainsPoint(position) {
		s.Occupancy = OutsideZone
		return Violation{}, false
	}
	if s.Occupancy == InsideZoneFlagged {
		return Violation{}, false
	}
	if !s.State.Stops() {
		s.Occupancy = InsideZone
		return Violation{}, false
	}

	s.Occupancy = InsideZoneFlagged
	return Violation{
		SignalID: s.ID,
		State:    s.State,
		Penalty:  s.penalty,
		Position: position,
	}, true
}

// ShouldStop reports whether traffic at position must hold for this signal.
func (s *Signal) ShouldStop(position mgl64.Vec3) bool {
	return s.State.Stops() && physics.Distance(position, s.Position) < s.stopDistance
}
