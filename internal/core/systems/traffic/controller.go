package traffic

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/drivesim/drivesim/internal/core/observability/log"
)

// StateChange is emitted when a signal moves to its next state.
type StateChange struct {
	SignalID string
	From, To State
	At       time.Time
}

// Controller owns every signal of a world and drives them in a fixed order.
type Controller struct {
	signals []*Signal
	byID    map[string]*Signal
	logger  log.Log
}

// NewController manages signals in the order given.
func NewController(logger log.Log, signals ...*Signal) *Controller {
	if logger == nil {
		logger = log.NewNop()
	}
	c := &Controller{
		signals: signals,
		byID:    make(map[string]*Signal, len(signals)),
		logger:  logger.With(log.String("system", "traffic")),
	}
	for _, s := range signals {
		c.byID[s.ID] = s
	}
	return c
}

func (c *Controller) Signals() []*Signal { return c.signals }

// Get looks a signal up by id.
func (c *Controller) Get(id string) (*Signal, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Update advances every signal and returns the changes in signal order.
func (c *Controller) Update(now time.Time) []StateChange {
	var changes []StateChange
	for _, s := range c.signals {
		from := s.State
		if !s.Update(now) {
			continue
		}
		c.logger.Debug("signal changed",
			log.String("signal_id", s.ID),
			log.String("from", from.String()),
			log.String("to", s.State.String()))
		changes = append(changes, StateChange{SignalID: s.ID, From: from, To: s.State, At: now})
	}
	return changes
}

// CheckViolations runs the violation check of every signal against position.
func (c *Controller) CheckViolations(position mgl64.Vec3) []Violation {
	var out []Violation
	for _, s := range c.signals {
		if v, ok := s.CheckViolation(position); ok {
			c.logger.Info("signal violation",
				log.String("signal_id", s.ID),
				log.String("state", v.State.String()),
				log.Int64("penalty", v.Penalty))
			out = append(out, v)
		}
	}
	return out
}

// ShouldStop reports whether any signal holds traffic at position.
func (c *Controller) ShouldStop(position mgl64.Vec3) bool {
	for _, s := range c.signals {
		if s.ShouldStop(position) {
			return true
		}
	}
	return false
}
