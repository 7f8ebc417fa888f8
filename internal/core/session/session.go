package session

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/drivesim/drivesim/internal/core/events/bus"
	"github.com/drivesim/drivesim/internal/core/observability/log"
	"github.com/drivesim/drivesim/internal/core/systems/collision"
	"github.com/drivesim/drivesim/internal/core/systems/physics"
	"github.com/drivesim/drivesim/internal/core/systems/scoring"
	"github.com/drivesim/drivesim/internal/core/systems/traffic"
	"github.com/drivesim/drivesim/internal/core/systems/vehicle"
	"github.com/drivesim/drivesim/internal/core/world"
)

// EventSource is the source stamped on every event a session publishes.
const EventSource = "session"

// Config holds the actors and rules of one driving session.
type Config struct {
	Spawn         mgl64.Vec3           `yaml:"spawn"`
	CarSpawn      mgl64.Vec3           `yaml:"car_spawn"`
	CarYaw        float64              `yaml:"car_yaw"`
	EnterDistance float64              `yaml:"enter_distance"`
	ExitOffset    mgl64.Vec3           `yaml:"exit_offset"`
	EyeHeight     float64              `yaml:"eye_height"`
	Car           vehicle.CarConfig    `yaml:"car"`
	Walker        vehicle.WalkerConfig `yaml:"walker"`
	AICars        vehicle.AICarConfig  `yaml:"ai_cars"`
	Scoring       scoring.Config       `yaml:"scoring"`
}

// DefaultConfig spawns the walker next to a parked car facing +z.
func DefaultConfig() Config {
	return Config{
		Spawn:         mgl64.Vec3{13, 2, 10},
		CarSpawn:      mgl64.Vec3{10, 0, 10},
		CarYaw:        math.Pi,
		EnterDistance: 4,
		ExitOffset:    mgl64.Vec3{2, 0, 0},
		EyeHeight:     2,
		Car:           vehicle.DefaultCarConfig(),
		Walker:        vehicle.DefaultWalkerConfig(),
		AICars:        vehicle.DefaultAICarConfig(),
		Scoring:       scoring.Config{},
	}
}

// Input is what the player does during one tick.
type Input struct {
	Controls vehicle.Controls
	// ToggleDrive enters the car when close enough, or leaves it when driving.
	ToggleDrive bool
	// Yaw is the walker's look direction. It is ignored while driving.
	Yaw float64
	// Frame is the wall time the tick covers; it scales walking speed.
	Frame time.Duration
}

// TickResult summarises what happened during one tick.
type TickResult struct {
	Tick          uint64
	Driving       bool
	Position      mgl64.Vec3
	Movement      mgl64.Vec3
	CarHit        bool
	SignalChanges []traffic.StateChange
	Violations    []traffic.Violation
	Score         scoring.Delta
	Scored        bool
	Status        scoring.Status
	Published     int
}

// Session is the explicit state of a single game. It is driven by one
// goroutine calling Tick and is not safe for concurrent use.
type Session struct {
	cfg        Config
	city       *world.City
	obstacles  []physics.Obstacle
	collisions *collision.System
	score      *scoring.Monitor
	bus        bus.EventBus
	logger     log.Log

	walker  *vehicle.Walker
	car     *vehicle.Car
	aiCars  []*vehicle.AICar
	driving bool
	tick    uint64
}

// New starts a session at now in city. Scoring and signal timers count from now.
func New(cfg Config, city *world.City, collisions *collision.System, events bus.EventBus, logger log.Log, now time.Time) *Session {
	if logger == nil {
		logger = log.NewNop()
	}
	if collisions == nil {
		collisions = collision.NewSystem(nil, logger)
	}
	if events == nil {
		events = bus.New()
	}

	aiCars := make([]*vehicle.AICar, 0, max(cfg.AICars.Count, 0))
	for i := range cfg.AICars.Count {
		// Spread the cars evenly around the loop.
		start := i * cfg.AICars.PathPoints / cfg.AICars.Count
		aiCars = append(aiCars, vehicle.NewAICar(cfg.AICars, start))
	}

	return &Session{
		cfg:        cfg,
		city:       city,
		obstacles:  city.ObstacleList(),
		collisions: collisions,
		score:      scoring.NewMonitor(city.Grid, now, cfg.Scoring, logger),
		bus:        events,
		logger:     logger.With(log.String("component", "session")),
		walker:     vehicle.NewWalker(cfg.Walker, cfg.Spawn, 0),
		car:        vehicle.NewCar(cfg.Car, cfg.CarSpawn, cfg.CarYaw),
		aiCars:     aiCars,
	}
}

// Driving reports whether the player is in the car.
func (s *Session) Driving() bool { return s.driving }

func (s *Session) Walker() *vehicle.Walker { return s.walker }

func (s *Session) Car() *vehicle.Car { return s.car }

func (s *Session) AICars() []*vehicle.AICar { return s.aiCars }

func (s *Session) City() *world.City { return s.city }

// Score is the monitor holding the points and game status.
func (s *Session) Score() *scoring.Monitor { return s.score }

// ActorPosition is the car's position while driving, else the walker's.
func (s *Session) ActorPosition() mgl64.Vec3 { return s.Actor().Position() }

// Actor is whoever the player currently controls: the car or the walker.
func (s *Session) Actor() physics.Transform {
	if s.driving {
		return s.car
	}
	return s.walker
}

// Tick advances the session by one frame at now.
func (s *Session) Tick(now time.Time, in Input) TickResult {
	s.tick++
	res := TickResult{Tick: s.tick}
	var events []bus.Event

	res.SignalChanges = s.city.Signals.Update(now)
	for _, c := range res.SignalChanges {
		events = append(events, bus.NewEventAt(bus.TypeSignalState, EventSource,
			bus.SignalState{SignalID: c.SignalID, State: c.To.String()}, now))
	}

	if in.ToggleDrive {
		s.toggleDrive()
	}

	if s.driving {
		res.Movement, res.CarHit = s.moveCar(in.Controls)
	} else {
		res.Movement = s.moveWalker(in)
	}

	for _, ai := range s.aiCars {
		ai.Update(s.city.Signals)
	}

	pos := s.ActorPosition()
	for _, v := range s.city.Signals.CheckViolations(pos) {
		res.Violations = append(res.Violations, v)
		d, ok := s.score.ApplyPenalty(v.Penalty)
		if !ok {
			continue
		}
		events = append(events, bus.NewEventAt(bus.TypeSignalViolation, EventSource,
			bus.SignalViolation{SignalID: v.SignalID, Penalty: v.Penalty, Total: d.Total}, now))
		if d.StatusChanged {
			events = append(events, s.statusEvent(d, now))
		}
	}

	if d, ok := s.score.Sample(now, pos, s.driving); ok {
		res.Score, res.Scored = d, true
		events = append(events, bus.NewEventAt(bus.TypeScorePoints, EventSource,
			bus.ScorePoints{Delta: d.Points, Total: d.Total, OnRoad: d.OnRoad}, now))
		if d.StatusChanged {
			events = append(events, s.statusEvent(d, now))
		}
	}

	if err := s.bus.PublishBatch(events...); err != nil {
		s.logger.Warn("event delivery failed", log.Error(err), log.Int64("tick", int64(s.tick)))
	}

	res.Driving = s.driving
	res.Position = pos
	res.Status = s.score.Status()
	res.Published = len(events)
	return res
}

func (s *Session) statusEvent(d scoring.Delta, now time.Time) bus.Event {
	return bus.NewEventAt(bus.TypeScoreStatus, EventSource,
		bus.ScoreStatus{Status: d.Status.String(), Points: d.Total}, now)
}

func (s *Session) toggleDrive() {
	if s.driving {
		s.driving = false
		s.walker.SetPosition(s.car.ExitPoint(s.cfg.ExitOffset, s.cfg.EyeHeight))
		s.logger.Debug("left the car", log.Vec3("position", s.walker.Position()))
		return
	}
	if physics.Distance(s.walker.Position(), s.car.Position()) < s.cfg.EnterDistance {
		s.driving = true
		s.logger.Debug("entered the car", log.Vec3("position", s.car.Position()))
	}
}

func (s *Session) moveWalker(in Input) mgl64.Vec3 {
	s.walker.SetYaw(in.Yaw)
	current := s.walker.Position()
	target := s.walker.Step(in.Controls, in.Frame)
	move := s.collisions.ResolveAgainstAll(current, target, s.walker.BoundingBox(), s.obstacles)
	s.walker.SetPosition(current.Add(move))
	return move
}

// moveCar resolves the car against static obstacles, then refuses any move
// that would touch an AI car.
func (s *Session) moveCar(ctl vehicle.Controls) (mgl64.Vec3, bool) {
	current := s.car.Position()
	target := s.car.Step(ctl)
	move := s.collisions.ResolveAgainstAll(current, target, s.car.BoundingBox(), s.obstacles)
	next := current.Add(move)

	others := make([]physics.Obstacle, len(s.aiCars))
	for i, ai := range s.aiCars {
		others[i] = ai
	}
	if s.collisions.AnyCollision(s.car.BoundingBoxAt(next), others) {
		s.car.Stop()
		s.logger.Info("hit another car", log.Vec3("position", current))
		return mgl64.Vec3{}, true
	}

	s.car.SetPosition(next)
	return move, false
}
