package world

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/drivesim/drivesim/internal/core/observability/log"
	"github.com/drivesim/drivesim/internal/core/systems/physics"
	"github.com/drivesim/drivesim/internal/core/systems/traffic"
)

var (
	ErrNotAnIntersection = errors.New("signal is not placed on an intersection")
	ErrDuplicateSignalID = errors.New("duplicate signal id")
)

// SignalPlacement places one traffic light.
type SignalPlacement struct {
	ID string     `yaml:"id"`
	At mgl64.Vec3 `yaml:"at"`
}

// SignalsConfig places traffic lights on intersections of the grid.
type SignalsConfig struct {
	Placements []SignalPlacement   `yaml:"placements"`
	ZoneHeight float64        `yaml:"zone_height"`
	Timing     traffic.Config `yaml:"timing"`
}

func DefaultSignalsConfig() SignalsConfig {
	return SignalsConfig{
		Placements: []SignalPlacement{
			{ID: "ne", At: mgl64.Vec3{20, 0, -20}},
			{ID: "nw", At: mgl64.Vec3{-20, 0, -20}},
			{ID: "se", At: mgl64.Vec3{20, 0, 20}},
			{ID: "sw", At: mgl64.Vec3{-20, 0, 20}},
		},
		ZoneHeight: 5,
	}
}

// Config describes a whole city.
type Config struct {
	Grid      GridConfig     `yaml:"grid"`
	Obstacles ObstacleConfig `yaml:"obstacles"`
	Signals   SignalsConfig  `yaml:"signals"`
}

// DefaultConfig is the stock city with a light at each inner junction.
func DefaultConfig() Config {
	return Config{
		Grid:      DefaultGridConfig(),
		Obstacles: DefaultObstacleConfig(),
		Signals:   DefaultSignalsConfig(),
	}
}

// City is the static world the actor moves through.
type City struct {
	Grid      *Grid
	Obstacles []*Cube
	Signals   *traffic.Controller
}

// NewCity builds the grid, scatters the obstacles and places the signals.
// All signal timers start at now.
func NewCity(cfg Config, now time.Time, logger log.Log) (*City, error) {
	if logger == nil {
		logger = log.NewNop()
	}

	grid := NewGrid(cfg.Grid)
	seen := make(map[string]struct{}, len(cfg.Signals.Placements))
	signals := make([]*traffic.Signal, 0, len(cfg.Signals.Placements))
	for _, p := range cfg.Signals.Placements {
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSignalID, p.ID)
		}
		seen[p.ID] = struct{}{}
		if !grid.IsIntersection(p.At) {
			return nil, fmt.Errorf("%w: %s at (%g, %g)", ErrNotAnIntersection, p.ID, p.At.X(), p.At.Z())
		}
		zone := grid.IntersectionZone(p.At, cfg.Signals.ZoneHeight)
		signals = append(signals, traffic.NewSignal(p.ID, p.At, zone, now, cfg.Signals.Timing))
	}

	city := &City{
		Grid:      grid,
		Obstacles: Generate(cfg.Obstacles),
		Signals:   traffic.NewController(logger, signals...),
	}
	logger.Info("city built",
		log.Int("roads", len(grid.Roads())),
		log.Int("obstacles", len(city.Obstacles)),
		log.Int("signals", len(signals)))
	return city, nil
}

// ObstacleList returns the cubes as collision obstacles, in generation order.
func (c *City) ObstacleList() []physics.Obstacle {
	out := make([]physics.Obstacle, len(c.Obstacles))
	for i, cube := range c.Obstacles {
		out[i] = cube
	}
	return out
}
