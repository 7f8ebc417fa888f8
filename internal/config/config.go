package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/drivesim/drivesim/internal/core/observability/log"
	"github.com/drivesim/drivesim/internal/core/session"
	"github.com/drivesim/drivesim/internal/core/systems/collision"
	"github.com/drivesim/drivesim/internal/core/systems/scoring"
	"github.com/drivesim/drivesim/internal/core/systems/traffic"
	"github.com/drivesim/drivesim/internal/core/world"
	"github.com/drivesim/drivesim/internal/driver"
	"github.com/drivesim/drivesim/internal/server"
)

// Validation errors
var (
	ErrInvalidTickRate   = errors.New("tick rate must be positive")
	ErrInvalidMargin     = errors.New("collision margin must not be negative")
	ErrInvalidGrid       = errors.New("invalid road grid")
	ErrInvalidObstacles  = errors.New("invalid obstacle generation")
	ErrInvalidTiming     = errors.New("invalid signal timing")
	ErrInvalidScoring    = errors.New("invalid scoring rules")
	ErrInvalidVehicle    = errors.New("invalid vehicle settings")
	ErrInvalidAICars     = errors.New("invalid AI car settings")
	ErrInvalidServerAddr = errors.New("server address is required when the feed is enabled")
)

// Config is the whole runtime configuration of the headless driver.
type Config struct {
	Log       log.Config      `yaml:"log"`
	Server    server.Config   `yaml:"server"`
	Loop      driver.Config   `yaml:"loop"`
	Collision CollisionConfig `yaml:"collision"`
	World     world.Config    `yaml:"world"`
	Session   session.Config  `yaml:"session"`
}

type CollisionConfig struct {
	Margin float64 `yaml:"margin"`
}

// Default returns a configuration that runs the stock city.
func Default() Config {
	w := world.DefaultConfig()
	w.Signals.Timing = traffic.Config{
		Dwell:        traffic.DefaultDwell,
		Penalty:      traffic.DefaultPenalty,
		StopDistance: traffic.DefaultStopDistance,
	}

	s := session.DefaultConfig()
	s.Scoring = scoring.Config{
		SampleInterval: scoring.DefaultSampleInterval,
		OnRoadPoints:   scoring.DefaultOnRoadPoints,
		OffRoadPenalty: scoring.DefaultOffRoadPenalty,
		WinThreshold:   scoring.DefaultWinThreshold,
		FailThreshold:  scoring.DefaultFailThreshold,
	}

	return Config{
		Log:       log.Config{Level: "info", Encoding: "json"},
		Server:    server.DefaultConfig(),
		Loop:      driver.DefaultConfig(),
		Collision: CollisionConfig{Margin: collision.DefaultMargin},
		World:     w,
		Session:   s,
	}
}

// Load reads a YAML file and overlays it on Default.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode overlays the YAML document in r on Default and validates the result.
// Unknown keys are rejected. An empty document yields the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem found, joined.
func (c Config) Validate() error {
	var errs []error

	if c.Loop.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidTickRate, c.Loop.TickRate))
	}
	if c.Collision.Margin < 0 {
		errs = append(errs, fmt.Errorf("%w: %g", ErrInvalidMargin, c.Collision.Margin))
	}
	if c.Server.Enabled && c.Server.Addr == "" {
		errs = append(errs, ErrInvalidServerAddr)
	}

	g := c.World.Grid
	if g.Size <= 0 || g.BlockSize <= 0 || g.RoadWidth <= 0 || g.RoadWidth >= g.BlockSize {
		errs = append(errs, fmt.Errorf("%w: size %g, block %g, road width %g", ErrInvalidGrid, g.Size, g.BlockSize, g.RoadWidth))
	}
	if o := c.World.Obstacles; o.Count < 0 || o.Extent <= 0 {
		errs = append(errs, fmt.Errorf("%w: count %d, extent %g", ErrInvalidObstacles, o.Count, o.Extent))
	}
	if t := c.World.Signals.Timing; t.Dwell < 0 || t.Penalty < 0 || t.StopDistance < 0 {
		errs = append(errs, fmt.Errorf("%w: dwell %s, penalty %d", ErrInvalidTiming, t.Dwell, t.Penalty))
	}

	sc := c.Session.Scoring
	if sc.SampleInterval < 0 || sc.OnRoadPoints < 0 || sc.OffRoadPenalty < 0 {
		errs = append(errs, fmt.Errorf("%w: negative interval or points", ErrInvalidScoring))
	}
	if sc.WinThreshold > 0 && sc.FailThreshold >= sc.WinThreshold {
		errs = append(errs, fmt.Errorf("%w: fail threshold %d is not below win threshold %d", ErrInvalidScoring, sc.FailThreshold, sc.WinThreshold))
	}

	car := c.Session.Car
	if car.MaxSpeed <= 0 || car.Acceleration <= 0 || car.Deceleration < 0 {
		errs = append(errs, fmt.Errorf("%w: car speed %g, acceleration %g", ErrInvalidVehicle, car.MaxSpeed, car.Acceleration))
	}
	if c.Session.Walker.Speed <= 0 {
		errs = append(errs, fmt.Errorf("%w: walker speed %g", ErrInvalidVehicle, c.Session.Walker.Speed))
	}
	if c.Session.EnterDistance <= 0 {
		errs = append(errs, fmt.Errorf("%w: enter distance %g", ErrInvalidVehicle, c.Session.EnterDistance))
	}

	ai := c.Session.AICars
	if ai.Count < 0 || (ai.Count > 0 && (ai.PathPoints < 2 || ai.PathRadius <= 0 || ai.Speed <= 0)) {
		errs = append(errs, fmt.Errorf("%w: count %d, path points %d", ErrInvalidAICars, ai.Count, ai.PathPoints))
	}

	return errors.Join(errs...)
}
