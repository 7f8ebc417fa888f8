package injector

import (
	"time"

	"github.com/google/wire"

	"github.com/drivesim/drivesim/internal/config"
	"github.com/drivesim/drivesim/internal/core/events/bus"
	"github.com/drivesim/drivesim/internal/core/observability/log"
	"github.com/drivesim/drivesim/internal/core/session"
	"github.com/drivesim/drivesim/internal/core/systems/collision"
	"github.com/drivesim/drivesim/internal/core/world"
	"github.com/drivesim/drivesim/internal/driver"
	"github.com/drivesim/drivesim/internal/server"
)

// App is everything the headless driver runs.
type App struct {
	Config config.Config
	Logger log.Log
	Events bus.EventBus
	Loop   *driver.Loop
	Server *server.Server
}

// ProviderSet builds an App from a validated config and a start time.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	bus.New,
	ProvideCollisionSystem,
	ProvideCity,
	ProvideSession,
	ProvideInput,
	ProvideLoop,
	ProvideServer,
	wire.Struct(new(App), "*"),
)

// ProvideLogger builds the root logger. The cleanup flushes it.
func ProvideLogger(cfg config.Config) (log.Log, func(), error) {
	logger, err := log.NewWithConfig(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func ProvideCollisionSystem(cfg config.Config, logger log.Log) *collision.System {
	return collision.NewSystem(collision.NewResolver(cfg.Collision.Margin), logger)
}

func ProvideCity(cfg config.Config, start time.Time, logger log.Log) (*world.City, error) {
	return world.NewCity(cfg.World, start, logger)
}

func ProvideSession(cfg config.Config, city *world.City, collisions *collision.System, events bus.EventBus, logger log.Log, start time.Time) *session.Session {
	return session.New(cfg.Session, city, collisions, events, logger, start)
}

// ProvideInput selects the autopilot or idle controls.
func ProvideInput(cfg config.Config) driver.InputSource {
	if cfg.Loop.Autopilot {
		return driver.NewAutopilot(driver.DefaultRoute())
	}
	return driver.Idle{}
}

func ProvideLoop(cfg config.Config, s *session.Session, input driver.InputSource, logger log.Log) *driver.Loop {
	return driver.NewLoop(cfg.Loop, s, input, logger)
}

func ProvideServer(cfg config.Config, events bus.EventBus, logger log.Log) *server.Server {
	return server.NewServer(cfg.Server, events, logger)
}
