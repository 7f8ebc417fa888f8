package driver

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivesim/drivesim/internal/core/events/bus"
	"github.com/drivesim/drivesim/internal/core/observability/log"
	"github.com/drivesim/drivesim/internal/core/session"
	"github.com/drivesim/drivesim/internal/core/systems/collision"
	"github.com/drivesim/drivesim/internal/core/systems/physics"
	"github.com/drivesim/drivesim/internal/core/systems/scoring"
	"github.com/drivesim/drivesim/internal/core/systems/vehicle"
	"github.com/drivesim/drivesim/internal/core/world"
)

var epoch = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

const tick = time.Second / 60

type inputFunc func(*session.Session) session.Input

func (f inputFunc) Next(s *session.Session) session.Input { return f(s) }

func newSession(t *testing.T, signals []world.SignalPlacement, mutate func(*session.Config)) *session.Session {
	t.Helper()
	wcfg := world.DefaultConfig()
	wcfg.Obstacles.Count = 0
	wcfg.Signals.Placements = signals
	city, err := world.NewCity(wcfg, epoch, log.NewNop())
	require.NoError(t, err)

	cfg := session.DefaultConfig()
	cfg.AICars.Count = 0
	if mutate != nil {
		mutate(&cfg)
	}
	return session.New(cfg, city, collision.NewSystem(nil, log.NewNop()), bus.New(), log.NewNop(), epoch)
}

// driving puts the player in a car at pos facing yaw.
func driving(t *testing.T, signals []world.SignalPlacement, pos mgl64.Vec3, yaw float64) *session.Session {
	t.Helper()
	s := newSession(t, signals, func(c *session.Config) {
		c.CarSpawn = pos
		c.CarYaw = yaw
		c.Spawn = pos.Add(mgl64.Vec3{1, 2, 0})
	})
	require.True(t, s.Tick(epoch, session.Input{ToggleDrive: true}).Driving)
	return s
}

func TestWrapAngle(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{2*math.Pi + 0.5, 0.5},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, wrapAngle(c.in), 1e-9, "wrap(%v)", c.in)
	}
}

func TestYawTowardsMatchesHeading(t *testing.T) {
	from := mgl64.Vec3{3, 0, -4}
	for _, to := range []mgl64.Vec3{{3, 0, -10}, {10, 0, -4}, {-5, 0, 2}, {0, 0, 0}} {
		heading := physics.RotateY(physics.Forward, yawTowards(from, to))
		want := to.Sub(from).Normalize()
		assert.True(t, heading.ApproxEqualThreshold(want, 1e-9), "towards %v: got %v want %v", to, heading, want)
	}
}

func TestAutopilotGetsIntoNearbyCar(t *testing.T) {
	s := newSession(t, nil, nil)
	in := NewAutopilot(nil).Next(s)
	assert.True(t, in.ToggleDrive)
	assert.True(t, in.Controls.Forward)
	assert.True(t, s.Tick(epoch, in).Driving)
}

func TestAutopilotWalksToDistantCar(t *testing.T) {
	s := newSession(t, nil, func(c *session.Config) { c.Spawn = mgl64.Vec3{40, 2, 10} })
	loop := NewLoop(DefaultConfig(), s, NewAutopilot(nil), log.NewNop())

	now := epoch
	for range 400 {
		now = now.Add(tick)
		loop.Step(now)
		if s.Driving() {
			break
		}
	}
	assert.True(t, s.Driving())
}

func TestAutopilotSteersTowardsWaypoint(t *testing.T) {
	// Facing +z, +x is on the left.
	s := driving(t, nil, mgl64.Vec3{20, 0, 0}, math.Pi)

	in := NewAutopilot([]mgl64.Vec3{{30, 0, 10}}).Next(s)
	assert.True(t, in.Controls.Left)
	assert.False(t, in.Controls.Right)
	assert.True(t, in.Controls.Forward, "a standing car accelerates into a turn")

	in = NewAutopilot([]mgl64.Vec3{{10, 0, 10}}).Next(s)
	assert.True(t, in.Controls.Right)

	in = NewAutopilot([]mgl64.Vec3{{20, 0, 30}}).Next(s)
	assert.False(t, in.Controls.Left || in.Controls.Right, "already on course")
	assert.False(t, in.ToggleDrive)
}

func TestAutopilotAdvancesOnArrival(t *testing.T) {
	s := driving(t, nil, mgl64.Vec3{20, 0, 0}, math.Pi)
	a := NewAutopilot([]mgl64.Vec3{{20, 0, 1}, {20, 0, 50}})
	a.Next(s)
	assert.Equal(t, 1, a.Waypoint())
}

func TestAutopilotBrakesForRedLight(t *testing.T) {
	signals := []world.SignalPlacement{{ID: "se", At: mgl64.Vec3{20, 0, 20}}}
	s := driving(t, signals, mgl64.Vec3{20, 0, 5}, math.Pi)
	for range 10 {
		s.Car().Step(vehicle.Controls{Forward: true})
	}
	a := NewAutopilot([]mgl64.Vec3{{20, 0, 60}})

	in := a.Next(s)
	assert.True(t, in.Controls.Backward, "red light ahead")
	assert.False(t, in.Controls.Forward)

	s.City().Signals.Update(epoch.Add(5*time.Second + time.Millisecond))
	in = a.Next(s)
	assert.True(t, in.Controls.Forward, "green light")

	// Too close to stop: carry on through.
	s = driving(t, signals, mgl64.Vec3{20, 0, 13}, math.Pi)
	assert.True(t, a.Next(s).Controls.Forward)
}

func TestAutopilotDrivesToWaypoint(t *testing.T) {
	s := newSession(t, nil, func(c *session.Config) {
		c.CarSpawn = mgl64.Vec3{20, 0, 60}
		c.CarYaw = 0
		c.Spawn = mgl64.Vec3{22, 2, 60}
	})
	a := NewAutopilot([]mgl64.Vec3{{20, 0, 30}, {20, 0, -20}})
	loop := NewLoop(DefaultConfig(), s, a, log.NewNop())

	now := epoch
	for range 200 {
		now = now.Add(tick)
		loop.Step(now)
	}
	assert.Equal(t, 1, a.Waypoint())
	assert.InDelta(t, 20.0, s.Car().Position().X(), 1e-6)
	assert.Less(t, s.Car().Position().Z(), 33.0)
}

func TestStepReportsFinishedGame(t *testing.T) {
	s := newSession(t, nil, func(c *session.Config) {
		c.CarSpawn = mgl64.Vec3{20, 0, 60}
		c.Spawn = mgl64.Vec3{22, 2, 60}
		c.Scoring = scoring.Config{SampleInterval: 10 * time.Millisecond, WinThreshold: 5, FailThreshold: -5}
	})
	enter := inputFunc(func(*session.Session) session.Input { return session.Input{ToggleDrive: !s.Driving()} })
	loop := NewLoop(DefaultConfig(), s, enter, log.NewNop())

	res, done := loop.Step(epoch.Add(tick))
	assert.True(t, done)
	assert.Equal(t, scoring.Won, res.Status)
}

func TestStepScalesWalkingByFrame(t *testing.T) {
	s := newSession(t, nil, func(c *session.Config) { c.Spawn = mgl64.Vec3{0, 2, 0} })
	walk := inputFunc(func(*session.Session) session.Input {
		return session.Input{Controls: vehicle.Controls{Forward: true}}
	})
	loop := NewLoop(DefaultConfig(), s, walk, log.NewNop())

	loop.Step(epoch.Add(tick))
	assert.InDelta(t, -0.1, s.Walker().Position().Z(), 1e-9)
	loop.Step(epoch.Add(2 * tick))
	assert.InDelta(t, -0.2, s.Walker().Position().Z(), 1e-9)
	loop.Step(epoch.Add(4 * tick))
	assert.InDelta(t, -0.4, s.Walker().Position().Z(), 1e-9)
}

func TestRunStopsAtTimeLimit(t *testing.T) {
	s := newSession(t, nil, nil)
	calls := 0
	count := inputFunc(func(*session.Session) session.Input { calls++; return session.Input{} })
	loop := NewLoop(Config{TickRate: 200, Duration: 30 * time.Millisecond}, s, count, log.NewNop())

	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
	assert.Positive(t, calls)
}

func TestRunStopsOnCancel(t *testing.T) {
	loop := NewLoop(DefaultConfig(), newSession(t, nil, nil), nil, log.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, loop.Run(ctx))
}

func TestRunSkipsTicksWhilePaused(t *testing.T) {
	calls := 0
	count := inputFunc(func(*session.Session) session.Input { calls++; return session.Input{} })
	loop := NewLoop(Config{TickRate: 200, Duration: 30 * time.Millisecond}, newSession(t, nil, nil), count, log.NewNop())

	loop.Pause()
	require.NoError(t, loop.Run(context.Background()))
	assert.Zero(t, calls)

	loop.Resume()
	require.NoError(t, loop.Run(context.Background()))
	assert.Positive(t, calls)
}

func TestTogglePause(t *testing.T) {
	loop := NewLoop(DefaultConfig(), newSession(t, nil, nil), nil, log.NewNop())
	assert.False(t, loop.Paused())
	assert.True(t, loop.TogglePause())
	assert.True(t, loop.Paused())
	loop.Pause()
	assert.False(t, loop.TogglePause())
	assert.False(t, loop.Paused())
}

func TestIntervalDefaults(t *testing.T) {
	assert.Equal(t, time.Second/60, Config{}.Interval())
	assert.Equal(t, time.Second/30, Config{TickRate: 30}.Interval())
}
