package injector

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivesim/drivesim/internal/config"
	"github.com/drivesim/drivesim/internal/core/world"
	"github.com/drivesim/drivesim/internal/driver"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Log.Level = "silent"
	return cfg
}

func TestInitializeApp(t *testing.T) {
	app, cleanup, err := InitializeApp(testConfig(), time.Now())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	require.NotNil(t, app.Loop)
	require.NotNil(t, app.Server)
	city := app.Loop.Session().City()
	assert.Len(t, city.Obstacles, 50)
	assert.Len(t, city.Signals.Signals(), 4)
	assert.Zero(t, app.Events.Metrics().SubscribersActive)
}

func TestInitializeAppRejectsBadPlacement(t *testing.T) {
	cfg := testConfig()
	cfg.World.Signals.Placements = []world.SignalPlacement{{ID: "x", At: mgl64.Vec3{1, 0, 1}}}

	_, _, err := InitializeApp(cfg, time.Now())
	assert.ErrorIs(t, err, world.ErrNotAnIntersection)
}

func TestProvideInput(t *testing.T) {
	cfg := testConfig()
	assert.IsType(t, &driver.Autopilot{}, ProvideInput(cfg))
	cfg.Loop.Autopilot = false
	assert.IsType(t, driver.Idle{}, ProvideInput(cfg))
}
