package traffic

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivesim/drivesim/internal/core/observability/log"
	"github.com/drivesim/drivesim/internal/core/systems/physics"
)

func newController() *Controller {
	a := NewSignal("a", mgl64.Vec3{}, zone, epoch, Config{})
	farZone := zone.Translate(mgl64.Vec3{40, 0, 0})
	b := NewSignal("b", mgl64.Vec3{40, 0, 0}, farZone, epoch.Add(2*time.Second), Config{})
	return NewController(log.NewNop(), a, b)
}

func TestControllerUpdateReportsChangesInOrder(t *testing.T) {
	c := newController()

	changes := c.Update(epoch.Add(6 * time.Second))
	require.Len(t, changes, 1)
	assert.Equal(t, "a", changes[0].SignalID)
	assert.Equal(t, Red, changes[0].From)
	assert.Equal(t, Green, changes[0].To)

	changes = c.Update(epoch.Add(8 * time.Second))
	require.Len(t, changes, 1)
	assert.Equal(t, "b", changes[0].SignalID)

	assert.Empty(t, c.Update(epoch.Add(9*time.Second)))
}

func TestControllerLookup(t *testing.T) {
	c := newController()
	s, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{40, 0, 0}, s.Position)

	_, ok = c.Get("missing")
	assert.False(t, ok)
	assert.Len(t, c.Signals(), 2)
}

func TestControllerCheckViolations(t *testing.T) {
	c := newController()

	vs := c.CheckViolations(mgl64.Vec3{40, 1, 0})
	require.Len(t, vs, 1)
	assert.Equal(t, "b", vs[0].SignalID)

	assert.Empty(t, c.CheckViolations(mgl64.Vec3{40, 1, 0}))
	assert.Empty(t, c.CheckViolations(mgl64.Vec3{20, 1, 0}))
}

func TestControllerShouldStop(t *testing.T) {
	c := newController()
	assert.True(t, c.ShouldStop(mgl64.Vec3{35, 0, 0}))
	assert.False(t, c.ShouldStop(mgl64.Vec3{20, 0, 0}))

	for _, s := range c.Signals() {
		s.State = Green
	}
	assert.False(t, c.ShouldStop(mgl64.Vec3{35, 0, 0}))
}

func TestNewControllerWithoutSignals(t *testing.T) {
	c := NewController(nil)
	assert.Empty(t, c.Update(epoch.Add(time.Hour)))
	assert.Empty(t, c.CheckViolations(physics.Up))
	assert.False(t, c.ShouldStop(mgl64.Vec3{}))
}
