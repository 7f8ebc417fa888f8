package traffic

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivesim/drivesim/internal/core/systems/physics"
)

var (
	epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	zone  = physics.FromCenterAndSize(mgl64.Vec3{0, 2.5, 0}, mgl64.Vec3{12, 5, 12})
)

func newSignal() *Signal {
	return NewSignal("junction-0-0", mgl64.Vec3{}, zone, epoch, Config{})
}

func TestStateCycle(t *testing.T) {
	assert.Equal(t, Green, Red.Next())
	assert.Equal(t, Yellow, Green.Next())
	assert.Equal(t, Red, Yellow.Next())

	assert.True(t, Red.Stops())
	assert.True(t, Yellow.Stops())
	assert.False(t, Green.Stops())
	assert.Equal(t, "yellow", Yellow.String())
}

func TestNewSignalDefaults(t *testing.T) {
	s := newSignal()
	assert.Equal(t, Red, s.State)
	assert.Equal(t, DefaultDwell, s.Dwell)
	assert.Equal(t, DefaultPenalty, s.Penalty())
	assert.Equal(t, DefaultStopDistance, s.StopDistance())
	assert.Equal(t, OutsideZone, s.Occupancy)
}

func TestUpdateRequiresStrictlyMoreThanDwell(t *testing.T) {
	s := newSignal()
	assert.False(t, s.Update(epoch.Add(DefaultDwell)))
	assert.Equal(t, Red, s.State)

	assert.True(t, s.Update(epoch.Add(DefaultDwell+time.Millisecond)))
	assert.Equal(t, Green, s.State)
	assert.Equal(t, epoch.Add(DefaultDwell+time.Millisecond), s.LastChange)
}

func TestSignalReturnsToRedAfterThreeDwells(t *testing.T) {
	s := newSignal()
	var seen []State
	end := epoch.Add(3*DefaultDwell + 500*time.Millisecond)
	for now := epoch.Add(100 * time.Millisecond); !now.After(end); now = now.Add(100 * time.Millisecond) {
		if s.Update(now) {
			seen = append(seen, s.State)
		}
	}
	assert.Equal(t, []State{Green, Yellow, Red}, seen)
	assert.Equal(t, Red, s.State)
}

func TestViolationOncePerVisit(t *testing.T) {
	s := newSignal()
	inside := mgl64.Vec3{1, 0.5, 1}
	outside := mgl64.Vec3{20, 0.5, 20}

	violations := 0
	path := []mgl64.Vec3{outside, inside, inside, inside, outside, inside, inside}
	for _, p := range path {
		if _, ok := s.CheckViolation(p); ok {
			violations++
		}
	}
	assert.Equal(t, 2, violations)
	assert.Equal(t, InsideZoneFlagged, s.Occupancy)
}

func TestViolationCarriesPenaltyAndState(t *testing.T) {
	s := NewSignal("s1", mgl64.Vec3{}, zone, epoch, Config{Penalty: 75})
	s.State = Yellow

	v, ok := s.CheckViolation(mgl64.Vec3{0, 1, 0})
	require.True(t, ok)
	assert.Equal(t, "s1", v.SignalID)
	assert.Equal(t, Yellow, v.State)
	assert.Equal(t, int64(75), v.Penalty)
}

func TestGreenEntryThenRedStillFires(t *testing.T) {
	s := newSignal()
	s.State = Green
	inside := mgl64.Vec3{0, 1, 0}

	_, ok := s.CheckViolation(inside)
	assert.False(t, ok)
	assert.Equal(t, InsideZone, s.Occupancy)

	s.State = Red
	_, ok = s.CheckViolation(inside)
	assert.True(t, ok)
	_, ok = s.CheckViolation(inside)
	assert.False(t, ok)
}

func TestZoneBoundaryIsInside(t *testing.T) {
	s := newSignal()
	_, ok := s.CheckViolation(mgl64.Vec3{6, 0, -6})
	assert.True(t, ok)
}

func TestShouldStop(t *testing.T) {
	s := newSignal()
	near := mgl64.Vec3{0, 0, 9}
	far := mgl64.Vec3{0, 0, 10}

	assert.True(t, s.ShouldStop(near))
	assert.False(t, s.ShouldStop(far))

	s.State = Green
	assert.False(t, s.ShouldStop(near))
	s.State = Yellow
	assert.True(t, s.ShouldStop(near))
}
