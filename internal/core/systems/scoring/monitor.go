package scoring

//go:generate go tool mockgen -destination=./mocks/road_mock.go -package=mocks . RoadMap

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/drivesim/drivesim/internal/core/observability/log"
)

const (
	DefaultSampleInterval = time.Second
	DefaultOnRoadPoints   = int64(5)
	DefaultOffRoadPenalty = int64(10)
	DefaultWinThreshold   = int64(1000)
	DefaultFailThreshold  = int64(-500)
)

// RoadMap answers whether a world position lies on a drivable road.
type RoadMap interface {
	IsPointOnRoad(p mgl64.Vec3) bool
}

type Status uint8

const (
	Playing Status = iota
	Won
	Failed
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Config holds the scoring rules. Zero values select the defaults, except
// FailThreshold which is only defaulted together with WinThreshold.
type Config struct {
	SampleInterval time.Duration `yaml:"sample_interval"`
	OnRoadPoints   int64         `yaml:"on_road_points"`
	OffRoadPenalty int64         `yaml:"off_road_penalty"`
	WinThreshold   int64         `yaml:"win_threshold"`
	FailThreshold  int64         `yaml:"fail_threshold"`
}

func (c Config) withDefaults() Config {
	if c.SampleInterval <= 0 {
		c.SampleInterval = DefaultSampleInterval
	}
	if c.OnRoadPoints <= 0 {
		c.OnRoadPoints = DefaultOnRoadPoints
	}
	if c.OffRoadPenalty <= 0 {
		c.OffRoadPenalty = DefaultOffRoadPenalty
	}
	if c.WinThreshold <= 0 {
		c.WinThreshold = DefaultWinThreshold
		c.FailThreshold = DefaultFailThreshold
	}
	return c
}

// State is the score of one session.
type State struct {
	Points         int64
	LastSample     time.Time
	SampleInterval time.Duration
	Status         Status
}

// Delta describes one change applied to the score.
type Delta struct {
	Points        int64
	Total         int64
	OnRoad        bool
	Status        Status
	StatusChanged bool
}

// Monitor turns periodic position samples and penalties into score changes.
// Once the status leaves Playing the score is frozen.
type Monitor struct {
	roads  RoadMap
	cfg    Config
	state  State
	logger log.Log
}

// NewMonitor starts a game at zero points. The first sample is due one
// SampleInterval after now.
func NewMonitor(roads RoadMap, now time.Time, cfg Config, logger log.Log) *Monitor {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = log.NewNop()
	}
	return &Monitor{
		roads: roads,
		cfg:   cfg,
		state: State{
			LastSample:     now,
			SampleInterval: cfg.SampleInterval,
			Status:         Playing,
		},
		logger: logger.With(log.String("system", "scoring")),
	}
}

// State is a snapshot of points, status and the last sample.
func (m *Monitor) State() State { return m.state }

func (m *Monitor) Points() int64 { return m.state.Points }

func (m *Monitor) Status() Status { return m.state.Status }

func (m *Monitor) Config() Config { return m.cfg }

// Sample scores position if more than SampleInterval has passed since the last
// sample. Only driving samples change the score; walking still consumes the
// interval. It reports whether a delta was applied.
func (m *Monitor) Sample(now time.Time, position mgl64.Vec3, isDriving bool) (Delta, bool) {
	if m.state.Status != Playing {
		return Delta{}, false
	}
	if now.Sub(m.state.LastSample) <= m.state.SampleInterval {
		return Delta{}, false
	}
	m.state.LastSample = now

	if !isDriving {
		return Delta{}, false
	}

	onRoad := m.roads != nil && m.roads.IsPointOnRoad(position)
	points := -m.cfg.OffRoadPenalty
	if onRoad {
		points = m.cfg.OnRoadPoints
	}

	d := m.apply(points)
	d.OnRoad = onRoad
	return d, true
}

// ApplyPenalty subtracts points outside of the sampling cadence.
// It does nothing once the game has ended.
func (m *Monitor) ApplyPenalty(points int64) (Delta, bool) {
	if m.state.Status != Playing || points == 0 {
		return Delta{}, false
	}
	if points < 0 {
		points = -points
	}
	return m.apply(-points), true
}

func (m *Monitor) apply(points int64) Delta {
	m.state.Points += points

	changed := false
	switch {
	case m.state.Points >= m.cfg.WinThreshold:
		m.state.Status = Won
		changed = true
	case m.state.Points < m.cfg.FailThreshold:
		m.state.Status = Failed
		changed = true
	}
	if changed {
		m.logger.Info("game finished",
			log.String("status", m.state.Status.String()),
			log.Int64("points", m.state.Points))
	}

	return Delta{
		Points:        points,
		Total:         m.state.Points,
		Status:        m.state.Status,
		StatusChanged: changed,
	}
}
