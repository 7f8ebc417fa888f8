package driver

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/drivesim/drivesim/internal/core/observability/log"
	"github.com/drivesim/drivesim/internal/core/session"
	"github.com/drivesim/drivesim/internal/core/systems/scoring"
)

// Config drives the tick loop. A zero Duration runs until interrupted or the
// game finishes.
type Config struct {
	TickRate  int           `yaml:"tick_rate"`
	Duration  time.Duration `yaml:"duration"`
	Autopilot bool          `yaml:"autopilot"`
}

func DefaultConfig() Config {
	return Config{TickRate: 60, Autopilot: true}
}

// Interval is the wall time between two ticks.
func (c Config) Interval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// InputSource decides what the player does on each tick.
type InputSource interface {
	Next(s *session.Session) session.Input
}

// Idle never touches the controls.
type Idle struct{}

func (Idle) Next(*session.Session) session.Input { return session.Input{} }

// Loop owns the session and ticks it at a fixed rate.
type Loop struct {
	session  *session.Session
	input    InputSource
	interval time.Duration
	limit    time.Duration
	logger   log.Log

	paused atomic.Bool
	last   time.Time
}

// NewLoop ticks s with input. A nil input leaves the controls idle.
func NewLoop(cfg Config, s *session.Session, input InputSource, logger log.Log) *Loop {
	if logger == nil {
		logger = log.NewNop()
	}
	if input == nil {
		input = Idle{}
	}
	return &Loop{
		session:  s,
		input:    input,
		interval: cfg.Interval(),
		limit:    cfg.Duration,
		logger:   logger.With(log.String("component", "loop")),
	}
}

func (l *Loop) Session() *session.Session { return l.session }

// Pause makes Run skip ticks until Resume. Safe to call from any goroutine.
func (l *Loop) Pause() {
	if !l.paused.Swap(true) {
		l.logger.Info("tick loop paused")
	}
}

// Resume undoes Pause.
func (l *Loop) Resume() {
	if l.paused.Swap(false) {
		l.logger.Info("tick loop resumed")
	}
}

// TogglePause flips the paused state and reports the new one.
func (l *Loop) TogglePause() bool {
	if l.paused.Load() {
		l.Resume()
		return false
	}
	l.Pause()
	return true
}

func (l *Loop) Paused() bool { return l.paused.Load() }

// Run ticks the session on a wall-clock ticker until ctx is cancelled, the
// configured duration has elapsed or the game is won or failed. All three are
// clean stops and return nil. Paused ticks are skipped but still count towards
// the duration.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	start := time.Now()
	l.logger.Info("tick loop started", log.Duration("interval", l.interval), log.Duration("limit", l.limit))
	for {
		select {
		case <-ctx.Done():
			l.finish("interrupted")
			return nil
		case now := <-ticker.C:
			if l.paused.Load() {
				// The first tick after resuming runs with a nominal frame.
				l.last = time.Time{}
			} else if _, done := l.Step(now); done {
				l.finish("game over")
				return nil
			}
			if l.limit > 0 && now.Sub(start) >= l.limit {
				l.finish("time limit")
				return nil
			}
		}
	}
}

// Step runs one tick at now and reports whether the game has finished.
func (l *Loop) Step(now time.Time) (session.TickResult, bool) {
	in := l.input.Next(l.session)
	if in.Frame == 0 {
		in.Frame = l.interval
		if !l.last.IsZero() {
			in.Frame = now.Sub(l.last)
		}
	}
	l.last = now

	res := l.session.Tick(now, in)
	if res.CarHit {
		l.logger.Debug("car blocked by traffic", log.Int64("tick", int64(res.Tick)))
	}
	if res.Scored {
		l.logger.Debug("score", log.Int64("points", res.Score.Total), log.Bool("on_road", res.Score.OnRoad))
	}
	return res, res.Status != scoring.Playing
}

func (l *Loop) finish(reason string) {
	score := l.session.Score()
	l.logger.Info("tick loop stopped",
		log.String("reason", reason),
		log.String("status", score.Status().String()),
		log.Int64("points", score.Points()))
}
