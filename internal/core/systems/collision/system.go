package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/drivesim/drivesim/internal/core/observability/log"
	"github.com/drivesim/drivesim/internal/core/systems/physics"
)

// Stats counts what the system did since it was created.
type Stats struct {
	Queries        uint64
	Collisions     uint64
	Rejected       uint64
	SkippedInvalid uint64
}

// System resolves one moving actor against a list of static obstacles.
// It is not safe for concurrent use; the session calls it once per tick.
type System struct {
	resolver *Resolver
	logger   log.Log
	stats    Stats
}

// NewSystem creates a collision system. A nil resolver uses DefaultMargin.
func NewSystem(resolver *Resolver, logger log.Log) *System {
	if resolver == nil {
		resolver = NewResolver(DefaultMargin)
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &System{
		resolver: resolver,
		logger:   logger.With(log.String("system", "collision")),
	}
}

func (s *System) Resolver() *Resolver { return s.resolver }

// Stats returns the counters gathered since creation.
func (s *System) Stats() Stats { return s.stats }

// AnyCollision reports whether actorBox touches any obstacle.
// Obstacles with invalid boxes never collide.
func (s *System) AnyCollision(actorBox AABB, obstacles []physics.Obstacle) bool {
	for _, o := range obstacles {
		box := o.BoundingBox()
		if !box.IsValid() {
			continue
		}
		if actorBox.Intersects(box) {
			return true
		}
	}
	return false
}

// ResolveAgainstAll returns the movement from current towards target after
// resolving it against every obstacle.
//
// Resolution is greedy: among the obstacles that collide, the correction with
// the smallest magnitude wins and corrections are never summed. Once a
// correction is selected, later obstacles are tested from the corrected
// position, so the outcome depends on obstacle order. A fixed order always gives
// the same result. Simultaneous contacts may therefore leave the actor inside a
// second obstacle.
func (s *System) ResolveAgainstAll(current, target mgl64.Vec3, actorBox AABB, obstacles []physics.Obstacle) mgl64.Vec3 {
	s.stats.Queries++

	if physics.HasNaN(current) || physics.HasNaN(target) || !actorBox.IsValid() {
		s.stats.Rejected++
		s.logger.Warn("rejecting collision query with invalid input",
			log.Vec3("current", current),
			log.Vec3("target", target),
			log.String("actor_box", actorBox.String()))
		return mgl64.Vec3{}
	}

	desired := target.Sub(current)
	if physics.IsZero(desired) {
		return mgl64.Vec3{}
	}

	var (
		selected  mgl64.Vec3
		bestMag   = math.Inf(1)
		collided  bool
		workingAt = actorBox
	)
	for i, o := range obstacles {
		box := o.BoundingBox()
		if !box.IsValid() {
			s.stats.SkippedInvalid++
			s.logger.Debug("skipping obstacle with invalid bounds", log.Int("index", i))
			continue
		}

		corrected, res := s.resolver.Resolve(current, target, workingAt, box)
		if !res.Collides {
			continue
		}
		s.stats.Collisions++

		// A contact that needs no correction is not a candidate.
		correction := corrected.Sub(desired)
		mag := correction.Len()
		if mag < physics.Epsilon {
			continue
		}
		if mag < bestMag {
			bestMag = mag
			selected = correction
			collided = true
			workingAt = actorBox.Translate(correction)
		}
	}

	if !collided {
		return desired
	}

	result := desired.Add(selected)
	if physics.HasNaN(result) {
		s.stats.Rejected++
		s.logger.Warn("collision correction produced NaN, dropping movement",
			log.Vec3("desired", desired),
			log.Vec3("correction", selected))
		return mgl64.Vec3{}
	}
	return result
}
