package vehicle

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/drivesim/drivesim/internal/core/systems/physics"
)

// referenceFrame is the frame length the walking speed is expressed in.
const referenceFrame = time.Second / 60

// WalkerConfig holds the pedestrian's speed and collider.
type WalkerConfig struct {
	// Speed is in world units per 60Hz frame.
	Speed float64    `yaml:"speed"`
	Size  mgl64.Vec3 `yaml:"size"`
}

func DefaultWalkerConfig() WalkerConfig {
	return WalkerConfig{Speed: 0.1, Size: mgl64.Vec3{1, 3, 1}}
}

// Walker is the pedestrian, positioned at eye level and turned by yaw.
type Walker struct {
	cfg      WalkerConfig
	position mgl64.Vec3
	yaw      float64
}

// NewWalker places the walker at an eye-level position.
func NewWalker(cfg WalkerConfig, position mgl64.Vec3, yaw float64) *Walker {
	return &Walker{cfg: cfg, position: position, yaw: yaw}
}

func (w *Walker) Position() mgl64.Vec3 { return w.position }

func (w *Walker) SetPosition(p mgl64.Vec3) { w.position = p }

func (w *Walker) Yaw() float64 { return w.yaw }

func (w *Walker) SetYaw(yaw float64) { w.yaw = yaw }

// Step returns where the walker wants to be after moving for delta with the
// given controls. The walker flies: Up and Down move it vertically. Combined
// input is normalised so it is no faster than a single key.
func (w *Walker) Step(ctl Controls, delta time.Duration) mgl64.Vec3 {
	var local mgl64.Vec3 // strafe, climb, forward
	if ctl.Right {
		local[0]++
	}
	if ctl.Left {
		local[0]--
	}
	if ctl.Up {
		local[1]++
	}
	if ctl.Down {
		local[1]--
	}
	if ctl.Forward {
		local[2]++
	}
	if ctl.Backward {
		local[2]--
	}
	if local == (mgl64.Vec3{}) {
		return w.position
	}

	speed := w.cfg.Speed * float64(delta) / float64(referenceFrame)
	local = local.Normalize().Mul(speed)
	move := physics.RotateY(physics.Forward, w.yaw).Mul(local.Z()).
		Add(physics.RotateY(physics.Right, w.yaw).Mul(local.X()))
	move[1] = local.Y()
	return w.position.Add(move)
}

// BoundingBox is the collider centred on the walker's eye position.
func (w *Walker) BoundingBox() physics.AABB { return w.BoundingBoxAt(w.position) }

// BoundingBoxAt is the collider the walker would have at p.
func (w *Walker) BoundingBoxAt(p mgl64.Vec3) physics.AABB {
	return physics.FromCenterAndSize(p, w.cfg.Size)
}
