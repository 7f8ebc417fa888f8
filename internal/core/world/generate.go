package world

import (
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// ObstacleConfig controls the random scatter of cubes across the city.
type ObstacleConfig struct {
	Count int    `yaml:"count"`
	Seed  string `yaml:"seed"`
	// Extent is the side of the square, centred on the origin, that cubes are placed in.
	Extent float64 `yaml:"extent"`
}

func DefaultObstacleConfig() ObstacleConfig {
	return ObstacleConfig{Count: 50, Seed: "drivesim", Extent: 200}
}

// Generate scatters cfg.Count cubes resting on the ground. Footprints are in
// [1,5) on each side and heights in [2,10). The same seed always yields the
// same cubes in the same order.
func Generate(cfg ObstacleConfig) []*Cube {
	rng := newRand(cfg.Seed)
	half := cfg.Extent / 2

	cubes := make([]*Cube, 0, max(cfg.Count, 0))
	for range cfg.Count {
		width := rng.Float64()*4 + 1
		height := rng.Float64()*8 + 2
		depth := rng.Float64()*4 + 1
		x := rng.Float64()*cfg.Extent - half
		z := rng.Float64()*cfg.Extent - half
		cubes = append(cubes, NewCube(
			mgl64.Vec3{width, height, depth},
			mgl64.Vec3{x, height / 2, z},
		))
	}
	return cubes
}

func newRand(seed string) *rand.Rand {
	return rand.New(rand.NewPCG(xxhash.Sum64String(seed), xxhash.Sum64String("obstacles:"+seed)))
}
