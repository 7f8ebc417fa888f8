package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/drivesim/drivesim/internal/core/systems/physics"
)

// GridConfig describes the square road grid of the city.
type GridConfig struct {
	Size            float64 `yaml:"size"`
	BlockSize       float64 `yaml:"block_size"`
	RoadWidth       float64 `yaml:"road_width"`
	Elevation       float64 `yaml:"elevation"`
	HeightTolerance float64 `yaml:"height_tolerance"`
}

func DefaultGridConfig() GridConfig {
	return GridConfig{
		Size:            200,
		BlockSize:       40,
		RoadWidth:       10,
		Elevation:       0.01,
		HeightTolerance: 5,
	}
}

// Road is one straight strip of asphalt spanning the whole grid.
type Road struct {
	Box        physics.AABB
	Horizontal bool
	// Offset is the z of a horizontal road or the x of a vertical one.
	Offset float64
}

// Grid holds the roads and the crossings between them.
type Grid struct {
	cfg           GridConfig
	roads         []Road
	intersections []mgl64.Vec3
}

// NewGrid lays out one horizontal and one vertical road every BlockSize from
// -Size/2 to Size/2 inclusive.
func NewGrid(cfg GridConfig) *Grid {
	g := &Grid{cfg: cfg}
	if cfg.BlockSize <= 0 || cfg.Size <= 0 {
		return g
	}

	half := cfg.Size / 2
	hw := cfg.RoadWidth / 2
	y := cfg.Elevation
	// Counted rather than accumulated so rounding cannot drop the last road.
	n := int(math.Floor(cfg.Size/cfg.BlockSize + physics.Epsilon))
	offsets := make([]float64, n+1)
	for k := range offsets {
		offsets[k] = -half + float64(k)*cfg.BlockSize
	}

	for _, i := range offsets {
		g.roads = append(g.roads,
			Road{
				Box:        physics.NewAABB(mgl64.Vec3{-half, y, i - hw}, mgl64.Vec3{half, y, i + hw}),
				Horizontal: true,
				Offset:     i,
			},
			Road{
				Box:    physics.NewAABB(mgl64.Vec3{i - hw, y, -half}, mgl64.Vec3{i + hw, y, half}),
				Offset: i,
			},
		)
		for _, j := range offsets {
			g.intersections = append(g.intersections, mgl64.Vec3{i, 0, j})
		}
	}
	return g
}

func (g *Grid) Config() GridConfig { return g.cfg }

func (g *Grid) Roads() []Road { return g.roads }

// Intersections are the crossing centres at ground level.
func (g *Grid) Intersections() []mgl64.Vec3 { return g.intersections }

// IsPointOnRoad reports whether p lies on any road, allowing HeightTolerance
// above and below the road surface.
func (g *Grid) IsPointOnRoad(p mgl64.Vec3) bool {
	tol := mgl64.Vec3{0, g.cfg.HeightTolerance, 0}
	for _, r := range g.roads {
		box := physics.AABB{Min: r.Box.Min.Sub(tol), Max: r.Box.Max.Add(tol)}
		if box.ContainsPoint(p) {
			return true
		}
	}
	return false
}

// IsIntersection reports whether p (ignoring y) is the centre of a crossing.
func (g *Grid) IsIntersection(p mgl64.Vec3) bool {
	for _, c := range g.intersections {
		if math.Abs(c.X()-p.X()) < physics.Epsilon && math.Abs(c.Z()-p.Z()) < physics.Epsilon {
			return true
		}
	}
	return false
}

// IntersectionZone is the box covering the crossing at centre, from the ground
// up to height. Its footprint is slightly wider than the road.
func (g *Grid) IntersectionZone(centre mgl64.Vec3, height float64) physics.AABB {
	side := g.cfg.RoadWidth * 1.2
	return physics.FromCenterAndSize(
		mgl64.Vec3{centre.X(), height / 2, centre.Z()},
		mgl64.Vec3{side, height, side},
	)
}
