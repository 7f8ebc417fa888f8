package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitBox() AABB {
	return AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}
}

func TestVerticesOrder(t *testing.T) {
	box := AABB{Min: mgl64.Vec3{0, 1, 2}, Max: mgl64.Vec3{3, 4, 5}}
	v := box.Vertices()

	assert.Equal(t, mgl64.Vec3{0, 1, 2}, v[0])
	assert.Equal(t, mgl64.Vec3{0, 1, 5}, v[1])
	assert.Equal(t, mgl64.Vec3{0, 4, 2}, v[2])
	assert.Equal(t, mgl64.Vec3{0, 4, 5}, v[3])
	assert.Equal(t, mgl64.Vec3{3, 1, 2}, v[4])
	assert.Equal(t, mgl64.Vec3{3, 4, 5}, v[7])
}

func TestEdgesHaveUnitLengthOnUnitCube(t *testing.T) {
	box := AABB{Max: mgl64.Vec3{1, 1, 1}}
	edges := box.Edges()
	require.Len(t, edges, 12)

	for i, e := range edges {
		assert.InDelta(t, 1.0, Distance(e.Start, e.End), 1e-12, "edge %d", i)
	}
	assert.Equal(t, Edge{Start: mgl64.Vec3{0, 0, 0}, End: mgl64.Vec3{0, 0, 1}}, edges[0])
	assert.Equal(t, Edge{Start: mgl64.Vec3{0, 1, 1}, End: mgl64.Vec3{1, 1, 1}}, edges[11])
}

func TestContainsPoint(t *testing.T) {
	box := unitBox()
	tests := []struct {
		name  string
		point mgl64.Vec3
		want  bool
	}{
		{"center", mgl64.Vec3{0, 0, 0}, true},
		{"on max corner", mgl64.Vec3{1, 1, 1}, true},
		{"on min face", mgl64.Vec3{-1, 0, 0.5}, true},
		{"outside x", mgl64.Vec3{1.0001, 0, 0}, false},
		{"outside y", mgl64.Vec3{0, -1.5, 0}, false},
		{"outside z", mgl64.Vec3{0, 0, 3}, false},
		{"nan", mgl64.Vec3{math.NaN(), 0, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, box.ContainsPoint(tt.point))
		})
	}
}

func TestIntersectsAndOverlaps(t *testing.T) {
	a := unitBox()
	tests := []struct {
		name       string
		b          AABB
		intersects bool
		overlaps   bool
	}{
		{"separated x", AABB{Min: mgl64.Vec3{2, -1, -1}, Max: mgl64.Vec3{3, 1, 1}}, false, false},
		{"separated y", AABB{Min: mgl64.Vec3{-1, 2, -1}, Max: mgl64.Vec3{1, 3, 1}}, false, false},
		{"separated z", AABB{Min: mgl64.Vec3{-1, -1, -3}, Max: mgl64.Vec3{1, 1, -2}}, false, false},
		{"touching face", AABB{Min: mgl64.Vec3{1, -1, -1}, Max: mgl64.Vec3{2, 1, 1}}, true, false},
		{"overlapping", AABB{Min: mgl64.Vec3{0.5, 0.5, 0.5}, Max: mgl64.Vec3{2, 2, 2}}, true, true},
		{"contained", AABB{Min: mgl64.Vec3{-0.5, -0.5, -0.5}, Max: mgl64.Vec3{0.5, 0.5, 0.5}}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.intersects, a.Intersects(tt.b))
			assert.Equal(t, tt.intersects, tt.b.Intersects(a))
			assert.Equal(t, tt.overlaps, a.Overlaps(tt.b))
			assert.Equal(t, tt.overlaps, tt.b.Overlaps(a))
		})
	}
}

func TestNaNBoxNeverIntersects(t *testing.T) {
	bad := AABB{Min: mgl64.Vec3{math.NaN(), 0, 0}, Max: mgl64.Vec3{1, 1, 1}}
	assert.False(t, bad.Intersects(unitBox()))
	assert.False(t, bad.Overlaps(unitBox()))
	assert.False(t, bad.IsValid())
}

func TestTranslateExpandAndSize(t *testing.T) {
	box := unitBox().Translate(mgl64.Vec3{2, 0, -1})
	assert.Equal(t, mgl64.Vec3{1, -1, -2}, box.Min)
	assert.Equal(t, mgl64.Vec3{3, 1, 0}, box.Max)

	grown := box.ExpandByScalar(0.5)
	assert.Equal(t, mgl64.Vec3{3, 3, 3}, grown.Size())
	assert.Equal(t, box.Center(), grown.Center())
}

func TestNewAABBOrdersCorners(t *testing.T) {
	box := NewAABB(mgl64.Vec3{3, -1, 2}, mgl64.Vec3{1, 4, -2})
	assert.Equal(t, mgl64.Vec3{1, -1, -2}, box.Min)
	assert.Equal(t, mgl64.Vec3{3, 4, 2}, box.Max)
	assert.True(t, box.IsValid())
}

func TestFromCenterAndSize(t *testing.T) {
	box := FromCenterAndSize(mgl64.Vec3{10, 1, 0}, mgl64.Vec3{2, 2, 4})
	assert.Equal(t, mgl64.Vec3{9, 0, -2}, box.Min)
	assert.Equal(t, mgl64.Vec3{11, 2, 2}, box.Max)
}

func TestDegenerateBoxIsValid(t *testing.T) {
	p := mgl64.Vec3{1, 2, 3}
	box := AABB{Min: p, Max: p}
	assert.True(t, box.IsValid())
	assert.True(t, box.ContainsPoint(p))
}
