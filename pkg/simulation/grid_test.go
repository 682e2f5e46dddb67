package simulation

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/lao-tseu-is-alive/go-snake-simulation/pkg/geometry"
)

func randomPoints(rng *rand.Rand, n int, half float64) []geometry.Vector2D {
	pts := make([]geometry.Vector2D, n)
	for i := range pts {
		pts[i] = geometry.NewVector(rng.Float64()*2*half-half, rng.Float64()*2*half-half)
	}
	return pts
}

func TestSpatialGrid_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	points := randomPoints(rng, 2000, 500)

	for _, cellSize := range []float64{8, 32, 128, 1000} {
		g := newSpatialGrid(cellSize)
		for i, p := range points {
			g.insert(i, p)
		}
		for q := 0; q < 200; q++ {
			center := geometry.NewVector(rng.Float64()*1100-550, rng.Float64()*1100-550)
			radius := rng.Float64() * 60

			var want []int
			for i, p := range points {
				if center.DistanceSquaredTo(p) < radius*radius {
					want = append(want, i)
				}
			}
			got := g.within(center, radius)
			slices.Sort(got)
			if !slices.Equal(got, want) {
				t.Fatalf("cell %v: within(%v, %.2f) = %v; want %v", cellSize, center, radius, got, want)
			}
		}
	}
}

func TestSpatialGrid_NegativeCoordinates(t *testing.T) {
	g := newSpatialGrid(100)
	g.insert(0, geometry.NewVector(-1, -1))
	g.insert(1, geometry.NewVector(1, 1))

	if got := g.within(geometry.NewVector(-2, -2), 2); !slices.Equal(got, []int{0}) {
		t.Errorf("within around (-2,-2) = %v; want [0]", got)
	}
	if x, y := g.cellIndices(geometry.NewVector(-0.5, 0.5)); x != -1 || y != 0 {
		t.Errorf("cellIndices(-0.5, 0.5) = (%d, %d); want (-1, 0)", x, y)
	}
}

func TestSpatialGrid_ResetKeepsNothing(t *testing.T) {
	g := newSpatialGrid(10)
	g.insert(3, geometry.Zero)
	g.reset()
	if got := g.within(geometry.Zero, 5); len(got) != 0 {
		t.Errorf("within after reset = %v; want empty", got)
	}
	g.insert(4, geometry.Zero)
	if got := g.within(geometry.Zero, 5); !slices.Equal(got, []int{4}) {
		t.Errorf("within after re-insert = %v; want [4]", got)
	}
}

func BenchmarkSpatialGrid_Within(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 2))
	points := randomPoints(rng, 5000, 5000)
	g := newSpatialGrid(128)
	for i, p := range points {
		g.insert(i, p)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.within(points[i%len(points)], 16)
	}
}
