package renderer

import (
	"log/slog"
	"math/rand"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dissolve/geometry"
	"github.com/pthm-cable/dissolve/targets"
)

func testSet(t *testing.T, pool int) *targets.Set {
	t.Helper()
	opts := targets.Options{
		PoolSize:      pool,
		Spacing:       6,
		Jitter:        1,
		StartSpacing:  9,
		StartJitter:   3,
		InteriorScale: 0.9,
		LightRatio:    0.5,
		Light:         [4]uint8{230, 230, 230, 255},
		Dark:          [4]uint8{40, 40, 60, 255},
		Ambient:       targets.AmbientRect,
	}
	in := targets.Input{
		Stage: geometry.Size{Width: 800, Height: 600},
		Clusters: []targets.Cluster{
			{ID: "a", Rect: geometry.Rect{X: 100, Y: 100, Width: 160, Height: 60}},
			{ID: "b", Rect: geometry.Rect{X: 400, Y: 100, Width: 160, Height: 60}},
		},
		Destination: &geometry.RoundedRect{Rect: geometry.Rect{X: 300, Y: 400, Width: 200, Height: 60}, Radius: 30},
	}
	set, err := targets.NewBuilder(opts, rand.New(rand.NewSource(1))).Build(in, 7)
	if err != nil {
		t.Fatal(err)
	}
	return set
}

func TestPackVertices(t *testing.T) {
	set := testSet(t, 101)
	var v vertexData
	v.pack(set)

	n := set.Len() * VerticesPerParticle
	if v.vertexCount() != n {
		t.Fatalf("vertexCount = %d, want %d", v.vertexCount(), n)
	}
	if len(v.Texcoords) != 2*n || len(v.Texcoords2) != 2*n || len(v.Normals) != 3*n ||
		len(v.Tangents) != 4*n || len(v.Colors) != 4*n {
		t.Fatal("attribute arrays have mismatched lengths")
	}

	for i := 0; i < set.Len(); i++ {
		p := set.At(i)
		for k := 0; k < VerticesPerParticle; k++ {
			j := i*VerticesPerParticle + k
			if v.Positions[3*j] != p.Start.X || v.Positions[3*j+1] != p.Start.Y || v.Positions[3*j+2] != p.Seed {
				t.Fatalf("vertex %d position/seed mismatch", j)
			}
			if v.Texcoords[2*j] != p.Cluster.X || v.Texcoords2[2*j+1] != p.Destination.Y {
				t.Fatalf("vertex %d target mismatch", j)
			}
			if v.Normals[3*j] != p.Ambient.X || v.Normals[3*j+2] != float32(p.Group) {
				t.Fatalf("vertex %d ambient/group mismatch", j)
			}
			if v.Colors[4*j] != p.Color[0] || v.Colors[4*j+3] != 255 {
				t.Fatalf("vertex %d color mismatch", j)
			}
			if v.Tangents[4*j] != quadCorners[k][0] || v.Tangents[4*j+1] != quadCorners[k][1] {
				t.Fatalf("vertex %d corner mismatch", j)
			}
		}
	}
}

func TestPackReusesCapacity(t *testing.T) {
	var v vertexData
	v.pack(testSet(t, 200))
	before := &v.Positions[0]

	v.pack(testSet(t, 50))
	if v.vertexCount() != 50*VerticesPerParticle {
		t.Fatalf("vertexCount = %d after shrink", v.vertexCount())
	}
	if &v.Positions[0] != before {
		t.Error("smaller set reallocated the position buffer")
	}
}

func TestQuadCornersCoverSquare(t *testing.T) {
	// Two triangles with total area 4 (the [-1,1] square)
	area := float32(0)
	for tri := 0; tri < 2; tri++ {
		a, b, c := quadCorners[3*tri], quadCorners[3*tri+1], quadCorners[3*tri+2]
		cross := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
		if cross <= 0 {
			t.Errorf("triangle %d is not counter-clockwise", tri)
		}
		area += cross / 2
	}
	if area != 4 {
		t.Errorf("quad area = %v, want 4", area)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level rl.TraceLogLevel
		want  slog.Level
	}{
		{rl.LogDebug, slog.LevelDebug},
		{rl.LogInfo, slog.LevelInfo},
		{rl.LogWarning, slog.LevelWarn},
		{rl.LogError, slog.LevelError},
		{rl.LogFatal, slog.LevelError},
	}
	for _, tt := range tests {
		if got := slogLevel(int(tt.level)); got != tt.want {
			t.Errorf("slogLevel(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
