package raycast

import (
	"math"
	"math/rand"
	"testing"

	"mazecaster/internal/world"

	"github.com/harbdog/raycaster-go/geom"
)

const cellSize = 64.0

func enclosedMaze() *world.Maze {
	return world.NewMaze(world.MustNewGrid(
		"##########",
		"#        #",
		"#   @    #",
		"#        #",
		"#    e   #",
		"#        #",
		"#  1  !  #",
		"#        #",
		"#        #",
		"##########",
	), nil)
}

func TestCastRayAxisAligned(t *testing.T) {
	maze := enclosedMaze()
	origin := world.CellCenter(1, 1, cellSize) // (96, 96)

	tests := []struct {
		name     string
		angle    float64
		distance float64
		side     Side
		cellX    int
		cellY    int
	}{
		{"east", 0, 9*cellSize - 96, SideX, 9, 1},
		{"south", math.Pi / 2, 9*cellSize - 96, SideY, 1, 9},
		{"west", math.Pi, 96 - cellSize, SideX, 0, 1},
		{"north", 3 * math.Pi / 2, 96 - cellSize, SideY, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := CastRay(maze, origin, tt.angle, cellSize)
			if !hit.Hit() {
				t.Fatalf("Expected a hit, got miss")
			}
			if math.Abs(hit.Distance-tt.distance) > 1e-9 {
				t.Errorf("Expected distance %.4f, got %.4f", tt.distance, hit.Distance)
			}
			if hit.Side != tt.side {
				t.Errorf("Expected side %d, got %d", tt.side, hit.Side)
			}
			if hit.CellX != tt.cellX || hit.CellY != tt.cellY {
				t.Errorf("Expected cell (%d,%d), got (%d,%d)", tt.cellX, tt.cellY, hit.CellX, hit.CellY)
			}
			if hit.Impact != '#' {
				t.Errorf("Expected '#', got %q", hit.Impact)
			}
			if math.Abs(hit.HitFrac-0.5) > 1e-9 {
				t.Errorf("Expected the ray to strike mid-face, got %v", hit.HitFrac)
			}
		})
	}
}

func TestCastRayExactDistance(t *testing.T) {
	maze := enclosedMaze()
	// The '@' at (4,2) is three cells east of (1,2).
	origin := world.CellCenter(1, 2, cellSize)
	hit := CastRay(maze, origin, 0, cellSize)
	want := 4*cellSize - origin.X
	if math.Abs(hit.Distance-want) > 1e-9 {
		t.Errorf("Expected %.3f to the near face of '@', got %.3f", want, hit.Distance)
	}
	if hit.Impact != '@' {
		t.Errorf("Expected '@', got %q", hit.Impact)
	}
}

func TestCastRaySpriteCellsAreTransparent(t *testing.T) {
	maze := enclosedMaze()
	// Row 4 holds an 'e' at column 5, which must not stop the ray.
	hit := CastRay(maze, world.CellCenter(1, 4, cellSize), 0, cellSize)
	if hit.Impact != '#' || hit.CellX != 9 {
		t.Errorf("Expected the ray to pass the actor and hit the east wall, got %q at (%d,%d)", hit.Impact, hit.CellX, hit.CellY)
	}
}

func TestCastRayEnclosure(t *testing.T) {
	maze := enclosedMaze()
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		// Any point inside the border ring, passable or not.
		origin := geom.Vector2{
			X: cellSize + rng.Float64()*8*cellSize,
			Y: cellSize + rng.Float64()*8*cellSize,
		}
		angle := rng.Float64() * 2 * math.Pi
		hit := CastRay(maze, origin, angle, cellSize)
		if !hit.Hit() {
			t.Fatalf("Ray %d from %v at %.4f escaped an enclosed grid", i, origin, angle)
		}
		if hit.Distance < MinDistance || hit.Distance >= MissDistance {
			t.Fatalf("Ray %d: distance %v out of range", i, hit.Distance)
		}
		if hit.HitFrac < 0 || hit.HitFrac >= 1 {
			t.Fatalf("Ray %d: HitFrac %v outside [0,1)", i, hit.HitFrac)
		}
	}
}

func TestCastRayAxisParallelTerminates(t *testing.T) {
	// Open grid: nothing to hit, so every ray must leave and report a miss.
	maze := world.NewMaze(world.MustNewGrid(
		"     ",
		"     ",
		"     ",
	), nil)
	origin := world.CellCenter(2, 1, cellSize)
	angles := []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2, 2 * math.Pi, -math.Pi / 2, 1e-9, math.Pi/2 + 1e-9}
	for _, a := range angles {
		hit := CastRay(maze, origin, a, cellSize)
		if hit.Hit() {
			t.Errorf("angle %v: expected a miss, got %q", a, hit.Impact)
		}
		if hit.Distance != MissDistance {
			t.Errorf("angle %v: expected sentinel distance, got %v", a, hit.Distance)
		}
	}
}

func TestCastRayRaggedRow(t *testing.T) {
	maze := world.NewMaze(world.MustNewGrid(
		"#####",
		"#  ",
		"#####",
	), nil)
	hit := CastRay(maze, world.CellCenter(1, 1, cellSize), 0, cellSize)
	if hit.Hit() {
		t.Errorf("Expected the ray to leave through the short row, got %q", hit.Impact)
	}
}

func TestCastRayDistanceFloor(t *testing.T) {
	maze := enclosedMaze()
	// Standing exactly on the west wall face.
	origin := geom.Vector2{X: cellSize, Y: 1.5 * cellSize}
	hit := CastRay(maze, origin, math.Pi, cellSize)
	if hit.Distance < MinDistance {
		t.Errorf("Expected distance floored at %v, got %v", MinDistance, hit.Distance)
	}
}

func TestCastRayDegenerateInputs(t *testing.T) {
	if hit := CastRay(nil, geom.Vector2{}, 0, cellSize); hit.Hit() || hit.Distance != MissDistance {
		t.Errorf("Expected a miss for a nil maze")
	}
	calls := 0
	if hit := Trace(nil, geom.Vector2{}, 0, cellSize, 4, func(geom.Vector2) bool { calls++; return true }); hit.Hit() || calls != 0 {
		t.Errorf("Expected Trace over a nil maze to miss without sampling, got %d samples", calls)
	}
	if hit := CastRay(enclosedMaze(), geom.Vector2{X: 96, Y: 96}, 0, 0); hit.Hit() {
		t.Errorf("Expected a miss for zero cell size")
	}
	outside := geom.Vector2{X: -500, Y: -500}
	if hit := CastRay(enclosedMaze(), outside, math.Pi/4, cellSize); hit.Hit() {
		t.Errorf("Expected a miss from outside the grid")
	}
}

func TestFaceFraction(t *testing.T) {
	tests := []struct {
		v    float64
		want float64
	}{
		{0, 0},
		{32, 0.5},
		{64, 0},
		{96, 0.5},
		{-16, 0.75},
		{-1e-20, 0},
	}
	for _, tt := range tests {
		got := faceFraction(tt.v, cellSize)
		if got < 0 || got >= 1 {
			t.Errorf("faceFraction(%v) = %v outside [0,1)", tt.v, got)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("faceFraction(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestRayAngle(t *testing.T) {
	p := Pose{Angle: 1, FOV: math.Pi / 3}
	if got := p.RayAngle(0, 320); math.Abs(got-(1-math.Pi/6)) > 1e-12 {
		t.Errorf("Expected leftmost ray at angle-fov/2, got %v", got)
	}
	if got := p.RayAngle(160, 320); math.Abs(got-1) > 1e-12 {
		t.Errorf("Expected centre ray along the heading, got %v", got)
	}
}

func TestTrace(t *testing.T) {
	maze := enclosedMaze()
	origin := world.CellCenter(1, 1, cellSize)
	var samples []geom.Vector2
	hit := Trace(maze, origin, 0, cellSize, 4, func(p geom.Vector2) bool {
		samples = append(samples, p)
		return true
	})
	if !hit.Hit() {
		t.Fatalf("Expected a hit")
	}
	if len(samples) == 0 {
		t.Fatalf("Expected samples along the ray")
	}
	last := samples[len(samples)-1]
	if last.X > origin.X+hit.Distance+1e-9 {
		t.Errorf("Sample %v went past the hit at %v", last, hit.Distance)
	}
	wantCount := int(hit.Distance/4) + 1
	if len(samples) != wantCount {
		t.Errorf("Expected %d samples, got %d", wantCount, len(samples))
	}

	count := 0
	Trace(maze, origin, 0, cellSize, 4, func(p geom.Vector2) bool {
		count++
		return count < 3
	})
	if count != 3 {
		t.Errorf("Expected tracing to stop when fn returns false, got %d calls", count)
	}
}
