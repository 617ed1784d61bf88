// Package raycast walks rays through a maze grid with a DDA traversal.
package raycast

import (
	"math"

	"mazecaster/internal/world"

	"github.com/harbdog/raycaster-go/geom"
)

const (
	// MinDistance floors every reported distance so callers can divide by it.
	MinDistance = 1e-4
	// MissDistance is reported when a ray leaves the grid without a hit.
	MissDistance = 20000.0
	// NoHit is the impact symbol of a miss.
	NoHit = ' '

	// Direction components smaller than this never cross a boundary.
	axisEpsilon = 1e-6
)

// Side tells which kind of cell boundary a ray crossed last.
type Side int

const (
	SideX Side = 0 // vertical boundary, x changed
	SideY Side = 1 // horizontal boundary, y changed
)

// Intersect is the first obstacle a ray met.
type Intersect struct {
	Distance float64 // Euclidean, world units
	Impact   rune    // NoHit on a miss
	HitFrac  float64 // position along the struck face, [0, 1)
	Side     Side
	CellX    int
	CellY    int
}

// Hit reports whether the ray struck an obstacle.
func (i Intersect) Hit() bool {
	return i.Impact != NoHit
}

// Point returns the world position where the ray stopped.
func (i Intersect) Point(origin geom.Vector2, angle float64) geom.Vector2 {
	return geom.Vector2{
		X: origin.X + i.Distance*math.Cos(angle),
		Y: origin.Y + i.Distance*math.Sin(angle),
	}
}

// Pose is the viewer: position in world units plus heading and field of
// view in radians.
type Pose struct {
	Pos   geom.Vector2
	Angle float64
	FOV   float64
}

// RayAngle returns the heading of ray i of n spread across the field of view.
func (p Pose) RayAngle(i, n int) float64 {
	return p.Angle - p.FOV/2 + p.FOV*float64(i)/float64(n)
}

// CastRay walks from origin along angle until it enters an obstacle cell or
// leaves the grid. It never fails; a miss reports MissDistance and NoHit.
func CastRay(maze *world.Maze, origin geom.Vector2, angle, cellSize float64) Intersect {
	miss := Intersect{Distance: MissDistance, Impact: NoHit, CellX: -1, CellY: -1}
	if maze == nil || cellSize <= 0 {
		return miss
	}

	rayDirectionX := math.Cos(angle)
	rayDirectionY := math.Sin(angle)

	currentCellX := int(math.Floor(origin.X / cellSize))
	currentCellY := int(math.Floor(origin.Y / cellSize))

	// World distance along the ray between two boundaries of the same axis
	deltaDistanceX := math.Inf(1)
	if math.Abs(rayDirectionX) >= axisEpsilon {
		deltaDistanceX = cellSize / math.Abs(rayDirectionX)
	}
	deltaDistanceY := math.Inf(1)
	if math.Abs(rayDirectionY) >= axisEpsilon {
		deltaDistanceY = cellSize / math.Abs(rayDirectionY)
	}

	stepDirectionX, distanceToNextX := initialBoundary(origin.X, currentCellX, rayDirectionX, cellSize, deltaDistanceX)
	stepDirectionY, distanceToNextY := initialBoundary(origin.Y, currentCellY, rayDirectionY, cellSize, deltaDistanceY)

	// Every step moves one axis monotonically, so the ray must leave the grid
	// within width+height steps.
	maxSteps := maze.Width() + maze.Height() + 2
	side := SideX
	for steps := 0; steps < maxSteps; steps++ {
		var lastStep float64
		if distanceToNextX < distanceToNextY {
			distanceToNextX += deltaDistanceX
			currentCellX += stepDirectionX
			lastStep = deltaDistanceX
			side = SideX
		} else {
			distanceToNextY += deltaDistanceY
			currentCellY += stepDirectionY
			lastStep = deltaDistanceY
			side = SideY
		}

		sym, obstacle, inside := maze.ObstacleAt(currentCellX, currentCellY)
		if !inside {
			return miss
		}
		if !obstacle {
			continue
		}

		var distance float64
		if side == SideX {
			distance = distanceToNextX - lastStep
		} else {
			distance = distanceToNextY - lastStep
		}
		distance = math.Max(distance, MinDistance)

		hitX := origin.X + distance*rayDirectionX
		hitY := origin.Y + distance*rayDirectionY
		var frac float64
		if side == SideX {
			frac = faceFraction(hitY, cellSize)
		} else {
			frac = faceFraction(hitX, cellSize)
		}

		return Intersect{
			Distance: distance,
			Impact:   sym,
			HitFrac:  frac,
			Side:     side,
			CellX:    currentCellX,
			CellY:    currentCellY,
		}
	}
	return miss
}

// initialBoundary returns the step direction on one axis and the ray
// distance to the first boundary crossing on it.
func initialBoundary(pos float64, cell int, dir, cellSize, delta float64) (int, float64) {
	if math.IsInf(delta, 1) {
		return 0, math.Inf(1)
	}
	if dir < 0 {
		return -1, (pos - float64(cell)*cellSize) / cellSize * delta
	}
	return 1, (float64(cell+1)*cellSize - pos) / cellSize * delta
}

// faceFraction maps a world coordinate to its position within a cell, in
// [0, 1) even for negative coordinates and rounding at the upper edge.
func faceFraction(v, cellSize float64) float64 {
	local := math.Mod(math.Mod(v, cellSize)+cellSize, cellSize)
	frac := local / cellSize
	if frac >= 1 || frac < 0 || math.IsNaN(frac) {
		return 0
	}
	return frac
}

// Trace calls fn at sample points every spacing world units from origin up
// to the ray's stopping point. Sampling stops early when fn returns false.
func Trace(maze *world.Maze, origin geom.Vector2, angle, cellSize, spacing float64, fn func(p geom.Vector2) bool) Intersect {
	hit := CastRay(maze, origin, angle, cellSize)
	if maze == nil || spacing <= 0 {
		return hit
	}
	limit := hit.Distance
	if !hit.Hit() {
		// A miss stops at the grid edge, not at the sentinel.
		limit = math.Min(limit, math.Hypot(float64(maze.Width()), float64(maze.Height()))*cellSize)
	}
	dx, dy := math.Cos(angle), math.Sin(angle)
	for d := 0.0; d <= limit; d += spacing {
		if !fn(geom.Vector2{X: origin.X + d*dx, Y: origin.Y + d*dy}) {
			break
		}
	}
	return hit
}
