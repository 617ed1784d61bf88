package game

import (
	"math"

	"mazecaster/internal/collision"
	"mazecaster/internal/frame"
	"mazecaster/internal/raycast"

	"github.com/harbdog/raycaster-go/geom"
)

// bodyRadius keeps the eye this fraction of a cell away from wall faces.
const bodyRadius = 0.2

// Camera moves the viewer of the current level. A step that would put the
// body inside an obstacle is dropped per axis, so the viewer slides along
// walls instead of stopping dead.
type Camera struct {
	level *frame.Level
}

func NewCamera(level *frame.Level) *Camera {
	return &Camera{level: level}
}

func (c *Camera) pose() *raycast.Pose {
	return &c.level.Scene.Pose
}

// GetForwardX returns the X component of the forward direction vector
func (c *Camera) GetForwardX() float64 {
	return math.Cos(c.pose().Angle)
}

// GetForwardY returns the Y component of the forward direction vector
func (c *Camera) GetForwardY() float64 {
	return math.Sin(c.pose().Angle)
}

// GetRightX returns the X component of the right direction vector
func (c *Camera) GetRightX() float64 {
	return math.Cos(c.pose().Angle + math.Pi/2)
}

// GetRightY returns the Y component of the right direction vector
func (c *Camera) GetRightY() float64 {
	return math.Sin(c.pose().Angle + math.Pi/2)
}

// GetPosition returns the viewer position in world units
func (c *Camera) GetPosition() geom.Vector2 {
	return c.pose().Pos
}

// Rotate turns the viewer, keeping the heading in [0, 2π).
func (c *Camera) Rotate(angle float64) {
	p := c.pose()
	p.Angle = math.Mod(p.Angle+angle, 2*math.Pi)
	if p.Angle < 0 {
		p.Angle += 2 * math.Pi
	}
}

// Move walks forward and strafe world units along the view and right
// vectors. It reports whether the viewer moved at all.
func (c *Camera) Move(forward, strafe float64) bool {
	dx := forward*c.GetForwardX() + strafe*c.GetRightX()
	dy := forward*c.GetForwardY() + strafe*c.GetRightY()

	p := c.pose()
	moved := false
	if next := (geom.Vector2{X: p.Pos.X + dx, Y: p.Pos.Y}); dx != 0 && c.canOccupy(next) {
		p.Pos = next
		moved = true
	}
	if next := (geom.Vector2{X: p.Pos.X, Y: p.Pos.Y + dy}); dy != 0 && c.canOccupy(next) {
		p.Pos = next
		moved = true
	}
	return moved
}

// canOccupy checks the body square around pos against the maze.
func (c *Camera) canOccupy(pos geom.Vector2) bool {
	cs := c.level.Scene.CellSize
	size := 2 * cs * bodyRadius
	return collision.Fits(c.level.Maze, collision.NewBoundingBox(pos, size, size), cs)
}
