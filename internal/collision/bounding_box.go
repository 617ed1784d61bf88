// Package collision keeps bodies out of blocking grid cells.
package collision

import (
	"math"

	"github.com/harbdog/raycaster-go/geom"
)

// BoundingBox represents a rectangular collision boundary
type BoundingBox struct {
	Center geom.Vector2
	Width  float64 // Total width
	Height float64 // Total height
}

// NewBoundingBox creates a new bounding box centered at the given position
func NewBoundingBox(center geom.Vector2, width, height float64) *BoundingBox {
	return &BoundingBox{Center: center, Width: width, Height: height}
}

// GetBounds returns the min/max coordinates of the bounding box
func (bb *BoundingBox) GetBounds() (minX, minY, maxX, maxY float64) {
	halfWidth := bb.Width / 2
	halfHeight := bb.Height / 2
	return bb.Center.X - halfWidth, bb.Center.Y - halfHeight, bb.Center.X + halfWidth, bb.Center.Y + halfHeight
}

// GetCorners returns all four corners of the bounding box
func (bb *BoundingBox) GetCorners() [4]geom.Vector2 {
	minX, minY, maxX, maxY := bb.GetBounds()
	return [4]geom.Vector2{
		{X: minX, Y: minY}, // Top-left
		{X: maxX, Y: minY}, // Top-right
		{X: minX, Y: maxY}, // Bottom-left
		{X: maxX, Y: maxY}, // Bottom-right
	}
}

// Intersects checks if this bounding box intersects with another
func (bb *BoundingBox) Intersects(other *BoundingBox) bool {
	minX1, minY1, maxX1, maxY1 := bb.GetBounds()
	minX2, minY2, maxX2, maxY2 := other.GetBounds()

	return !(maxX1 < minX2 || maxX2 < minX1 || maxY1 < minY2 || maxY2 < minY1)
}

// MoveTo moves the bounding box to a new center position
func (bb *BoundingBox) MoveTo(center geom.Vector2) {
	bb.Center = center
}

// TileChecker interface for checking if tiles block movement
type TileChecker interface {
	IsTileBlocking(tileX, tileY int) bool
	GetWorldBounds() (width, height int)
}

// Fits reports whether every tile the box overlaps is inside the world and
// not blocking. Tiles are tileSize world units square.
func Fits(tc TileChecker, box *BoundingBox, tileSize float64) bool {
	if tileSize <= 0 {
		return false
	}
	width, height := tc.GetWorldBounds()
	minX, minY, maxX, maxY := box.GetBounds()

	startTileX := int(math.Floor(minX / tileSize))
	startTileY := int(math.Floor(minY / tileSize))
	endTileX := int(math.Floor(maxX / tileSize))
	endTileY := int(math.Floor(maxY / tileSize))

	for tileY := startTileY; tileY <= endTileY; tileY++ {
		for tileX := startTileX; tileX <= endTileX; tileX++ {
			if tileX < 0 || tileX >= width || tileY < 0 || tileY >= height {
				return false
			}
			if tc.IsTileBlocking(tileX, tileY) {
				return false
			}
		}
	}
	return true
}
