package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/harbdog/raycaster-go/geom"
)

// ErrEmptyGrid is returned when a maze has no rows or no cells.
var ErrEmptyGrid = errors.New("grid has no cells")

// Grid is a rectangular-ish maze of symbols. Rows may be ragged; Width is the
// longest row and cells past the end of a shorter row are out of bounds.
type Grid struct {
	rows  [][]rune
	width int
}

// NewGrid builds a grid from text rows, one symbol per rune.
func NewGrid(rows []string) (*Grid, error) {
	runes := make([][]rune, len(rows))
	for i, row := range rows {
		runes[i] = []rune(row)
	}
	return NewGridFromRunes(runes)
}

// NewGridFromRunes takes ownership of rows.
func NewGridFromRunes(rows [][]rune) (*Grid, error) {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if len(rows) == 0 || width == 0 {
		return nil, ErrEmptyGrid
	}
	return &Grid{rows: rows, width: width}, nil
}

// MustNewGrid panics when rows cannot form a grid. Intended for fixtures.
func MustNewGrid(rows ...string) *Grid {
	g, err := NewGrid(rows)
	if err != nil {
		panic(fmt.Sprintf("invalid grid: %v", err))
	}
	return g
}

func (g *Grid) Width() int {
	return g.width
}

func (g *Grid) Height() int {
	return len(g.rows)
}

// At returns the symbol at column x, row y. ok is false outside the grid,
// including the missing tail of a short row.
func (g *Grid) At(x, y int) (rune, bool) {
	if y < 0 || y >= len(g.rows) || x < 0 || x >= len(g.rows[y]) {
		return 0, false
	}
	return g.rows[y][x], true
}

// Row returns a copy of row y as text.
func (g *Grid) Row(y int) string {
	if y < 0 || y >= len(g.rows) {
		return ""
	}
	return string(g.rows[y])
}

// FindSymbol returns the first cell holding sym in row-major order.
func (g *Grid) FindSymbol(sym rune) (x, y int, ok bool) {
	for y, row := range g.rows {
		for x, r := range row {
			if r == sym {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

// CellCenter converts a cell coordinate to world units.
func CellCenter(x, y int, cellSize float64) geom.Vector2 {
	return geom.Vector2{X: (float64(x) + 0.5) * cellSize, Y: (float64(y) + 0.5) * cellSize}
}

// CellOf returns the cell containing a world position.
func CellOf(pos geom.Vector2, cellSize float64) (int, int) {
	return int(math.Floor(pos.X / cellSize)), int(math.Floor(pos.Y / cellSize))
}

// Maze pairs a grid with the table that gives its symbols meaning.
type Maze struct {
	*Grid
	Materials *MaterialTable
}

// NewMaze wires a grid to a material table. A nil table falls back to the
// built-in symbol set.
func NewMaze(grid *Grid, materials *MaterialTable) *Maze {
	if materials == nil {
		materials = DefaultMaterialTable()
	}
	return &Maze{Grid: grid, Materials: materials}
}

// ObstacleAt reports the symbol at (x, y), whether it stops rays and
// movement, and whether the cell exists at all.
func (m *Maze) ObstacleAt(x, y int) (sym rune, obstacle bool, inside bool) {
	sym, inside = m.At(x, y)
	if !inside {
		return 0, false, false
	}
	return sym, m.Materials.IsObstacle(sym), true
}

// Passable reports whether a world position lies in a non-obstacle cell.
func (m *Maze) Passable(pos geom.Vector2, cellSize float64) bool {
	x, y := CellOf(pos, cellSize)
	_, obstacle, inside := m.ObstacleAt(x, y)
	return inside && !obstacle
}

// IsTileBlocking reports whether the cell at (x, y) stops movement.
func (m *Maze) IsTileBlocking(x, y int) bool {
	_, obstacle, inside := m.ObstacleAt(x, y)
	return !inside || obstacle
}

// GetWorldBounds returns the grid size in cells.
func (m *Maze) GetWorldBounds() (width, height int) {
	return m.Width(), m.Height()
}
