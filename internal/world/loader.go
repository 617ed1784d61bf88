package world

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/harbdog/raycaster-go/geom"
)

// LoadGrid loads a maze from a text file, one row per line. Every character
// is a cell, so lines are kept verbatim apart from line endings. Trailing
// blank lines are dropped.
func LoadGrid(path string) (*Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open maze file %s: %w", path, err)
	}
	defer file.Close()

	grid, err := ReadGrid(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load maze %s: %w", path, err)
	}
	return grid, nil
}

// ReadGrid parses maze text from r.
func ReadGrid(r io.Reader) (*Grid, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return NewGrid(lines)
}

// Spawn is a billboard symbol found in the grid.
type Spawn struct {
	Symbol   rune
	CellX    int
	CellY    int
	Pos      geom.Vector2
	Category Category
}

// CollectSprites scans the grid for actor and item symbols and returns one
// spawn per cell, positioned at the cell centre, in row-major order. The
// cells themselves stay passable for the intersector.
func CollectSprites(maze *Maze, cellSize float64) []Spawn {
	var spawns []Spawn
	for y := 0; y < maze.Height(); y++ {
		for x := 0; x < maze.Width(); x++ {
			sym, ok := maze.At(x, y)
			if !ok {
				continue
			}
			category := maze.Materials.CategoryOf(sym)
			if !category.Billboard() {
				continue
			}
			spawns = append(spawns, Spawn{
				Symbol:   sym,
				CellX:    x,
				CellY:    y,
				Pos:      CellCenter(x, y, cellSize),
				Category: category,
			})
		}
	}
	return spawns
}

// StartPose finds the start symbol and returns the centre of its cell.
func StartPose(grid *Grid, start rune, cellSize float64) (geom.Vector2, error) {
	x, y, ok := grid.FindSymbol(start)
	if !ok {
		return geom.Vector2{}, fmt.Errorf("start symbol %q not found in maze", start)
	}
	return CellCenter(x, y, cellSize), nil
}
