package world

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestNewGridRejectsEmpty(t *testing.T) {
	tests := []struct {
		name string
		rows []string
	}{
		{"no rows", nil},
		{"only empty rows", []string{"", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.rows)
			if !errors.Is(err, ErrEmptyGrid) {
				t.Errorf("Expected ErrEmptyGrid, got %v", err)
			}
		})
	}
}

func TestGridRaggedRows(t *testing.T) {
	g := MustNewGrid(
		"+---+",
		"|  |",
		"+---+",
	)
	if g.Width() != 5 || g.Height() != 3 {
		t.Fatalf("Expected 5x3, got %dx%d", g.Width(), g.Height())
	}
	if _, ok := g.At(4, 1); ok {
		t.Errorf("Expected the missing tail of a short row to be out of bounds")
	}
	if sym, ok := g.At(3, 1); !ok || sym != '|' {
		t.Errorf("Expected '|' at (3,1), got %q ok=%v", sym, ok)
	}
	_, left := g.At(-1, 0)
	_, below := g.At(0, 3)
	if left || below {
		t.Errorf("Expected negative and past-the-end cells to be out of bounds")
	}
}

func TestReadGrid(t *testing.T) {
	text := "+--+\r\n|p#|\r\n+--+\r\n\r\n\n"
	g, err := ReadGrid(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Failed to read grid: %v", err)
	}
	if g.Height() != 3 {
		t.Errorf("Expected trailing blank lines to be dropped, got height %d", g.Height())
	}
	// '#' rows are cells, not comments.
	if sym, _ := g.At(2, 1); sym != '#' {
		t.Errorf("Expected '#' wall cell, got %q", sym)
	}
	x, y, ok := g.FindSymbol('p')
	if !ok || x != 1 || y != 1 {
		t.Errorf("Expected start at (1,1), got (%d,%d) ok=%v", x, y, ok)
	}
}

func TestLoadGridMissingFile(t *testing.T) {
	if _, err := LoadGrid("no/such/maze.txt"); err == nil {
		t.Errorf("Expected an error for a missing maze file")
	}
}

func TestDefaultMaterialTable(t *testing.T) {
	mt := DefaultMaterialTable()

	tests := []struct {
		sym      rune
		category Category
		obstacle bool
	}{
		{' ', CategoryEmpty, false},
		{'.', CategoryEmpty, false},
		{'p', CategoryStart, false},
		{'+', CategoryWall, true},
		{'#', CategoryWall, true},
		{'g', CategoryWall, true},
		{'Y', CategoryDoor, true},
		{'B', CategoryDoor, true},
		{'R', CategoryDoor, true},
		{'G', CategoryExit, true},
		{'e', CategoryActor, false},
		{'1', CategoryItem, false},
		{'3', CategoryItem, false},
		{'Z', CategoryWall, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.sym), func(t *testing.T) {
			if got := mt.CategoryOf(tt.sym); got != tt.category {
				t.Errorf("CategoryOf(%q) = %s, want %s", tt.sym, got, tt.category)
			}
			if got := mt.IsObstacle(tt.sym); got != tt.obstacle {
				t.Errorf("IsObstacle(%q) = %v, want %v", tt.sym, got, tt.obstacle)
			}
		})
	}

	enemy, ok := mt.Lookup('e')
	if !ok {
		t.Fatalf("Expected enemy material")
	}
	if enemy.SheetCols != 4 || enemy.SheetRows != 2 {
		t.Errorf("Expected 4x2 enemy sheet, got %dx%d", enemy.SheetCols, enemy.SheetRows)
	}
}

func TestLoadMaterialConfig(t *testing.T) {
	testConfig := `materials:
  stone:
    name: "Stone"
    letter: "S"
    category: wall
    texture: "stone.png"
    minimap: wall2
  lantern:
    name: "Lantern"
    letter: "L"
    category: item
    sheet_cols: 2
    sheet_rows: 1
`
	tmpFile, err := os.CreateTemp("", "test_materials_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(testConfig); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	tmpFile.Close()

	mt := NewMaterialTable()
	if err := mt.LoadMaterialConfig(tmpFile.Name()); err != nil {
		t.Fatalf("Failed to load material config: %v", err)
	}

	stone, ok := mt.Lookup('S')
	if !ok {
		t.Fatalf("Expected stone to be loaded")
	}
	if stone.Key != "stone" || stone.Texture != "stone.png" || stone.Minimap != "wall2" {
		t.Errorf("Unexpected stone material: %+v", stone)
	}
	if !mt.IsObstacle('S') {
		t.Errorf("Expected stone to be an obstacle")
	}
	if mt.IsObstacle('L') {
		t.Errorf("Expected lantern to be passable")
	}
	if got := len(mt.Materials()); got != 2 {
		t.Errorf("Expected 2 materials, got %d", got)
	}
}

func TestMaterialConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"long letter", "materials:\n  a: {letter: \"ab\", category: wall}\n"},
		{"duplicate letter", "materials:\n  a: {letter: \"x\", category: wall}\n  b: {letter: \"x\", category: item}\n"},
		{"bad category", "materials:\n  a: {letter: \"x\", category: lava}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile, err := os.CreateTemp("", "test_materials_*.yaml")
			if err != nil {
				t.Fatalf("Failed to create temp file: %v", err)
			}
			defer os.Remove(tmpFile.Name())
			tmpFile.WriteString(tt.yaml)
			tmpFile.Close()

			mt := DefaultMaterialTable()
			if err := mt.LoadMaterialConfig(tmpFile.Name()); err == nil {
				t.Errorf("Expected an error")
			}
			if !mt.IsObstacle('#') {
				t.Errorf("Expected a failed load to keep the previous table")
			}
		})
	}
}

func TestCollectSprites(t *testing.T) {
	maze := NewMaze(MustNewGrid(
		"+----+",
		"|e 1 |",
		"| p 2|",
		"+----+",
	), nil)

	spawns := CollectSprites(maze, 64)
	if len(spawns) != 3 {
		t.Fatalf("Expected 3 spawns, got %d", len(spawns))
	}
	want := []rune{'e', '1', '2'}
	for i, s := range spawns {
		if s.Symbol != want[i] {
			t.Errorf("Spawn %d: expected %q, got %q", i, want[i], s.Symbol)
		}
		center := CellCenter(s.CellX, s.CellY, 64)
		if s.Pos != center {
			t.Errorf("Spawn %d: expected cell centre %v, got %v", i, center, s.Pos)
		}
	}
	if spawns[0].Category != CategoryActor || spawns[1].Category != CategoryItem {
		t.Errorf("Unexpected categories: %s %s", spawns[0].Category, spawns[1].Category)
	}

	// Sprite cells do not block.
	if _, obstacle, _ := maze.ObstacleAt(1, 1); obstacle {
		t.Errorf("Expected actor cell to stay passable")
	}

	pos, err := StartPose(maze.Grid, 'p', 64)
	if err != nil {
		t.Fatalf("Failed to find start: %v", err)
	}
	if pos.X != 2.5*64 || pos.Y != 2.5*64 {
		t.Errorf("Expected start at cell centre, got %v", pos)
	}
	if _, err := StartPose(maze.Grid, 'q', 64); err == nil {
		t.Errorf("Expected an error for a missing start symbol")
	}
}

func TestMazePassable(t *testing.T) {
	maze := NewMaze(MustNewGrid(
		"###",
		"# #",
		"###",
	), nil)
	center := CellCenter(1, 1, 32)
	if !maze.Passable(center, 32) {
		t.Errorf("Expected centre cell to be passable")
	}
	if maze.Passable(CellCenter(0, 1, 32), 32) {
		t.Errorf("Expected wall cell to block")
	}
	center.X = -5
	if maze.Passable(center, 32) {
		t.Errorf("Expected outside the grid to block")
	}

	if maze.IsTileBlocking(1, 1) || !maze.IsTileBlocking(0, 1) || !maze.IsTileBlocking(3, 1) {
		t.Errorf("Expected only the open cell to be walkable")
	}
	if w, h := maze.GetWorldBounds(); w != 3 || h != 3 {
		t.Errorf("Expected 3x3 world bounds, got %dx%d", w, h)
	}
}
