package world

import (
	"fmt"
	"os"
	"sort"
	"unicode/utf8"

	"mazecaster/internal/config"

	"gopkg.in/yaml.v3"
)

// Category groups symbols by how the renderer treats them.
type Category string

const (
	CategoryEmpty Category = "empty"
	CategoryWall  Category = "wall"
	CategoryDoor  Category = "door"
	CategoryExit  Category = "exit"
	CategoryActor Category = "actor"
	CategoryItem  Category = "item"
	CategoryStart Category = "start"
)

// Obstacle reports whether cells of this category stop rays and movement.
func (c Category) Obstacle() bool {
	switch c {
	case CategoryWall, CategoryDoor, CategoryExit:
		return true
	}
	return false
}

// Billboard reports whether symbols of this category are drawn as sprites.
func (c Category) Billboard() bool {
	return c == CategoryActor || c == CategoryItem
}

// Material is the resolved description of one symbol.
type Material struct {
	Key       string
	Name      string
	Symbol    rune
	Category  Category
	Texture   string
	SheetCols int
	SheetRows int
	Minimap   string
	Color     config.RGB
}

// MaterialTable maps grid symbols to materials.
type MaterialTable struct {
	bySymbol map[rune]*Material
	byKey    map[string]*Material
}

// NewMaterialTable creates an empty table.
func NewMaterialTable() *MaterialTable {
	return &MaterialTable{
		bySymbol: make(map[rune]*Material),
		byKey:    make(map[string]*Material),
	}
}

// LoadMaterialConfig loads material definitions from a YAML file
func (mt *MaterialTable) LoadMaterialConfig(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read material config file: %w", err)
	}

	var materialConfig config.MaterialConfig
	err = yaml.Unmarshal(data, &materialConfig)
	if err != nil {
		return fmt.Errorf("failed to parse material config: %w", err)
	}

	return mt.FromConfig(materialConfig)
}

// FromConfig replaces the table contents.
func (mt *MaterialTable) FromConfig(cfg config.MaterialConfig) error {
	bySymbol := make(map[rune]*Material, len(cfg.Materials))
	byKey := make(map[string]*Material, len(cfg.Materials))

	// Sorted so duplicate letters are reported deterministically.
	keys := make([]string, 0, len(cfg.Materials))
	for key := range cfg.Materials {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		data := cfg.Materials[key]
		if utf8.RuneCountInString(data.Letter) != 1 {
			return fmt.Errorf("material %s: letter must be exactly one symbol, got %q", key, data.Letter)
		}
		sym, _ := utf8.DecodeRuneInString(data.Letter)
		if other, dup := bySymbol[sym]; dup {
			return fmt.Errorf("material %s: letter %q already used by %s", key, data.Letter, other.Key)
		}
		category := Category(data.Category)
		switch category {
		case CategoryEmpty, CategoryWall, CategoryDoor, CategoryExit, CategoryActor, CategoryItem, CategoryStart:
		case "":
			category = CategoryWall
		default:
			return fmt.Errorf("material %s: unknown category %q", key, data.Category)
		}
		m := &Material{
			Key:       key,
			Name:      data.Name,
			Symbol:    sym,
			Category:  category,
			Texture:   data.Texture,
			SheetCols: data.SheetCols,
			SheetRows: data.SheetRows,
			Minimap:   data.Minimap,
			Color:     data.Color,
		}
		bySymbol[sym] = m
		byKey[key] = m
	}

	mt.bySymbol = bySymbol
	mt.byKey = byKey
	return nil
}

// Lookup returns the material for sym.
func (mt *MaterialTable) Lookup(sym rune) (*Material, bool) {
	m, ok := mt.bySymbol[sym]
	return m, ok
}

// CategoryOf returns the category of sym. Space is always empty; any other
// unknown symbol is treated as a wall so stray characters still block rays.
func (mt *MaterialTable) CategoryOf(sym rune) Category {
	if m, ok := mt.bySymbol[sym]; ok {
		return m.Category
	}
	if sym == ' ' {
		return CategoryEmpty
	}
	return CategoryWall
}

func (mt *MaterialTable) IsObstacle(sym rune) bool {
	return mt.CategoryOf(sym).Obstacle()
}

// Materials returns all materials sorted by key.
func (mt *MaterialTable) Materials() []*Material {
	out := make([]*Material, 0, len(mt.byKey))
	for _, m := range mt.byKey {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// DefaultMaterialTable is the built-in symbol set used when no material file
// is configured.
func DefaultMaterialTable() *MaterialTable {
	mt := NewMaterialTable()
	err := mt.FromConfig(config.MaterialConfig{Materials: map[string]config.MaterialData{
		"floor":       {Name: "Floor", Letter: " ", Category: "empty", Minimap: "empty"},
		"floor_dot":   {Name: "Floor", Letter: ".", Category: "empty", Minimap: "empty"},
		"start":       {Name: "Start", Letter: "p", Category: "start", Minimap: "empty"},
		"wall_plus":   {Name: "Stone Corner", Letter: "+", Category: "wall", Minimap: "wall1", Color: config.RGB{182, 180, 97}},
		"wall_dash":   {Name: "Stone Wall", Letter: "-", Category: "wall", Minimap: "wall1", Color: config.RGB{182, 180, 97}},
		"wall_pipe":   {Name: "Stone Wall", Letter: "|", Category: "wall", Minimap: "wall1", Color: config.RGB{182, 180, 97}},
		"wall_at":     {Name: "Brick Wall", Letter: "@", Category: "wall", Minimap: "wall2", Color: config.RGB{170, 160, 80}},
		"wall_hash":   {Name: "Block Wall", Letter: "#", Category: "wall", Minimap: "wall3", Color: config.RGB{150, 140, 70}},
		"wall_bang":   {Name: "Panel Wall", Letter: "!", Category: "wall", Minimap: "wall4", Color: config.RGB{120, 110, 55}},
		"goal_wall":   {Name: "Goal Wall", Letter: "g", Category: "wall", Minimap: "goal", Color: config.RGB{200, 60, 60}},
		"door_yellow": {Name: "Yellow Door", Letter: "Y", Category: "door", Minimap: "wall1", Color: config.RGB{255, 215, 0}},
		"door_blue":   {Name: "Blue Door", Letter: "B", Category: "door", Minimap: "wall1", Color: config.RGB{60, 130, 255}},
		"door_red":    {Name: "Red Door", Letter: "R", Category: "door", Minimap: "wall1", Color: config.RGB{235, 60, 60}},
		"exit":        {Name: "Exit", Letter: "G", Category: "exit", Minimap: "goal", Color: config.RGB{200, 60, 60}},
		"enemy":       {Name: "Enemy", Letter: "e", Category: "actor", SheetCols: 4, SheetRows: 2, Minimap: "enemy", Color: config.RGB{200, 40, 40}},
		"key_yellow":  {Name: "Yellow Key", Letter: "1", Category: "item", SheetCols: 4, SheetRows: 2, Minimap: "key_y", Color: config.RGB{255, 215, 0}},
		"key_blue":    {Name: "Blue Key", Letter: "2", Category: "item", SheetCols: 4, SheetRows: 2, Minimap: "key_b", Color: config.RGB{60, 130, 255}},
		"key_red":     {Name: "Red Key", Letter: "3", Category: "item", SheetCols: 4, SheetRows: 2, Minimap: "key_r", Color: config.RGB{235, 60, 60}},
	}})
	if err != nil {
		panic("invalid built-in material table: " + err.Error())
	}
	return mt
}
