package config

// MaterialConfig is the root of assets/materials.yaml.
type MaterialConfig struct {
	Materials map[string]MaterialData `yaml:"materials"`
}

// MaterialData describes one grid symbol.
type MaterialData struct {
	Name      string `yaml:"name"`
	Letter    string `yaml:"letter"`
	Category  string `yaml:"category"` // empty, wall, door, exit, actor, item, start
	Texture   string `yaml:"texture"`
	SheetCols int    `yaml:"sheet_cols"`
	SheetRows int    `yaml:"sheet_rows"`
	Minimap   string `yaml:"minimap"` // key into MinimapColors
	Color     RGB    `yaml:"color"`   // placeholder texture tint
}
