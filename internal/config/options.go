package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Options are launch-time settings that sit outside config.yaml. They are
// read from MAZECASTER_* environment variables.
type Options struct {
	ConfigFile    string
	MazeFile      string
	MaterialsFile string
	Level         int
	Parallel      bool
	PerfLog       bool
	Snapshot      string
}

// NewOptionsReader returns a viper instance with the launch defaults bound
// to the MAZECASTER_ environment prefix.
func NewOptionsReader() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("MAZECASTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("config", "config.yaml")
	v.SetDefault("maze", "")
	v.SetDefault("materials", "")
	v.SetDefault("level", 0)
	v.SetDefault("parallel", false)
	v.SetDefault("perf", false)
	v.SetDefault("snapshot", "snapshot.png")
	return v
}

// LoadOptions resolves Options from the environment.
func LoadOptions(v *viper.Viper) Options {
	if v == nil {
		v = NewOptionsReader()
	}
	return Options{
		ConfigFile:    v.GetString("config"),
		MazeFile:      v.GetString("maze"),
		MaterialsFile: v.GetString("materials"),
		Level:         v.GetInt("level"),
		Parallel:      v.GetBool("parallel"),
		PerfLog:       v.GetBool("perf"),
		Snapshot:      v.GetString("snapshot"),
	}
}

// Apply folds the options into a loaded config. Empty strings keep the
// config.yaml value.
func (o Options) Apply(c *Config) {
	if o.MazeFile != "" {
		c.World.MazeFile = o.MazeFile
	}
	if o.MaterialsFile != "" {
		c.World.MaterialsFile = o.MaterialsFile
	}
	if o.Parallel {
		c.Graphics.ParallelColumns = true
	}
}
