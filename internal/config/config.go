// Package config loads anchorscad settings from ANCHORSCAD_* environment
// variables.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/chazu/anchorscad/pkg/scene"
)

// Prefix is prepended to every variable name, e.g. ANCHORSCAD_DEFAULT_FN.
const Prefix = "anchorscad"

type Config struct {
	DefaultFn   int           `envconfig:"DEFAULT_FN" default:"0"`
	DefaultFa   float64       `envconfig:"DEFAULT_FA" default:"0"`
	DefaultFs   float64       `envconfig:"DEFAULT_FS" default:"0"`
	EvalTimeout time.Duration `envconfig:"EVAL_TIMEOUT" default:"5s"`
	MeshCells   int           `envconfig:"MESH_CELLS" default:"200"`
	Indent      string        `envconfig:"INDENT"` // empty for a tab
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SceneDefaults returns the global resolution written at the top of every
// scene.
func (c *Config) SceneDefaults() scene.Defaults {
	return scene.Defaults{Fn: c.DefaultFn, Fa: c.DefaultFa, Fs: c.DefaultFs}
}
