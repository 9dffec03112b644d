package app

import (
	"math/rand"

	"github.com/gekko3d/progressive/pathrt/rt/core"
)

// LoadScene builds the scene cfg selects: a YAML file when SceneFile is set,
// otherwise the named demo scene seeded with cfg.Seed.
func LoadScene(cfg Config) (*core.Scene, error) {
	if cfg.SceneFile != "" {
		return core.LoadSceneFile(cfg.SceneFile)
	}
	return core.BuildDemoScene(cfg.Scene, rand.New(rand.NewSource(cfg.Seed)))
}
