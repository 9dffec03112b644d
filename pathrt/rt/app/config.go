package app

import (
	"errors"
	"fmt"
)

var ErrBadConfig = errors.New("app: invalid config")

type Config struct {
	Title        string
	WindowWidth  int
	WindowHeight int

	// Kernel output resolution; both sides must divide by WorkgroupSize.
	ImageWidth    int
	ImageHeight   int
	WorkgroupSize int

	Scene       string // demo scene name, ignored when SceneFile is set
	SceneFile   string
	Seed        int64
	Environment string // empty selects a neutral sky
	KernelDir   string // empty uses the embedded kernels

	Debug bool
}

func DefaultConfig() Config {
	return Config{
		Title:         "Progressive Path Tracer",
		WindowWidth:   1300,
		WindowHeight:  1300,
		ImageWidth:    1024,
		ImageHeight:   1024,
		WorkgroupSize: 8,
		Scene:         "random",
		Seed:          1,
		Environment:   "sunset_in_the_chalk_quarry_2k.hdr",
	}
}

func (c Config) Validate() error {
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrBadConfig, c.WindowWidth, c.WindowHeight)
	}
	if c.ImageWidth <= 0 || c.ImageHeight <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrBadConfig, c.ImageWidth, c.ImageHeight)
	}
	if c.WorkgroupSize <= 0 {
		return fmt.Errorf("%w: workgroup size %d", ErrBadConfig, c.WorkgroupSize)
	}
	if c.ImageWidth%c.WorkgroupSize != 0 || c.ImageHeight%c.WorkgroupSize != 0 {
		return fmt.Errorf("%w: image %dx%d is not a multiple of workgroup size %d",
			ErrBadConfig, c.ImageWidth, c.ImageHeight, c.WorkgroupSize)
	}
	return nil
}

// DispatchSize is the fixed compute grid in workgroups.
func (c Config) DispatchSize() (x, y uint32) {
	return uint32(c.ImageWidth / c.WorkgroupSize), uint32(c.ImageHeight / c.WorkgroupSize)
}
