package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	x, y := cfg.DispatchSize()
	assert.Equal(t, uint32(128), x)
	assert.Equal(t, uint32(128), y)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"window", func(c *Config) { c.WindowWidth = 0 }},
		{"image", func(c *Config) { c.ImageHeight = -8 }},
		{"workgroup", func(c *Config) { c.WorkgroupSize = 0 }},
		{"indivisible width", func(c *Config) { c.ImageWidth = 1020 }},
		{"indivisible height", func(c *Config) { c.ImageHeight = 1001 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrBadConfig)
		})
	}

	cfg := DefaultConfig()
	cfg.ImageWidth, cfg.ImageHeight, cfg.WorkgroupSize = 640, 480, 16
	assert.NoError(t, cfg.Validate())
	x, y := cfg.DispatchSize()
	assert.Equal(t, [2]uint32{40, 30}, [2]uint32{x, y})
}
