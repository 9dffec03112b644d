package app

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilerScopes(t *testing.T) {
	p := NewProfiler()
	base := time.Unix(100, 0)
	ticks := []time.Time{base, base.Add(3 * time.Millisecond), base, base.Add(1500 * time.Microsecond)}
	p.now = func() time.Time {
		next := ticks[0]
		ticks = ticks[1:]
		return next
	}

	p.BeginScope("dispatch")
	p.EndScope("dispatch")
	p.BeginScope("present")
	p.EndScope("present")
	p.EndScope("never-started")
	p.SetCount("resets", 2)

	assert.Equal(t, []string{"dispatch", "present"}, p.Order)
	assert.Equal(t, 3*time.Millisecond, p.Scopes["dispatch"])

	stats := p.GetStatsString()
	assert.Contains(t, stats, "dispatch       : 3.00 ms")
	assert.Contains(t, stats, "present        : 1.50 ms")
	assert.Contains(t, stats, "resets         : 2")
	assert.NotContains(t, stats, "never-started")
	assert.Less(t, strings.Index(stats, "dispatch"), strings.Index(stats, "present"))
}

func TestProfilerKeepsOrderAcrossFrames(t *testing.T) {
	p := NewProfiler()
	for i := 0; i < 3; i++ {
		p.BeginScope("upload")
		p.EndScope("upload")
		p.BeginScope("swap")
		p.EndScope("swap")
	}
	assert.Equal(t, []string{"upload", "swap"}, p.Order)
}

func TestFrameTimer(t *testing.T) {
	ft := NewFrameTimer("Demo", 0)
	assert.Equal(t, float32(0.0001), ft.FrameTime())

	_, ok := ft.Tick(0.02)
	assert.False(t, ok)
	assert.Equal(t, float32(0.0001), ft.FrameTime())

	title, ok := ft.Tick(0.04)
	require.True(t, ok)
	assert.Equal(t, "Demo - 50.000000 FPS / 20.000000 ms", title)
	assert.InDelta(t, 0.02, ft.FrameTime(), 1e-6)

	// the counter restarts after each refresh
	title, ok = ft.Tick(0.14)
	require.True(t, ok)
	assert.Equal(t, "Demo - 10.000000 FPS / 100.000000 ms", title)
}
