package app

import (
	"errors"
	"fmt"

	"github.com/gekko3d/progressive/pathrt/rt/core"
	"github.com/gekko3d/progressive/pathrt/rt/gpu"
	"github.com/gekko3d/progressive/pathrt/rt/logging"
)

var ErrPresentBeforeBarrier = errors.New("app: present requested before the compute barrier")

// Backend is the GPU side of one frame. Calls arrive in the order
// PushUniforms, Dispatch, Barrier, Present, Swap.
type Backend interface {
	PushUniforms(u gpu.FrameUniforms) error
	Dispatch(x, y uint32) error
	// Barrier makes the kernel's image writes visible to presentation.
	Barrier() error
	Present() error
	Swap() error
}

// Window is the platform surface the loop polls and titles.
type Window interface {
	core.Pointer
	Poll() *core.InputState
	ShouldClose() bool
	SetTitle(title string)
}

// Clock returns seconds since some fixed origin.
type Clock func() float64

type RenderLoop struct {
	Backend  Backend
	Window   Window
	Camera   *core.Camera
	Accum    *core.Accumulation
	Timer    *FrameTimer
	Profiler *Profiler
	Logger   logging.Logger

	GroupsX, GroupsY uint32
	RenderMode       int32
	Frames           uint64

	clock     Clock
	lastStats float64
}

func NewRenderLoop(cfg Config, backend Backend, win Window, cam *core.Camera, clock Clock, logger logging.Logger) *RenderLoop {
	x, y := cfg.DispatchSize()
	now := clock()
	return &RenderLoop{
		Backend:   backend,
		Window:    win,
		Camera:    cam,
		Accum:     core.NewAccumulation(),
		Timer:     NewFrameTimer(cfg.Title, now),
		Profiler:  NewProfiler(),
		Logger:    logging.OrNop(logger),
		GroupsX:   x,
		GroupsY:   y,
		clock:     clock,
		lastStats: now,
	}
}

func (l *RenderLoop) uniforms(now float64) gpu.FrameUniforms {
	return gpu.FrameUniforms{
		Time:           float32(now),
		NumAccumFrames: l.Accum.Count(),
		RenderMode:     l.RenderMode,
		CameraPos:      l.Camera.Position,
		CameraDir:      l.Camera.Direction,
		Rays:           l.Camera.FrustumRays(),
	}
}

func (l *RenderLoop) scope(name string, fn func() error) error {
	l.Profiler.BeginScope(name)
	err := fn()
	l.Profiler.EndScope(name)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Frame runs one iteration. It returns false once the user asked to quit.
func (l *RenderLoop) Frame() (bool, error) {
	in := l.Window.Poll()
	if in.Down(core.ActionExit) || l.Window.ShouldClose() {
		return false, nil
	}
	if in.JustPressed[core.ActionToggleMode] {
		l.RenderMode = 1 - l.RenderMode
		l.Accum.Reset()
		l.Logger.Infof("render mode %d", l.RenderMode)
	}

	now := l.clock()
	if title, ok := l.Timer.Tick(now); ok {
		l.Window.SetTitle(title)
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"upload", func() error { return l.Backend.PushUniforms(l.uniforms(now)) }},
		{"dispatch", func() error { return l.Backend.Dispatch(l.GroupsX, l.GroupsY) }},
		{"barrier", l.Backend.Barrier},
		{"present", l.Backend.Present},
		{"swap", l.Backend.Swap},
	}
	for _, s := range steps {
		if err := l.scope(s.name, s.fn); err != nil {
			return false, fmt.Errorf("frame %d: %w", l.Frames, err)
		}
	}
	l.Accum.Advance()
	l.Frames++

	if l.Camera.ApplyInput(l.Timer.FrameTime(), in, l.Window) {
		l.Accum.Reset()
	}
	l.Camera.RecomputeMatrices()

	if l.Logger.DebugEnabled() && now-l.lastStats >= 1 {
		l.Profiler.SetCount("accumulated", int(l.Accum.Count()))
		l.Profiler.SetCount("resets", l.Accum.Resets())
		l.Logger.Debugf("fps %.1f\n%s", l.Timer.FPS(), l.Profiler.GetStatsString())
		l.lastStats = now
	}
	return true, nil
}

// Run loops until quit. The first frame error stops it.
func (l *RenderLoop) Run() error {
	for {
		ok, err := l.Frame()
		if err != nil {
			l.Logger.Errorf("%v", err)
			return err
		}
		if !ok {
			l.Logger.Infof("stopped after %d frames", l.Frames)
			return nil
		}
	}
}
