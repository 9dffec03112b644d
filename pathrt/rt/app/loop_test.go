package app

import (
	"errors"
	"testing"

	"github.com/gekko3d/progressive/pathrt/rt/core"
	"github.com/gekko3d/progressive/pathrt/rt/gpu"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBackend logs every call and enforces the frame sequence.
type recordingBackend struct {
	calls    []string
	uniforms []gpu.FrameUniforms
	grids    [][2]uint32
	seq      frameSequence
	failOn   string
	failErr  error
}

func (b *recordingBackend) step(name string, guard func() error) error {
	b.calls = append(b.calls, name)
	if name == b.failOn {
		return b.failErr
	}
	if guard != nil {
		return guard()
	}
	return nil
}

func (b *recordingBackend) PushUniforms(u gpu.FrameUniforms) error {
	b.uniforms = append(b.uniforms, u)
	return b.step("push", nil)
}

func (b *recordingBackend) Dispatch(x, y uint32) error {
	b.grids = append(b.grids, [2]uint32{x, y})
	return b.step("dispatch", b.seq.dispatch)
}

func (b *recordingBackend) Barrier() error { return b.step("barrier", b.seq.barrier) }
func (b *recordingBackend) Present() error { return b.step("present", b.seq.present) }

func (b *recordingBackend) Swap() error {
	defer b.seq.reset()
	return b.step("swap", b.seq.swap)
}

type scriptedWindow struct {
	frames  []core.InputState
	polled  int
	closed  bool
	titles  []string
	hidden  bool
	cursors [][2]float64
}

func (w *scriptedWindow) Poll() *core.InputState {
	var s core.InputState
	if w.polled < len(w.frames) {
		s = w.frames[w.polled]
	}
	w.polled++
	return &s
}

func (w *scriptedWindow) ShouldClose() bool          { return w.closed }
func (w *scriptedWindow) SetTitle(title string)      { w.titles = append(w.titles, title) }
func (w *scriptedWindow) SetCursorHidden(hidden bool) { w.hidden = hidden }
func (w *scriptedWindow) SetCursorPos(x, y float64) {
	w.cursors = append(w.cursors, [2]float64{x, y})
}

func pressed(actions ...core.Action) core.InputState {
	var s core.InputState
	for _, a := range actions {
		s.Press(a)
	}
	return s
}

func stepClock(step float64) Clock {
	t := 0.0
	return func() float64 {
		t += step
		return t
	}
}

func newTestLoop(frames ...core.InputState) (*RenderLoop, *recordingBackend, *scriptedWindow) {
	backend := &recordingBackend{}
	win := &scriptedWindow{frames: frames}
	cfg := DefaultConfig()
	cam := core.NewDefaultCamera(cfg.ImageWidth, cfg.ImageHeight)
	return NewRenderLoop(cfg, backend, win, cam, stepClock(0.02), nil), backend, win
}

func runFrames(t *testing.T, l *RenderLoop, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		ok, err := l.Frame()
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestFrameOrder(t *testing.T) {
	l, b, _ := newTestLoop()
	runFrames(t, l, 3)

	want := []string{}
	for i := 0; i < 3; i++ {
		want = append(want, "push", "dispatch", "barrier", "present", "swap")
	}
	assert.Equal(t, want, b.calls)
	for _, g := range b.grids {
		assert.Equal(t, [2]uint32{128, 128}, g)
	}
}

func TestAccumulationWhileStill(t *testing.T) {
	l, b, _ := newTestLoop()
	runFrames(t, l, 5)

	for i, u := range b.uniforms {
		assert.Equal(t, uint32(i), u.NumAccumFrames, "frame %d", i)
	}
	assert.Equal(t, uint32(5), l.Accum.Count())
	assert.Zero(t, l.Accum.Resets())
}

func TestMovementResetsAccumulation(t *testing.T) {
	still := core.InputState{}
	l, b, _ := newTestLoop(still, still, pressed(core.ActionForward), still)
	start := l.Camera.Position
	runFrames(t, l, 4)

	require.Len(t, b.uniforms, 4)
	assert.Equal(t, uint32(2), b.uniforms[2].NumAccumFrames)
	// the move happens after frame 2's upload; frame 3 starts over
	assert.Equal(t, uint32(0), b.uniforms[3].NumAccumFrames)
	assert.Equal(t, uint32(1), l.Accum.Count())
	assert.Less(t, l.Camera.Position.Z(), start.Z())
	assert.Equal(t, l.Camera.Position, b.uniforms[3].CameraPos)
}

func TestToggleRenderMode(t *testing.T) {
	still := core.InputState{}
	l, b, _ := newTestLoop(still, still, pressed(core.ActionToggleMode), still, pressed(core.ActionToggleMode))
	runFrames(t, l, 5)

	modes := make([]int32, len(b.uniforms))
	counts := make([]uint32, len(b.uniforms))
	for i, u := range b.uniforms {
		modes[i] = u.RenderMode
		counts[i] = u.NumAccumFrames
	}
	assert.Equal(t, []int32{0, 0, 1, 1, 0}, modes)
	assert.Equal(t, []uint32{0, 1, 0, 1, 0}, counts)
}

func TestExitStopsBeforeGPUWork(t *testing.T) {
	l, b, _ := newTestLoop(core.InputState{}, pressed(core.ActionExit))
	require.NoError(t, l.Run())
	assert.Equal(t, uint64(1), l.Frames)
	assert.Len(t, b.uniforms, 1)

	l, b, win := newTestLoop()
	win.closed = true
	ok, err := l.Frame()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, b.calls)
}

func TestRunReturnsBackendError(t *testing.T) {
	boom := errors.New("device lost")
	l, b, _ := newTestLoop()
	b.failOn = "present"
	b.failErr = boom

	err := l.Run()
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "present")
	assert.Equal(t, uint32(0), l.Accum.Count())
}

func TestTitleRefresh(t *testing.T) {
	l, _, win := newTestLoop()
	runFrames(t, l, 6)

	// 20 ms per frame refreshes on every second frame
	require.Len(t, win.titles, 3)
	assert.Contains(t, win.titles[0], "Progressive Path Tracer - ")
	assert.Contains(t, win.titles[0], " FPS / ")
	assert.InDelta(t, 50, l.Timer.FPS(), 0.5)
}

func TestFrameSequence(t *testing.T) {
	var s frameSequence
	assert.ErrorIs(t, s.present(), ErrPresentBeforeBarrier)
	require.NoError(t, s.dispatch())
	assert.ErrorIs(t, s.present(), ErrPresentBeforeBarrier)
	assert.Error(t, s.dispatch())
	assert.Error(t, s.swap())
	require.NoError(t, s.barrier())
	require.NoError(t, s.present())
	require.NoError(t, s.swap())
	s.reset()

	// every frame index must fence again
	require.NoError(t, s.dispatch())
	assert.ErrorIs(t, s.present(), ErrPresentBeforeBarrier)
}

func TestLookThroughLoop(t *testing.T) {
	look := pressed(core.ActionLook)
	look.Width, look.Height = 1000, 1000
	look.CursorX, look.CursorY = 700, 500

	moved := look
	moved.Press(core.ActionLook)

	l, b, win := newTestLoop(look, moved)
	dir := l.Camera.Direction
	runFrames(t, l, 2)

	assert.True(t, win.hidden)
	assert.Equal(t, [2]float64{500, 500}, win.cursors[0])
	// engage alone is not a change
	assert.Equal(t, dir, b.uniforms[1].CameraDir)
	assert.Equal(t, uint32(1), b.uniforms[1].NumAccumFrames)
	assert.NotEqual(t, dir, l.Camera.Direction)
	assert.Equal(t, uint32(0), l.Accum.Count())
}
