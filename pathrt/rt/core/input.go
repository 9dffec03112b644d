package core

// Action is a logical control; the platform layer maps physical keys to it.
type Action int

const (
	ActionForward Action = iota
	ActionBack
	ActionStrafeLeft
	ActionStrafeRight
	ActionUp
	ActionDown
	ActionFast
	ActionLook
	ActionToggleMode
	ActionExit
	actionCount
)

// InputState is a snapshot of device state taken once per frame.
type InputState struct {
	Pressed     [actionCount]bool
	JustPressed [actionCount]bool

	CursorX, CursorY float64
	Width, Height    int
}

func (s *InputState) Down(a Action) bool {
	return s.Pressed[a]
}

// Press marks a as held. The edge flag is set only on the first frame.
func (s *InputState) Press(a Action) {
	if !s.Pressed[a] {
		s.JustPressed[a] = true
	}
	s.Pressed[a] = true
}

func (s *InputState) Release(a Action) {
	s.Pressed[a] = false
	s.JustPressed[a] = false
}

// ClearEdges drops the per-frame edge flags.
func (s *InputState) ClearEdges() {
	for i := range s.JustPressed {
		s.JustPressed[i] = false
	}
}

// Pointer is the cursor side of the input device that the camera drives.
type Pointer interface {
	SetCursorHidden(hidden bool)
	SetCursorPos(x, y float64)
}
