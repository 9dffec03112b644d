package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinPolarAngle = 5.0   // degrees between look direction and world up
	MaxPolarAngle = 175.0 // degrees
)

type lookState int

const (
	lookIdle lookState = iota
	lookActive
)

type Camera struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Up        mgl32.Vec3

	Speed       float32
	FastSpeed   float32
	Sensitivity float32 // degrees per full screen traversal

	FOV    float32 // degrees
	Near   float32
	Far    float32
	Width  int
	Height int

	View        mgl32.Mat4
	Projection  mgl32.Mat4
	InvProjView mgl32.Mat4

	look lookState
}

func NewCamera(width, height int, position, direction mgl32.Vec3) *Camera {
	c := &Camera{
		Position:    position,
		Direction:   direction.Normalize(),
		Up:          mgl32.Vec3{0, 1, 0},
		Speed:       4,
		FastSpeed:   8,
		Sensitivity: 100,
		FOV:         45,
		Near:        0.01,
		Far:         1000,
		Width:       width,
		Height:      height,
	}
	c.pitch(0)
	c.RecomputeMatrices()
	return c
}

// NewDefaultCamera places the camera at (0,0,2) looking down -Z.
func NewDefaultCamera(width, height int) *Camera {
	return NewCamera(width, height, mgl32.Vec3{0, 0, 2}, mgl32.Vec3{0, 0, -1})
}

// Looking reports whether the look button is currently engaged.
func (c *Camera) Looking() bool {
	return c.look == lookActive
}

func (c *Camera) right() mgl32.Vec3 {
	return c.Direction.Cross(c.Up).Normalize()
}

// ApplyInput integrates one frame of device state. It returns true when the
// position or the look direction changed.
func (c *Camera) ApplyInput(frameTime float32, in *InputState, ptr Pointer) bool {
	speed := c.Speed
	if in.Down(ActionFast) {
		speed = c.FastSpeed
	}
	step := speed * frameTime

	var delta mgl32.Vec3
	if in.Down(ActionForward) {
		delta = delta.Add(c.Direction)
	}
	if in.Down(ActionBack) {
		delta = delta.Sub(c.Direction)
	}
	if in.Down(ActionStrafeRight) {
		delta = delta.Add(c.right())
	}
	if in.Down(ActionStrafeLeft) {
		delta = delta.Sub(c.right())
	}
	if in.Down(ActionUp) {
		delta = delta.Add(c.Up)
	}
	if in.Down(ActionDown) {
		delta = delta.Sub(c.Up)
	}

	moved := false
	if delta.Len() > 0 && step != 0 {
		c.Position = c.Position.Add(delta.Mul(step))
		moved = true
	}

	if c.applyLook(in, ptr) {
		moved = true
	}
	return moved
}

func (c *Camera) applyLook(in *InputState, ptr Pointer) bool {
	w, h := c.Width, c.Height
	if in.Width > 0 && in.Height > 0 {
		w, h = in.Width, in.Height
	}
	halfW, halfH := float64(w)/2, float64(h)/2

	if !in.Down(ActionLook) {
		if c.look == lookActive {
			ptr.SetCursorHidden(false)
			c.look = lookIdle
		}
		return false
	}

	if c.look == lookIdle {
		// First engaged frame only captures the center.
		ptr.SetCursorHidden(true)
		ptr.SetCursorPos(halfW, halfH)
		c.look = lookActive
		return false
	}

	rotX := c.Sensitivity * float32((in.CursorY-halfH)/float64(h))
	rotY := c.Sensitivity * float32((in.CursorX-halfW)/float64(w))
	ptr.SetCursorPos(halfW, halfH)

	if rotX == 0 && rotY == 0 {
		return false
	}

	before := c.Direction
	c.pitch(rotX)
	c.Direction = mgl32.QuatRotate(mgl32.DegToRad(-rotY), c.Up).Rotate(c.Direction).Normalize()
	return !c.Direction.ApproxEqual(before)
}

// pitch tilts the look direction away from world up by deg degrees, keeping
// the polar angle inside [MinPolarAngle, MaxPolarAngle].
func (c *Camera) pitch(deg float32) {
	up := c.Up.Normalize()
	dir := c.Direction.Normalize()

	cosA := float64(dir.Dot(up))
	cosA = math.Max(-1, math.Min(1, cosA))
	polar := math.Acos(cosA) * 180 / math.Pi

	target := math.Max(MinPolarAngle, math.Min(MaxPolarAngle, polar+float64(deg)))
	if target == polar {
		return
	}

	horizontal := dir.Sub(up.Mul(dir.Dot(up)))
	if horizontal.Len() < 1e-6 {
		// Degenerate: pick any horizontal axis.
		horizontal = up.Cross(mgl32.Vec3{1, 0, 0})
		if horizontal.Len() < 1e-6 {
			horizontal = up.Cross(mgl32.Vec3{0, 0, 1})
		}
	}
	horizontal = horizontal.Normalize()

	rad := target * math.Pi / 180
	c.Direction = up.Mul(float32(math.Cos(rad))).Add(horizontal.Mul(float32(math.Sin(rad)))).Normalize()
}

// PolarAngle returns the angle in degrees between the look direction and world up.
func (c *Camera) PolarAngle() float64 {
	cosA := float64(c.Direction.Normalize().Dot(c.Up.Normalize()))
	cosA = math.Max(-1, math.Min(1, cosA))
	return math.Acos(cosA) * 180 / math.Pi
}

func (c *Camera) Aspect() float32 {
	if c.Height == 0 {
		return 1
	}
	return float32(c.Width) / float32(c.Height)
}

// RecomputeMatrices rebuilds view, projection and inverse(projection*view).
func (c *Camera) RecomputeMatrices() {
	c.View = mgl32.LookAtV(c.Position, c.Position.Add(c.Direction), c.Up)
	c.Projection = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect(), c.Near, c.Far)
	c.InvProjView = c.Projection.Mul4(c.View).Inv()
}
