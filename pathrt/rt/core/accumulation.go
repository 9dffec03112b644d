package core

// Accumulation counts the samples blended into the current image. The count is
// reset whenever the view or the scene state changes and advanced once per
// completed dispatch.
type Accumulation struct {
	count  uint32
	resets int
}

func NewAccumulation() *Accumulation {
	return &Accumulation{}
}

func (a *Accumulation) Count() uint32 {
	return a.count
}

func (a *Accumulation) Advance() {
	a.count++
}

func (a *Accumulation) Reset() {
	a.count = 0
	a.resets++
}

// Resets returns how many times the history was discarded.
func (a *Accumulation) Resets() int {
	return a.resets
}
