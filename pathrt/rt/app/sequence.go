package app

import "errors"

var (
	errFrameInFlight    = errors.New("app: dispatch while a frame is being recorded")
	errBarrierNoPass    = errors.New("app: barrier without dispatch")
	errSwapNotPresented = errors.New("app: swap without a presented frame")
)

// frameSequence tracks the per-frame GPU steps and rejects any out of order.
type frameSequence struct {
	dispatched bool
	fenced     bool
	presented  bool
}

func (s *frameSequence) dispatch() error {
	if s.dispatched {
		return errFrameInFlight
	}
	s.dispatched = true
	return nil
}

func (s *frameSequence) barrier() error {
	if !s.dispatched || s.fenced {
		return errBarrierNoPass
	}
	s.fenced = true
	return nil
}

func (s *frameSequence) present() error {
	if !s.fenced {
		return ErrPresentBeforeBarrier
	}
	s.presented = true
	return nil
}

func (s *frameSequence) swap() error {
	if !s.presented {
		return errSwapNotPresented
	}
	return nil
}

func (s *frameSequence) reset() {
	*s = frameSequence{}
}
