package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresentErrorDropsFrame(t *testing.T) {
	a := &App{}
	require.NoError(t, a.frame.seq.dispatch())

	assert.ErrorIs(t, a.Present(), ErrPresentBeforeBarrier)
	assert.Equal(t, frameState{}, a.frame)
	// the sequence starts over instead of reporting a frame in flight
	assert.NoError(t, a.frame.seq.dispatch())
}

func TestBarrierErrorDropsFrame(t *testing.T) {
	a := &App{}
	assert.Error(t, a.Barrier())
	assert.Equal(t, frameState{}, a.frame)

	require.NoError(t, a.frame.seq.dispatch())
	require.NoError(t, a.frame.seq.barrier())
	assert.Error(t, a.Barrier())
	assert.Equal(t, frameState{}, a.frame)
}
