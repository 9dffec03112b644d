package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "logtest", false)

	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	assert.NotContains(t, buf.String(), "hidden 1")
	assert.Contains(t, buf.String(), "shown 2")
	assert.Contains(t, buf.String(), "[logtest]")

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("visible %d", 3)
	assert.Contains(t, buf.String(), "visible 3")

	l.Warnf("careful")
	l.Errorf("broken")
	assert.Contains(t, buf.String(), "WARNI: careful")
	assert.Contains(t, buf.String(), "ERROR: broken")
}

func TestOrNop(t *testing.T) {
	l := OrNop(nil)
	if l == nil {
		t.Fatal("OrNop returned nil")
	}
	assert.False(t, l.DebugEnabled())
	l.Infof("nothing happens")
}
