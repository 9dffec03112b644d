package logging

import (
	"io"
	"os"
	"sync"

	gologging "github.com/op/go-logging"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

var format = gologging.MustStringFormatter(
	`[%{time:15:04:05.000}] [%{module}] %{level:.5s}: %{message}`,
)

// DefaultLogger writes through a go-logging logger that owns its backend, so
// toggling debug output on one logger leaves the others untouched.
type DefaultLogger struct {
	mu      sync.Mutex
	debug   bool
	prefix  string
	log     *gologging.Logger
	leveled gologging.LeveledBackend
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewLogger(os.Stdout, prefix, debug)
}

// NewLogger builds a logger that writes to sink.
func NewLogger(sink io.Writer, prefix string, debug bool) *DefaultLogger {
	if prefix == "" {
		prefix = "pathrt"
	}
	backend := gologging.NewLogBackend(sink, "", 0)
	leveled := gologging.AddModuleLevel(gologging.NewBackendFormatter(backend, format))

	l := &DefaultLogger{
		prefix:  prefix,
		log:     gologging.MustGetLogger(prefix),
		leveled: leveled,
	}
	l.log.SetBackend(leveled)
	l.SetDebug(debug)
	return l
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()

	level := gologging.INFO
	if enabled {
		level = gologging.DEBUG
	}
	l.leveled.SetLevel(level, l.prefix)
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	l.log.Debugf(format, args...)
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.log.Infof(format, args...)
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.log.Warningf(format, args...)
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.log.Errorf(format, args...)
}

type nopLogger struct{}

func NewNopLogger() Logger { return &nopLogger{} }
func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}

// OrNop returns l, or a no-op logger when l is nil. Never returns nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NewNopLogger()
	}
	return l
}
