package shaders

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/naga"
)

//go:embed pathtrace.wgsl
var PathTraceWGSL string

//go:embed present.wgsl
var PresentWGSL string

const (
	PathTraceFile = "pathtrace.wgsl"
	PresentFile   = "present.wgsl"
)

// ReadError reports a shader source that could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read shader %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Sources holds the WGSL for the tracing kernel and the presentation pass.
type Sources struct {
	PathTrace string
	Present   string
}

func Embedded() Sources {
	return Sources{PathTrace: PathTraceWGSL, Present: PresentWGSL}
}

// ReadFile returns the content of path or a *ReadError.
func ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	if len(b) == 0 {
		return "", &ReadError{Path: path, Err: fmt.Errorf("empty file")}
	}
	return string(b), nil
}

// Load reads both shaders from dir. An empty dir selects the embedded sources.
func Load(dir string) (Sources, error) {
	if dir == "" {
		return Embedded(), nil
	}
	var s Sources
	var err error
	if s.PathTrace, err = ReadFile(filepath.Join(dir, PathTraceFile)); err != nil {
		return Sources{}, err
	}
	if s.Present, err = ReadFile(filepath.Join(dir, PresentFile)); err != nil {
		return Sources{}, err
	}
	return s, nil
}

// Compile checks WGSL by lowering it to SPIR-V.
func Compile(name, src string) error {
	if _, err := naga.Compile(src); err != nil {
		return fmt.Errorf("compile %s: %w", name, err)
	}
	return nil
}

// Check compiles every source in s.
func (s Sources) Check() error {
	if err := Compile(PathTraceFile, s.PathTrace); err != nil {
		return err
	}
	return Compile(PresentFile, s.Present)
}
