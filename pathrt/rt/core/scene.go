package core

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrSceneFinalized = errors.New("core: scene already built")

// SceneBuilder collects primitives during setup. It can be built once.
type SceneBuilder struct {
	name      string
	lights    []PointLight
	spheres   []Sphere
	triangles []Triangle
	quads     []Quad
	built     bool
}

func NewSceneBuilder(name string) *SceneBuilder {
	return &SceneBuilder{name: name}
}

func (b *SceneBuilder) check() error {
	if b.built {
		return fmt.Errorf("%w: %s", ErrSceneFinalized, b.name)
	}
	return nil
}

func (b *SceneBuilder) AddPointLight(l ...PointLight) error {
	if err := b.check(); err != nil {
		return err
	}
	b.lights = append(b.lights, l...)
	return nil
}

func (b *SceneBuilder) AddSphere(s ...Sphere) error {
	if err := b.check(); err != nil {
		return err
	}
	b.spheres = append(b.spheres, s...)
	return nil
}

func (b *SceneBuilder) AddTriangle(t ...Triangle) error {
	if err := b.check(); err != nil {
		return err
	}
	b.triangles = append(b.triangles, t...)
	return nil
}

func (b *SceneBuilder) AddQuad(q ...Quad) error {
	if err := b.check(); err != nil {
		return err
	}
	b.quads = append(b.quads, q...)
	return nil
}

// Build finalizes the builder. Further Add calls fail with ErrSceneFinalized.
func (b *SceneBuilder) Build() (*Scene, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	b.built = true
	return &Scene{
		ID:        uuid.New(),
		Name:      b.name,
		lights:    append([]PointLight(nil), b.lights...),
		spheres:   append([]Sphere(nil), b.spheres...),
		triangles: append([]Triangle(nil), b.triangles...),
		quads:     append([]Quad(nil), b.quads...),
	}, nil
}

// Scene is the immutable result of a SceneBuilder. Accessors return copies.
type Scene struct {
	ID   uuid.UUID
	Name string

	lights    []PointLight
	spheres   []Sphere
	triangles []Triangle
	quads     []Quad
}

func (s *Scene) PointLights() []PointLight { return append([]PointLight(nil), s.lights...) }
func (s *Scene) Spheres() []Sphere         { return append([]Sphere(nil), s.spheres...) }
func (s *Scene) Triangles() []Triangle     { return append([]Triangle(nil), s.triangles...) }
func (s *Scene) Quads() []Quad             { return append([]Quad(nil), s.quads...) }

func (s *Scene) String() string {
	return fmt.Sprintf("%s (%s): %d lights, %d spheres, %d triangles, %d quads",
		s.Name, s.ID, len(s.lights), len(s.spheres), len(s.triangles), len(s.quads))
}
