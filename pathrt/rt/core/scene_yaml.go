package core

import (
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

type materialDoc struct {
	Smoothness    float32   `yaml:"smoothness"`
	Glossiness    float32   `yaml:"glossiness"`
	IOR           float32   `yaml:"ior"`
	EmissionPower float32   `yaml:"emission_power"`
	Diffuse       []float32 `yaml:"diffuse"`
	Gloss         []float32 `yaml:"gloss"`
	Refraction    []float32 `yaml:"refraction"`
	Emission      []float32 `yaml:"emission"`
}

type sceneDoc struct {
	Name      string                 `yaml:"name"`
	Materials map[string]materialDoc `yaml:"materials"`
	Lights    []struct {
		Position []float32 `yaml:"position"`
		Material string    `yaml:"material"`
	} `yaml:"lights"`
	Spheres []struct {
		Center   []float32 `yaml:"center"`
		Radius   float32   `yaml:"radius"`
		Material string    `yaml:"material"`
	} `yaml:"spheres"`
	Triangles []struct {
		Vertices [][]float32 `yaml:"vertices"`
		Material string      `yaml:"material"`
	} `yaml:"triangles"`
	Quads []struct {
		Corners  [][]float32 `yaml:"corners"`
		Material string      `yaml:"material"`
	} `yaml:"quads"`
}

func vec3Of(v []float32) (mgl32.Vec3, error) {
	if len(v) != 3 {
		return mgl32.Vec3{}, fmt.Errorf("want 3 components, got %d", len(v))
	}
	return mgl32.Vec3{v[0], v[1], v[2]}, nil
}

// colorOf accepts rgb or rgba; a missing alpha is 1.
func colorOf(v []float32) (mgl32.Vec4, error) {
	switch len(v) {
	case 0:
		return mgl32.Vec4{}, nil
	case 3:
		return mgl32.Vec4{v[0], v[1], v[2], 1}, nil
	case 4:
		return mgl32.Vec4{v[0], v[1], v[2], v[3]}, nil
	}
	return mgl32.Vec4{}, fmt.Errorf("want 3 or 4 color components, got %d", len(v))
}

func (d materialDoc) material() (Material, error) {
	m := Material{
		Smoothness:      d.Smoothness,
		Glossiness:      d.Glossiness,
		RefractiveIndex: d.IOR,
		EmissionPower:   d.EmissionPower,
	}
	var err error
	if m.DiffuseColor, err = colorOf(d.Diffuse); err != nil {
		return m, fmt.Errorf("diffuse: %w", err)
	}
	if m.GlossColor, err = colorOf(d.Gloss); err != nil {
		return m, fmt.Errorf("gloss: %w", err)
	}
	if m.RefractionColor, err = colorOf(d.Refraction); err != nil {
		return m, fmt.Errorf("refraction: %w", err)
	}
	if m.EmissionColor, err = colorOf(d.Emission); err != nil {
		return m, fmt.Errorf("emission: %w", err)
	}
	return m, nil
}

// LoadSceneFile reads a YAML scene description from path.
func LoadSceneFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadSceneYAML(f)
}

// LoadSceneYAML decodes a scene description. Primitives reference materials by
// name; insertion order follows document order.
func LoadSceneYAML(r io.Reader) (*Scene, error) {
	var doc sceneDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}

	mats := make(map[string]Material, len(doc.Materials))
	for name, md := range doc.Materials {
		m, err := md.material()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		mats[name] = m
	}
	lookup := func(name string) (Material, error) {
		m, ok := mats[name]
		if !ok {
			return Material{}, fmt.Errorf("unknown material %q", name)
		}
		return m, nil
	}

	name := doc.Name
	if name == "" {
		name = "file"
	}
	b := NewSceneBuilder(name)

	for i, l := range doc.Lights {
		pos, err := vec3Of(l.Position)
		if err != nil {
			return nil, fmt.Errorf("light %d position: %w", i, err)
		}
		m, err := lookup(l.Material)
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
		if err := b.AddPointLight(NewPointLight(pos, m)); err != nil {
			return nil, err
		}
	}

	for i, s := range doc.Spheres {
		c, err := vec3Of(s.Center)
		if err != nil {
			return nil, fmt.Errorf("sphere %d center: %w", i, err)
		}
		if s.Radius <= 0 {
			return nil, fmt.Errorf("sphere %d: radius must be positive", i)
		}
		m, err := lookup(s.Material)
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		if err := b.AddSphere(NewSphere(c, s.Radius, m)); err != nil {
			return nil, err
		}
	}

	for i, t := range doc.Triangles {
		if len(t.Vertices) != 3 {
			return nil, fmt.Errorf("triangle %d: want 3 vertices, got %d", i, len(t.Vertices))
		}
		var v [3]mgl32.Vec3
		for j := range v {
			var err error
			if v[j], err = vec3Of(t.Vertices[j]); err != nil {
				return nil, fmt.Errorf("triangle %d vertex %d: %w", i, j, err)
			}
		}
		m, err := lookup(t.Material)
		if err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
		if err := b.AddTriangle(NewTriangle(v[0], v[1], v[2], m)); err != nil {
			return nil, err
		}
	}

	for i, q := range doc.Quads {
		if len(q.Corners) != 4 {
			return nil, fmt.Errorf("quad %d: want 4 corners, got %d", i, len(q.Corners))
		}
		var v [4]mgl32.Vec3
		for j := range v {
			var err error
			if v[j], err = vec3Of(q.Corners[j]); err != nil {
				return nil, fmt.Errorf("quad %d corner %d: %w", i, j, err)
			}
		}
		m, err := lookup(q.Material)
		if err != nil {
			return nil, fmt.Errorf("quad %d: %w", i, err)
		}
		if err := b.AddQuad(NewQuad(v[0], v[1], v[2], v[3], m)); err != nil {
			return nil, err
		}
	}

	return b.Build()
}
