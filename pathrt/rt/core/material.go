package core

import "github.com/go-gl/mathgl/mgl32"

// Material is owned by value by every primitive. Colors are RGBA.
type Material struct {
	Smoothness      float32 // probability of a specular bounce
	Glossiness      float32
	RefractiveIndex float32
	EmissionPower   float32

	DiffuseColor    mgl32.Vec4
	GlossColor      mgl32.Vec4
	RefractionColor mgl32.Vec4
	EmissionColor   mgl32.Vec4
}

func NewDiffuseMaterial(color mgl32.Vec4) Material {
	return Material{
		RefractiveIndex: 1,
		DiffuseColor:    color,
		GlossColor:      mgl32.Vec4{1, 1, 1, 1},
	}
}

func NewGlossyMaterial(color mgl32.Vec4, smoothness, glossiness float32) Material {
	m := NewDiffuseMaterial(color)
	m.Smoothness = smoothness
	m.Glossiness = glossiness
	return m
}

func NewGlassMaterial(tint mgl32.Vec4, ior float32) Material {
	return Material{
		Smoothness:      1,
		Glossiness:      1,
		RefractiveIndex: ior,
		DiffuseColor:    mgl32.Vec4{1, 1, 1, 1},
		GlossColor:      mgl32.Vec4{1, 1, 1, 1},
		RefractionColor: tint,
	}
}

func NewEmissiveMaterial(color mgl32.Vec4, power float32) Material {
	return Material{
		RefractiveIndex: 1,
		EmissionPower:   power,
		EmissionColor:   color,
	}
}

// Data packs the scalar parameters into the leading vec4 of a record.
func (m Material) Data() mgl32.Vec4 {
	return mgl32.Vec4{m.Smoothness, m.Glossiness, m.RefractiveIndex, m.EmissionPower}
}

// Inert reports whether the material contributes neither light nor color.
func (m Material) Inert() bool {
	return m == Material{}
}
