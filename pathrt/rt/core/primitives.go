package core

import "github.com/go-gl/mathgl/mgl32"

type PointLight struct {
	Position mgl32.Vec4 // w is 1
	Material Material
}

func NewPointLight(pos mgl32.Vec3, mat Material) PointLight {
	return PointLight{Position: pos.Vec4(1), Material: mat}
}

type Sphere struct {
	Center mgl32.Vec3
	Radius float32

	Material Material
}

func NewSphere(center mgl32.Vec3, radius float32, mat Material) Sphere {
	return Sphere{Center: center, Radius: radius, Material: mat}
}

// Packed returns center in xyz and radius in w.
func (s Sphere) Packed() mgl32.Vec4 {
	return s.Center.Vec4(s.Radius)
}

type Triangle struct {
	V0, V1, V2 mgl32.Vec4
	Material   Material
}

func NewTriangle(a, b, c mgl32.Vec3, mat Material) Triangle {
	return Triangle{V0: a.Vec4(1), V1: b.Vec4(1), V2: c.Vec4(1), Material: mat}
}

// Quad is a bilinear patch: V0-V1 is one edge and V2-V3 the opposite edge,
// so P(u,v) = lerp(lerp(V0,V1,u), lerp(V2,V3,u), v).
type Quad struct {
	V0, V1, V2, V3 mgl32.Vec4
	Material       Material
}

func NewQuad(a, b, c, d mgl32.Vec3, mat Material) Quad {
	return Quad{V0: a.Vec4(1), V1: b.Vec4(1), V2: c.Vec4(1), V3: d.Vec4(1), Material: mat}
}

// Sentinels pad empty categories; they have zero power and zero extent.
var (
	SentinelPointLight = PointLight{}
	SentinelSphere     = Sphere{}
	SentinelTriangle   = Triangle{}
	SentinelQuad       = Quad{}
)
