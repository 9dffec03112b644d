package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gekko3d/progressive/pathrt/rt/core"
)

// Record sizes in bytes. Every record is built from vec4s only.
const (
	Vec4Size       = 16
	MaterialSize   = 5 * Vec4Size
	PointLightSize = Vec4Size + MaterialSize
	SphereSize     = Vec4Size + MaterialSize
	TriangleSize   = 3*Vec4Size + MaterialSize
	QuadSize       = 4*Vec4Size + MaterialSize
)

var (
	ErrMisalignedRecord = errors.New("gpu: record size is not a multiple of 16 bytes")
	ErrEmptyCategory    = errors.New("gpu: empty primitive category")
)

type Category int

const (
	CategoryLights Category = iota
	CategorySpheres
	CategoryQuads
	CategoryTriangles
)

// Categories lists every category the kernel expects, in upload order.
var Categories = []Category{CategoryLights, CategorySpheres, CategoryQuads, CategoryTriangles}

func (c Category) String() string {
	switch c {
	case CategoryLights:
		return "lights"
	case CategorySpheres:
		return "spheres"
	case CategoryQuads:
		return "quads"
	case CategoryTriangles:
		return "triangles"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Stride is the size of one record of c.
func (c Category) Stride() int {
	switch c {
	case CategoryLights:
		return PointLightSize
	case CategorySpheres:
		return SphereSize
	case CategoryQuads:
		return QuadSize
	case CategoryTriangles:
		return TriangleSize
	}
	return 0
}

func appendVec4(buf []byte, v [4]float32) []byte {
	for _, f := range v {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}

func appendMaterial(buf []byte, m core.Material) []byte {
	buf = appendVec4(buf, m.Data())
	buf = appendVec4(buf, m.DiffuseColor)
	buf = appendVec4(buf, m.GlossColor)
	buf = appendVec4(buf, m.RefractionColor)
	buf = appendVec4(buf, m.EmissionColor)
	return buf
}

func MarshalPointLights(lights []core.PointLight) []byte {
	buf := make([]byte, 0, len(lights)*PointLightSize)
	for _, l := range lights {
		buf = appendVec4(buf, l.Position)
		buf = appendMaterial(buf, l.Material)
	}
	return buf
}

func MarshalSpheres(spheres []core.Sphere) []byte {
	buf := make([]byte, 0, len(spheres)*SphereSize)
	for _, s := range spheres {
		buf = appendVec4(buf, s.Packed())
		buf = appendMaterial(buf, s.Material)
	}
	return buf
}

func MarshalTriangles(tris []core.Triangle) []byte {
	buf := make([]byte, 0, len(tris)*TriangleSize)
	for _, t := range tris {
		buf = appendVec4(buf, t.V0)
		buf = appendVec4(buf, t.V1)
		buf = appendVec4(buf, t.V2)
		buf = appendMaterial(buf, t.Material)
	}
	return buf
}

func MarshalQuads(quads []core.Quad) []byte {
	buf := make([]byte, 0, len(quads)*QuadSize)
	for _, q := range quads {
		buf = appendVec4(buf, q.V0)
		buf = appendVec4(buf, q.V1)
		buf = appendVec4(buf, q.V2)
		buf = appendVec4(buf, q.V3)
		buf = appendMaterial(buf, q.Material)
	}
	return buf
}

// marshalCategory serializes one category of s. An empty category is padded
// with its sentinel record.
func marshalCategory(s *core.Scene, c Category) (data []byte, count int, padded bool) {
	switch c {
	case CategoryLights:
		v := s.PointLights()
		if len(v) == 0 {
			v, padded = []core.PointLight{core.SentinelPointLight}, true
		}
		return MarshalPointLights(v), len(v), padded
	case CategorySpheres:
		v := s.Spheres()
		if len(v) == 0 {
			v, padded = []core.Sphere{core.SentinelSphere}, true
		}
		return MarshalSpheres(v), len(v), padded
	case CategoryQuads:
		v := s.Quads()
		if len(v) == 0 {
			v, padded = []core.Quad{core.SentinelQuad}, true
		}
		return MarshalQuads(v), len(v), padded
	case CategoryTriangles:
		v := s.Triangles()
		if len(v) == 0 {
			v, padded = []core.Triangle{core.SentinelTriangle}, true
		}
		return MarshalTriangles(v), len(v), padded
	}
	return nil, 0, false
}

// validateStream checks a serialized category before it is handed to the GPU.
func validateStream(c Category, data []byte, count int) error {
	if count == 0 || len(data) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyCategory, c)
	}
	stride := c.Stride()
	if stride%Vec4Size != 0 || len(data)%Vec4Size != 0 {
		return fmt.Errorf("%w: %s is %d bytes", ErrMisalignedRecord, c, len(data))
	}
	if len(data) != stride*count {
		return fmt.Errorf("gpu: %s is %d bytes, want %d records of %d", c, len(data), count, stride)
	}
	return nil
}
