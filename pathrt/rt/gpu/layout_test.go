package gpu

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/gekko3d/progressive/pathrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatAt(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func TestRecordSizes(t *testing.T) {
	mat := core.NewGlossyMaterial(mgl32.Vec4{0.2, 0.4, 0.6, 1}, 0.5, 16)
	tests := []struct {
		name string
		data []byte
		want int
	}{
		{"light", MarshalPointLights([]core.PointLight{core.NewPointLight(mgl32.Vec3{1, 2, 3}, mat)}), 96},
		{"sphere", MarshalSpheres([]core.Sphere{core.NewSphere(mgl32.Vec3{1, 2, 3}, 4, mat)}), 96},
		{"triangle", MarshalTriangles([]core.Triangle{core.NewTriangle(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mat)}), 128},
		{"quad", MarshalQuads([]core.Quad{core.SentinelQuad}), 144},
	}
	for _, tt := range tests {
		if len(tt.data) != tt.want {
			t.Errorf("%s: got %d bytes, want %d", tt.name, len(tt.data), tt.want)
		}
		if len(tt.data)%16 != 0 {
			t.Errorf("%s: %d bytes is not 16-byte aligned", tt.name, len(tt.data))
		}
	}
}

func TestSphereRecordLayout(t *testing.T) {
	mat := core.Material{
		Smoothness:      0.25,
		Glossiness:      8,
		RefractiveIndex: 1.5,
		EmissionPower:   3,
		DiffuseColor:    mgl32.Vec4{0.1, 0.2, 0.3, 1},
		GlossColor:      mgl32.Vec4{0.4, 0.5, 0.6, 1},
		RefractionColor: mgl32.Vec4{0.7, 0.8, 0.9, 1},
		EmissionColor:   mgl32.Vec4{1, 0.5, 0.25, 1},
	}
	b := MarshalSpheres([]core.Sphere{core.NewSphere(mgl32.Vec3{4, 5, 6}, 7, mat)})

	want := []float32{
		4, 5, 6, 7,
		0.25, 8, 1.5, 3,
		0.1, 0.2, 0.3, 1,
		0.4, 0.5, 0.6, 1,
		0.7, 0.8, 0.9, 1,
		1, 0.5, 0.25, 1,
	}
	require.Len(t, b, len(want)*4)
	for i, w := range want {
		assert.Equal(t, w, floatAt(b, i*4), "float %d", i)
	}
}

func TestMarshalPreservesOrder(t *testing.T) {
	var quads []core.Quad
	for i := 0; i < 3; i++ {
		f := float32(i)
		quads = append(quads, core.NewQuad(mgl32.Vec3{f, 0, 0}, mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{}, core.Material{}))
	}
	b := MarshalQuads(quads)
	for i := 0; i < 3; i++ {
		assert.Equal(t, float32(i), floatAt(b, i*QuadSize))
	}
}

func TestValidateStream(t *testing.T) {
	assert.NoError(t, validateStream(CategorySpheres, make([]byte, 2*SphereSize), 2))

	err := validateStream(CategoryLights, nil, 0)
	assert.True(t, errors.Is(err, ErrEmptyCategory))

	err = validateStream(CategoryQuads, make([]byte, QuadSize+4), 1)
	assert.True(t, errors.Is(err, ErrMisalignedRecord))

	err = validateStream(CategoryTriangles, make([]byte, TriangleSize), 2)
	assert.Error(t, err)
}

func TestCategoryNames(t *testing.T) {
	assert.Equal(t, "lights", CategoryLights.String())
	assert.Equal(t, "triangles", CategoryTriangles.String())
	assert.Equal(t, "category(9)", Category(9).String())
	assert.Equal(t, 0, Category(9).Stride())
}
