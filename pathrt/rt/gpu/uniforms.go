package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gekko3d/progressive/pathrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

const UniformSize = 112

// UniformField names one member of the kernel's frame uniform struct.
type UniformField struct {
	Name   string
	Offset int
	Size   int
}

// FrameUniformLayout mirrors `struct FrameUniforms` in the kernel. Names are
// part of the contract.
var FrameUniformLayout = []UniformField{
	{"time", 0, 4},
	{"numAccumFrames", 4, 4},
	{"renderMode", 8, 4},
	{"cameraPos", 16, 16},
	{"cameraDir", 32, 16},
	{"ray00", 48, 16},
	{"ray10", 64, 16},
	{"ray01", 80, 16},
	{"ray11", 96, 16},
}

type FrameUniforms struct {
	Time           float32
	NumAccumFrames uint32
	RenderMode     int32
	CameraPos      mgl32.Vec3
	CameraDir      mgl32.Vec3
	Rays           core.FrustumRays
}

func putVec3(buf []byte, v mgl32.Vec3) {
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(v[2]))
	binary.LittleEndian.PutUint32(buf[12:], 0)
}

// Bytes packs u into the 112 byte layout of FrameUniformLayout.
func (u FrameUniforms) Bytes() []byte {
	buf := make([]byte, UniformSize)

	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(u.Time))
	binary.LittleEndian.PutUint32(buf[4:], u.NumAccumFrames)
	binary.LittleEndian.PutUint32(buf[8:], uint32(u.RenderMode))

	putVec3(buf[16:], u.CameraPos)
	putVec3(buf[32:], u.CameraDir)
	putVec3(buf[48:], u.Rays.Ray00)
	putVec3(buf[64:], u.Rays.Ray10)
	putVec3(buf[80:], u.Rays.Ray01)
	putVec3(buf[96:], u.Rays.Ray11)
	return buf
}
