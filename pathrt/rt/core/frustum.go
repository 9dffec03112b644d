package core

import "github.com/go-gl/mathgl/mgl32"

// FrustumRays holds the world-space points where the four screen corner rays
// meet the far plane. RayXY uses X/Y=0 for the -1 NDC edge and 1 for +1.
type FrustumRays struct {
	Ray00 mgl32.Vec3
	Ray10 mgl32.Vec3
	Ray01 mgl32.Vec3
	Ray11 mgl32.Vec3
}

var frustumCorners = [4]mgl32.Vec4{
	{-1, -1, 1, 1},
	{1, -1, 1, 1},
	{-1, 1, 1, 1},
	{1, 1, 1, 1},
}

// ComputeFrustumRays unprojects the NDC corners at far depth through invProjView.
func ComputeFrustumRays(invProjView mgl32.Mat4) FrustumRays {
	var pts [4]mgl32.Vec3
	for i, ndc := range frustumCorners {
		pts[i] = unproject(invProjView, ndc)
	}
	return FrustumRays{Ray00: pts[0], Ray10: pts[1], Ray01: pts[2], Ray11: pts[3]}
}

func unproject(inv mgl32.Mat4, ndc mgl32.Vec4) mgl32.Vec3 {
	p := inv.Mul4x1(ndc)
	if p[3] == 0 {
		return p.Vec3()
	}
	return p.Vec3().Mul(1 / p[3])
}

// FrustumRays derives the corner rays from the camera's current matrices.
func (c *Camera) FrustumRays() FrustumRays {
	return ComputeFrustumRays(c.InvProjView)
}
