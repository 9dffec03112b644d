package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func reproject(c *Camera, p mgl32.Vec3) mgl32.Vec2 {
	clip := c.Projection.Mul4(c.View).Mul4x1(p.Vec4(1))
	return mgl32.Vec2{clip.X() / clip.W(), clip.Y() / clip.W()}
}

func TestFrustumRaysReprojectToCorners(t *testing.T) {
	turned := NewCamera(1300, 1300, mgl32.Vec3{3, -1, 7}, mgl32.Vec3{0.3, 0.2, -1})
	wide := NewDefaultCamera(1920, 1080)
	wide.Position = mgl32.Vec3{-4, 2, 0}
	wide.RecomputeMatrices()

	cameras := map[string]*Camera{
		"default": NewDefaultCamera(1300, 1300),
		"turned":  turned,
		"wide":    wide,
	}

	for name, cam := range cameras {
		t.Run(name, func(t *testing.T) {
			rays := cam.FrustumRays()
			corners := []struct {
				p    mgl32.Vec3
				x, y float32
			}{
				{rays.Ray00, -1, -1},
				{rays.Ray10, 1, -1},
				{rays.Ray01, -1, 1},
				{rays.Ray11, 1, 1},
			}
			for _, c := range corners {
				got := reproject(cam, c.p)
				assert.InDelta(t, c.x, got.X(), 1e-3)
				assert.InDelta(t, c.y, got.Y(), 1e-3)
			}
		})
	}
}

func TestFrustumRaysReachFarPlane(t *testing.T) {
	cam := NewDefaultCamera(1300, 1300)
	rays := ComputeFrustumRays(cam.InvProjView)

	center := rays.Ray00.Add(rays.Ray10).Add(rays.Ray01).Add(rays.Ray11).Mul(0.25)
	toCenter := center.Sub(cam.Position)
	assert.InDelta(t, 1.0, toCenter.Normalize().Dot(cam.Direction), 1e-4)
	assert.InDelta(t, cam.Far, toCenter.Len(), float64(cam.Far*0.05))

	// Left corners are left of right corners, bottom below top.
	assert.Less(t, rays.Ray00.X(), rays.Ray10.X())
	assert.Less(t, rays.Ray00.Y(), rays.Ray01.Y())
	assert.Less(t, rays.Ray01.X(), rays.Ray11.X())
}
