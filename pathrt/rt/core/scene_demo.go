package core

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// SceneFunc populates a builder. The random source is owned by the caller.
type SceneFunc func(b *SceneBuilder, rng *rand.Rand) error

var demoScenes = map[string]SceneFunc{
	"random":    RandomSpheres,
	"cornell":   CornellBox,
	"greyscale": GreyscaleRow,
}

// DemoSceneNames lists the built-in scenes in sorted order.
func DemoSceneNames() []string {
	names := make([]string, 0, len(demoScenes))
	for n := range demoScenes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// BuildDemoScene builds one of the built-in scenes with rng as its only source
// of randomness.
func BuildDemoScene(name string, rng *rand.Rand) (*Scene, error) {
	fn, ok := demoScenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (have %v)", name, DemoSceneNames())
	}
	b := NewSceneBuilder(name)
	if err := fn(b, rng); err != nil {
		return nil, err
	}
	return b.Build()
}

func randColor(rng *rand.Rand) mgl32.Vec4 {
	return mgl32.Vec4{rng.Float32(), rng.Float32(), rng.Float32(), 1}
}

// RandomSpheres scatters a 4x4 batch of spheres in a 10 unit cube and adds a
// large emissive sphere as the sun.
func RandomSpheres(b *SceneBuilder, rng *rand.Rand) error {
	const grid = 4
	spheres := make([]Sphere, 0, grid*grid+1)
	for i := 0; i < grid*grid; i++ {
		center := mgl32.Vec3{
			rng.Float32()*10 - 5,
			rng.Float32()*10 - 5,
			rng.Float32()*10 - 5,
		}
		radius := rng.Float32() + 0.2

		mat := Material{
			Smoothness: rng.Float32(),
		}
		ior := rng.Float32() + 1
		if rng.Float32() > 0.6 {
			mat.RefractiveIndex = ior
		}
		mat.DiffuseColor = randColor(rng)
		mat.GlossColor = randColor(rng)
		mat.RefractionColor = randColor(rng)

		spheres = append(spheres, NewSphere(center, radius, mat))
	}

	sun := NewEmissiveMaterial(mgl32.Vec4{1, 0.5, 0.5, 1}, 100)
	spheres = append(spheres, NewSphere(mgl32.Vec3{40, 5, 50}, 10, sun))
	return b.AddSphere(spheres...)
}

// CornellBox builds a unit box with a red and a green wall and an area light.
func CornellBox(b *SceneBuilder, _ *rand.Rand) error {
	white := NewGlossyMaterial(mgl32.Vec4{1, 1, 1, 1}, 1, 0)
	green := NewGlossyMaterial(mgl32.Vec4{0, 1, 0, 1}, 1, 0)
	red := NewGlossyMaterial(mgl32.Vec4{1, 0, 0, 1}, 1, 0)
	light := NewEmissiveMaterial(mgl32.Vec4{1, 1, 1, 1}, 50)

	v := func(x, y, z float32) mgl32.Vec3 { return mgl32.Vec3{x, y, z} }
	return b.AddQuad(
		NewQuad(v(-1, 1, 1), v(1, 1, 1), v(-1, 1, -1), v(1, 1, -1), white),
		NewQuad(v(-1, 1, -1), v(1, 1, -1), v(-1, -1, -1), v(1, -1, -1), white),
		NewQuad(v(-1, -1, -1), v(1, -1, -1), v(-1, -1, 1), v(1, -1, 1), white),
		NewQuad(v(1, 1, -1), v(1, 1, 1), v(1, -1, -1), v(1, -1, 1), green),
		NewQuad(v(-1, 1, 1), v(-1, 1, -1), v(-1, -1, 1), v(-1, -1, -1), red),
		NewQuad(v(-0.2, 0.99, 0.2), v(0.2, 0.99, 0.2), v(-0.2, 0.99, -0.2), v(0.2, 0.99, -0.2), light),
	)
}

// GreyscaleRow lines up spheres of increasing smoothness over a floor quad,
// lit by a single point light. Glossiness is jittered by rng.
func GreyscaleRow(b *SceneBuilder, rng *rand.Rand) error {
	const count = 5
	grey := mgl32.Vec4{0.6, 0.6, 0.6, 1}
	for i := 0; i < count; i++ {
		smooth := float32(i) / float32(count-1)
		mat := NewGlossyMaterial(grey, smooth, 8+rng.Float32()*8)
		x := float32(i) - float32(count-1)/2
		if err := b.AddSphere(NewSphere(mgl32.Vec3{x, 0, 0}, 0.4, mat)); err != nil {
			return err
		}
	}

	floor := NewDiffuseMaterial(mgl32.Vec4{0.8, 0.8, 0.8, 1})
	const d, y = 10, -0.4
	if err := b.AddQuad(NewQuad(
		mgl32.Vec3{-d, y, -d}, mgl32.Vec3{d, y, -d},
		mgl32.Vec3{-d, y, d}, mgl32.Vec3{d, y, d}, floor)); err != nil {
		return err
	}

	lamp := NewEmissiveMaterial(mgl32.Vec4{1, 1, 1, 1}, 300)
	return b.AddPointLight(NewPointLight(mgl32.Vec3{-7, 15, 10}, lamp))
}
