package scene

import (
	"math"
	"math/rand"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// NewRandomSpheresScene scatters count non-overlapping spheres through a cube
// centered on (0, 0, -20). Each sphere sits inside its own cell of a regular
// grid, jittered within the cell, so no two spheres touch. The same seed
// always produces the same scene.
func NewRandomSpheresScene(count int, seed int64) *Scene {
	s := New(core.NewVec3(0.05, 0.05, 0.08))
	random := rand.New(rand.NewSource(seed))

	const extent = 24.0
	center := core.NewVec3(0, 0, -20)

	side := int(math.Ceil(math.Cbrt(float64(max(count, 1)))))
	cell := extent / float64(side)
	origin := center.Subtract(core.Splat(extent / 2))

	names := material.PresetNames()
	for i := 0; i < count; i++ {
		x, y, z := i%side, (i/side)%side, i/(side*side)
		radius := cell * (0.1 + 0.3*random.Float64())
		slack := cell/2 - radius
		position := origin.Add(core.NewVec3(
			(float64(x)+0.5)*cell+(random.Float64()*2-1)*slack,
			(float64(y)+0.5)*cell+(random.Float64()*2-1)*slack,
			(float64(z)+0.5)*cell+(random.Float64()*2-1)*slack,
		))
		s.AddSphere(position, radius, material.MustPreset(names[random.Intn(len(names))]))
	}

	s.AddLight(core.NewVec3(0, 20, 0), 1.5)
	s.AddLight(core.NewVec3(-15, 5, 5), 0.8)
	return s
}
