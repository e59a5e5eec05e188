package scene

import (
	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// NewDefaultScene creates two spheres inside a five-walled room lit by a
// single light near the ceiling. The camera sits at the origin looking down -Z.
func NewDefaultScene() *Scene {
	s := New(core.NewVec3(0.7, 0.7, 0.7))

	redRubber := material.MustPreset("red_rubber")
	whiteRubber := material.MustPreset("white_rubber")
	blueRubber := material.MustPreset("blue_rubber")
	mirror := material.MustPreset("mirror")

	s.AddSphere(core.NewVec3(-1, 0, -3), 0.5, redRubber)
	s.AddSphere(core.NewVec3(1, 0, -3), 0.5, mirror)

	s.AddPlane(core.NewVec3(0, -2, 0), core.NewVec3(0, 1, 0), whiteRubber) // floor
	s.AddPlane(core.NewVec3(0, 3, 0), core.NewVec3(0, -1, 0), whiteRubber) // ceiling
	s.AddPlane(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1), whiteRubber) // back wall
	s.AddPlane(core.NewVec3(-3, 0, 0), core.NewVec3(1, 0, 0), redRubber)   // left wall
	s.AddPlane(core.NewVec3(3, 0, 0), core.NewVec3(-1, 0, 0), blueRubber)  // right wall

	s.AddLight(core.NewVec3(0, 2.8, 0), 1.7)

	return s
}
