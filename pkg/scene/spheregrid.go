package scene

import (
	"math"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}

// NewSphereGridScene creates a gridSize x gridSize carpet of spheres resting on
// a floor plane in front of the camera. Hue varies along X and chroma along Z;
// every third sphere is a mirror.
func NewSphereGridScene(gridSize int) *Scene {
	if gridSize < 1 {
		gridSize = 1
	}
	s := New(core.NewVec3(0.5, 0.7, 1.0))

	const (
		floorY     = -1.5
		targetArea = 8.0
		centerZ    = -9.0
	)
	s.AddPlane(core.NewVec3(0, floorY, 0), core.NewVec3(0, 1, 0), material.MustPreset("white_rubber"))

	spacing := targetArea / math.Max(1, float64(gridSize-1))
	sphereRadius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2
			z := float64(j)*spacing - targetArea/2 + centerZ
			position := core.NewVec3(x, floorY+sphereRadius, z)

			hue := float64(i) / math.Max(1, float64(gridSize-1)) * 360.0
			chroma := 0.05 + float64(j)/math.Max(1, float64(gridSize-1))*0.2
			lightness := 0.65 + 0.1*math.Sin(float64(i+j)*0.5)

			mat := material.NewMaterial(oklchToRGB(lightness, chroma, hue), 0.9)
			mat.Specular = 0.3
			mat.SpecularExponent = 50
			if (i+j)%3 == 0 {
				mat.Reflect = 0.4
			}
			s.AddSphere(position, sphereRadius, mat)
		}
	}

	s.AddLight(core.NewVec3(-6, 8, 0), 1.2)
	s.AddLight(core.NewVec3(6, 6, -4), 0.6)
	return s
}
