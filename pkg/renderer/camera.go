package renderer

import (
	"math"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// Camera is a pinhole camera at the origin looking down -Z with +Y up
type Camera struct {
	origin     core.Vec3
	width      float64
	height     float64
	tanHalfFOV float64
}

// NewCamera creates a camera for a width x height image with the given
// vertical field of view in radians
func NewCamera(width, height int, fov float64) *Camera {
	return &Camera{
		origin:     core.NewVec3(0, 0, 0),
		width:      float64(width),
		height:     float64(height),
		tanHalfFOV: math.Tan(fov / 2),
	}
}

// GetRay returns the normalized primary ray through pixel (x, y), offset
// within the pixel by (dx, dy) in [0, 1). Row 0 is the top of the image.
func (c *Camera) GetRay(x, y int, dx, dy float64) core.Ray {
	px := (2*(float64(x)+dx)/c.width - 1) * c.tanHalfFOV * c.width / c.height
	py := -(2*(float64(y)+dy)/c.height - 1) * c.tanHalfFOV
	return core.NewRay(c.origin, core.NewVec3(px, py, -1).Normalize())
}

// sampleOffset returns the in-pixel offset of primary sample m out of msaa.
// A single sample goes through the pixel center; more samples are spread
// evenly along the pixel diagonal.
func sampleOffset(m, msaa int) float64 {
	if msaa <= 1 {
		return 0.5
	}
	return (float64(m) + 0.5) / float64(msaa)
}
