package geometry

import (
	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// planeEpsilon is the smallest facing term accepted as a hit (float32 machine epsilon)
const planeEpsilon = 1.1920929e-07

// Plane represents an infinite one-sided plane defined by a point and normal
type Plane struct {
	Point    core.Vec3         // A point on the plane
	Normal   core.Vec3         // Unit normal; only rays travelling against it hit
	Material material.Material // Material of the plane
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, mat material.Material) *Plane {
	return &Plane{
		Point:    point,
		Normal:   normal.Normalize(),
		Material: mat,
	}
}

// Hit tests if a ray intersects with the front face of the plane
func (p *Plane) Hit(ray core.Ray) (*material.HitRecord, bool) {
	back := p.Normal.Negate()

	// Parallel rays and rays approaching from behind miss
	denominator := back.Dot(ray.Direction)
	if denominator <= planeEpsilon {
		return nil, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(back) / denominator
	if t < 0 {
		return nil, false
	}

	return &material.HitRecord{
		Point:    ray.At(t),
		Normal:   p.Normal,
		T:        t,
		Material: p.Material,
	}, true
}

// BoundingBox returns the infinite box; planes are tested outside the BVH
func (p *Plane) BoundingBox() core.AABB {
	return core.InfiniteAABB()
}
