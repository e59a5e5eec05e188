package geometry

import (
	"math"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Hit tests if a ray intersects with the sphere.
//
// Rays starting inside the sphere never hit it, and a ray that only grazes
// the surface (zero discriminant) counts as a miss.
func (s *Sphere) Hit(ray core.Ray) (*material.HitRecord, bool) {
	// Vector from sphere center to ray origin
	f := ray.Origin.Subtract(s.Center)
	rr := s.Radius * s.Radius
	if f.LengthSquared() < rr {
		return nil, false
	}

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * ray.Direction.Dot(f)
	c := f.Dot(f) - rr

	discriminant := b*b - 4*a*c
	if discriminant <= 0 {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)
	t0 := (-b - sqrtD) / (2 * a)
	t1 := (-b + sqrtD) / (2 * a)
	if t0 > t1 {
		t0, t1 = t1, t0
	}

	// Fall back to the far root when the near one is behind the origin
	t := t0
	if t < 0 {
		t = t1
		if t < 0 {
			return nil, false
		}
	}

	point := ray.At(t)
	return &material.HitRecord{
		Point:    point,
		Normal:   point.Subtract(s.Center).Normalize(),
		T:        t,
		Material: s.Material,
	}, true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.Splat(s.Radius)
	return core.NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}
