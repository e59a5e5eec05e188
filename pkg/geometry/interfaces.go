package geometry

import (
	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// Shape interface for objects that can be hit by rays
type Shape interface {
	Hit(ray core.Ray) (*material.HitRecord, bool)
	BoundingBox() core.AABB
}

// IsBounded reports whether the shape has a finite bounding box and may be
// placed in a BVH
func IsBounded(shape Shape) bool {
	return shape.BoundingBox().IsBounded()
}
