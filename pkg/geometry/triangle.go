package geometry

import (
	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// triangleEpsilon rejects rays nearly parallel to the triangle and hits at the origin
const triangleEpsilon = 1e-8

// flatBoxPadding gives axis-aligned triangles a box the slab test can hit
const flatBoxPadding = 1e-6

// Triangle represents a single triangle defined by three vertices. It is
// hit from both sides; the reported normal faces the incoming ray.
type Triangle struct {
	V0, V1, V2 core.Vec3         // The three vertices
	Material   material.Material // Material of the triangle
	normal     core.Vec3         // Cached normal, counter-clockwise winding
	bbox       core.AABB         // Cached bounding box
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) *Triangle {
	return &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: mat,
		normal:   v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize(),
		bbox:     triangleBox(v0, v1, v2),
	}
}

// triangleBox bounds the vertices. A box with no extent along some axis is
// grown slightly on every side, since AABB.Hit rejects empty slab intervals.
func triangleBox(v0, v1, v2 core.Vec3) core.AABB {
	box := core.NewAABBFromPoints(v0, v1, v2)
	size := box.Size()
	if size.X < flatBoxPadding || size.Y < flatBoxPadding || size.Z < flatBoxPadding {
		return box.Expand(flatBoxPadding)
	}
	return box
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray) (*material.HitRecord, bool) {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray lies in the plane of the triangle
	if a > -triangleEpsilon && a < triangleEpsilon {
		return nil, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return nil, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return nil, false
	}

	tHit := f * edge2.Dot(q)
	if tHit < triangleEpsilon {
		return nil, false
	}

	normal := t.normal
	if ray.Direction.Dot(normal) > 0 {
		normal = normal.Negate()
	}

	return &material.HitRecord{
		Point:    ray.At(tHit),
		Normal:   normal,
		T:        tHit,
		Material: t.Material,
	}, true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Normal returns the triangle's geometric normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}
