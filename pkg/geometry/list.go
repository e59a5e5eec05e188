package geometry

import (
	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// HittableList tests every shape it holds. It serves unbounded shapes that
// cannot live in a BVH and acts as the brute-force reference for it.
type HittableList struct {
	Shapes []Shape
}

// NewHittableList creates a list over the given shapes
func NewHittableList(shapes ...Shape) *HittableList {
	return &HittableList{Shapes: shapes}
}

// Add appends shapes to the list
func (l *HittableList) Add(shapes ...Shape) {
	l.Shapes = append(l.Shapes, shapes...)
}

// Len returns the number of shapes in the list
func (l *HittableList) Len() int {
	return len(l.Shapes)
}

// Hit returns the hit nearest to the ray origin by squared distance
func (l *HittableList) Hit(ray core.Ray) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	closestDist := 0.0

	for _, shape := range l.Shapes {
		hit, ok := shape.Hit(ray)
		if !ok {
			continue
		}
		if dist := hit.DistanceSquared(ray.Origin); closest == nil || dist < closestDist {
			closest = hit
			closestDist = dist
		}
	}

	return closest, closest != nil
}

// BoundingBox returns the union of all shape boxes
func (l *HittableList) BoundingBox() core.AABB {
	if len(l.Shapes) == 0 {
		return core.AABB{}
	}
	box := l.Shapes[0].BoundingBox()
	for _, shape := range l.Shapes[1:] {
		box = box.Union(shape.BoundingBox())
	}
	return box
}
