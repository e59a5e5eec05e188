package material

import (
	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point    core.Vec3 // Point of intersection
	Normal   core.Vec3 // Unit surface normal, oriented by the shape's convention
	T        float64   // Parameter t along the ray
	Material Material  // Copy of the hit shape's material
}

// DistanceSquared returns the squared distance from origin to the hit point
func (h *HitRecord) DistanceSquared(origin core.Vec3) float64 {
	return h.Point.Subtract(origin).LengthSquared()
}

// Nearer returns whichever of a and b lies closer to origin. Either may be nil.
// Ties go to a.
func Nearer(origin core.Vec3, a, b *HitRecord) *HitRecord {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.DistanceSquared(origin) < a.DistanceSquared(origin) {
		return b
	}
	return a
}
