package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min := points[0]
	max := points[0]

	for _, point := range points[1:] {
		min = min.Min(point)
		max = max.Max(point)
	}

	return AABB{Min: min, Max: max}
}

// InfiniteAABB returns the box spanning all of space. Unbounded shapes such
// as planes report it so they can be kept out of the BVH.
func InfiniteAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: NewVec3(-inf, -inf, -inf),
		Max: NewVec3(inf, inf, inf),
	}
}

// SurroundingBox returns the smallest AABB containing both boxes
func SurroundingBox(box0, box1 AABB) AABB {
	return box0.Union(box1)
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: aabb.Min.Min(other.Min),
		Max: aabb.Max.Max(other.Max),
	}
}

// Hit tests if a ray intersects with this AABB using the slab method.
//
// The parametric interval starts unbounded in both directions, so a box
// lying entirely behind the origin still reports a hit; primitives reject
// those intersections themselves.
func (aabb AABB) Hit(ray Ray) bool {
	tMin := -math.MaxFloat64
	tMax := math.MaxFloat64

	for axis := 0; axis < 3; axis++ {
		min := aabb.Min.Axis(axis)
		max := aabb.Max.Axis(axis)
		origin := ray.Origin.Axis(axis)
		direction := ray.Direction.Axis(axis)

		// Parallel to this slab: the axis either rejects the ray outright or
		// places no constraint on it
		if direction == 0 {
			if origin < min || origin > max {
				return false
			}
			continue
		}

		invDirection := 1.0 / direction
		t0 := (min - origin) * invDirection
		t1 := (max - origin) * invDirection
		if invDirection < 0 {
			t0, t1 = t1, t0
		}

		tMin = math.Max(t0, tMin)
		tMax = math.Min(t1, tMax)
		if tMax <= tMin {
			return false
		}
	}

	return true
}

// Contains reports whether point lies inside the box grown by eps
func (aabb AABB) Contains(point Vec3, eps float64) bool {
	for axis := 0; axis < 3; axis++ {
		v := point.Axis(axis)
		if v < aabb.Min.Axis(axis)-eps || v > aabb.Max.Axis(axis)+eps {
			return false
		}
	}
	return true
}

// ContainsBox reports whether other lies entirely inside this box
func (aabb AABB) ContainsBox(other AABB) bool {
	for axis := 0; axis < 3; axis++ {
		if other.Min.Axis(axis) < aabb.Min.Axis(axis) || other.Max.Axis(axis) > aabb.Max.Axis(axis) {
			return false
		}
	}
	return true
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// IsBounded returns true if both corners are finite
func (aabb AABB) IsBounded() bool {
	return aabb.Min.IsFinite() && aabb.Max.IsFinite()
}

// Expand returns an AABB expanded by the given amount in all directions
func (aabb AABB) Expand(amount float64) AABB {
	expansion := Splat(amount)
	return AABB{
		Min: aabb.Min.Subtract(expansion),
		Max: aabb.Max.Add(expansion),
	}
}
