package lights

import "github.com/df07/go-bvh-raytracer/pkg/core"

// AmbientIntensity scales every material's ambient term. The Whitted shading
// model here relies on direct and mirrored light only.
const AmbientIntensity = 0.0

// PointLight is an isotropic light at a single position
type PointLight struct {
	Position  core.Vec3
	Intensity float64
}

// NewPointLight creates a point light
func NewPointLight(position core.Vec3, intensity float64) PointLight {
	return PointLight{Position: position, Intensity: intensity}
}

// DirectionFrom returns the unit direction from point toward the light
func (l PointLight) DirectionFrom(point core.Vec3) core.Vec3 {
	return l.Position.Subtract(point).Normalize()
}

// DistanceSquaredFrom returns the squared distance from point to the light
func (l PointLight) DistanceSquaredFrom(point core.Vec3) float64 {
	return l.Position.Subtract(point).LengthSquared()
}
