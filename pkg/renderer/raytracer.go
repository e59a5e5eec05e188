package renderer

import (
	"errors"
	"image/color"
	"math"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/lights"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// ErrSceneNotBuilt is returned when rendering a scene whose acceleration
// structure has not been created
var ErrSceneNotBuilt = errors.New("scene acceleration structure not built")

// surfaceOffset separates secondary ray origins from the surface they leave
const surfaceOffset = 1e-3

// Scene interface to avoid circular imports
type Scene interface {
	IntersectRay(ray core.Ray) (*material.HitRecord, bool)
	GetLights() []lights.PointLight
	GetBackground() core.Vec3
	IsBuilt() bool
}

// Raytracer shades rays against a built scene using the Whitted model: mirror
// reflection, refraction, soft shadows and Phong highlights
type Raytracer struct {
	scene  Scene
	config Config
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, config Config) (*Raytracer, error) {
	if !scene.IsBuilt() {
		return nil, ErrSceneNotBuilt
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &Raytracer{scene: scene, config: config}, nil
}

// rayCounts tallies rays cast while rendering
type rayCounts struct {
	primary   int
	secondary int
	shadow    int
}

// CastRay returns the color seen along dir from origin. Depth counts the
// reflections and refractions that led here; past MaxDepth the background
// is returned.
func (rt *Raytracer) CastRay(origin, dir core.Vec3, depth int, sampler core.Sampler) core.Vec3 {
	return rt.castRay(core.NewRay(origin, dir), depth, sampler, nil)
}

func (rt *Raytracer) castRay(ray core.Ray, depth int, sampler core.Sampler, counts *rayCounts) core.Vec3 {
	if ray.Validate() != nil {
		return rt.scene.GetBackground()
	}

	hit, isHit := rt.scene.IntersectRay(ray)
	if depth > rt.config.MaxDepth || !isHit {
		return rt.scene.GetBackground()
	}
	mat := hit.Material

	reflectColor := core.Vec3{}
	if mat.Reflects() {
		dir := ray.Direction.Reflect(hit.Normal).Normalize()
		reflectColor = rt.castSecondary(hit, dir, depth, sampler, counts)
	}

	refractColor := core.Vec3{}
	if mat.Refracts() {
		// Total internal reflection leaves no transmitted ray
		if dir := ray.Direction.Refract(hit.Normal, mat.RefractiveIndex); !dir.IsZero() {
			refractColor = rt.castSecondary(hit, dir.Normalize(), depth, sampler, counts)
		}
	}

	diffuseIntensity, specularIntensity := 0.0, 0.0
	shadowCoef := 1.0
	for _, light := range rt.scene.GetLights() {
		lightDir := light.DirectionFrom(hit.Point)

		shadowCoef -= rt.occlusion(hit, light, lightDir, sampler, counts)

		r := lightDir.Negate().Reflect(hit.Normal).Normalize()
		diffuseIntensity += light.Intensity * math.Max(0, lightDir.Dot(hit.Normal))
		specularIntensity += light.Intensity * math.Pow(math.Max(0, r.Dot(ray.Direction.Negate())), mat.SpecularExponent)
	}
	// Occlusion is shared across lights, so several blocked lights can push it below zero
	shadowCoef = math.Max(0, shadowCoef)

	ambient := mat.Color.Multiply(mat.Ambient * lights.AmbientIntensity)
	diffuse := mat.Color.Multiply(diffuseIntensity * mat.Diffuse * shadowCoef)
	specular := core.Splat(specularIntensity * mat.Specular * shadowCoef)

	return ambient.
		Add(diffuse).
		Add(specular).
		Add(reflectColor.Multiply(mat.Reflect)).
		Add(refractColor.Multiply(mat.Refract))
}

// castSecondary traces a reflected or refracted ray leaving hit
func (rt *Raytracer) castSecondary(hit *material.HitRecord, dir core.Vec3, depth int, sampler core.Sampler, counts *rayCounts) core.Vec3 {
	if counts != nil {
		counts.secondary++
	}
	origin := offsetOrigin(hit, dir)
	return rt.castRay(core.NewRay(origin, dir), depth+1, sampler, counts)
}

// occlusion returns how much of the shadow coefficient the light loses at
// hit. Each of SoftShadowSamples jittered rays that is blocked before
// reaching the light removes an equal share.
func (rt *Raytracer) occlusion(hit *material.HitRecord, light lights.PointLight, lightDir core.Vec3, sampler core.Sampler, counts *rayCounts) float64 {
	samples := rt.config.SoftShadowSamples
	if samples == 0 {
		return 0
	}

	start := offsetOrigin(hit, lightDir)
	lightDist := light.DistanceSquaredFrom(start)

	blocked := 0
	for i := 0; i < samples; i++ {
		dir := lightDir.Add(core.Jitter(sampler, rt.config.SoftShadowRange))
		if counts != nil {
			counts.shadow++
		}
		if shadowHit, ok := rt.scene.IntersectRay(core.NewRay(start, dir)); ok {
			if shadowHit.DistanceSquared(start) <= lightDist {
				blocked++
			}
		}
	}
	return float64(blocked) / float64(samples)
}

// offsetOrigin nudges hit.Point off the surface to the side dir leaves from
func offsetOrigin(hit *material.HitRecord, dir core.Vec3) core.Vec3 {
	offset := hit.Normal.Multiply(surfaceOffset)
	if dir.Dot(hit.Normal) < 0 {
		return hit.Point.Subtract(offset)
	}
	return hit.Point.Add(offset)
}

// vec3ToColor converts a Vec3 color to RGBA with clamping
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
