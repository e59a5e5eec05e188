package scene

import (
	"fmt"
	"math/rand"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/lights"
	"github.com/df07/go-bvh-raytracer/pkg/log"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

var logger = log.New("scene")

// Scene contains all the elements needed for rendering.
//
// Shapes and lights are added during setup, then CreateAccelerationStructure
// is called once. After that the scene is read-only and Intersect may be
// called from any number of goroutines. Adding shapes or rebuilding while
// queries are in flight is not supported.
type Scene struct {
	Shapes     []geometry.Shape    // Objects in the scene
	Lights     []lights.PointLight // Lights in the scene
	Background core.Vec3           // Color returned for rays that escape

	bvh       *geometry.BVH          // Bounded shapes
	unbounded *geometry.HittableList // Planes and other shapes without a finite box
	built     bool
}

// New creates an empty scene with the given background color
func New(background core.Vec3) *Scene {
	return &Scene{Background: background}
}

// Add appends shapes to the scene. Must not be called after the acceleration
// structure has been built.
func (s *Scene) Add(shapes ...geometry.Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

// AddSphere adds a sphere to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) {
	s.Add(geometry.NewSphere(center, radius, mat))
}

// AddPlane adds a one-sided plane to the scene
func (s *Scene) AddPlane(point, normal core.Vec3, mat material.Material) {
	s.Add(geometry.NewPlane(point, normal, mat))
}

// AddTriangle adds a two-sided triangle to the scene
func (s *Scene) AddTriangle(v0, v1, v2 core.Vec3, mat material.Material) {
	s.Add(geometry.NewTriangle(v0, v1, v2, mat))
}

// AddLight adds a point light to the scene
func (s *Scene) AddLight(position core.Vec3, intensity float64) {
	s.Lights = append(s.Lights, lights.NewPointLight(position, intensity))
}

// CreateAccelerationStructure builds the BVH over all bounded shapes and sets
// unbounded shapes aside for linear testing. A nil random builds with the
// default seed. Calling it again rebuilds from the current shape list.
func (s *Scene) CreateAccelerationStructure(random *rand.Rand) error {
	if len(s.Shapes) == 0 {
		return core.ErrEmptyScene
	}

	var bounded []geometry.Shape
	unbounded := geometry.NewHittableList()
	for _, shape := range s.Shapes {
		if geometry.IsBounded(shape) {
			bounded = append(bounded, shape)
		} else {
			unbounded.Add(shape)
		}
	}

	var bvh *geometry.BVH
	if len(bounded) > 0 {
		var err error
		bvh, err = geometry.NewBVH(bounded, random)
		if err != nil {
			return fmt.Errorf("building BVH: %w", err)
		}
	}

	s.bvh = bvh
	s.unbounded = unbounded
	s.built = true

	logger.Debugf("acceleration structure ready: %d bounded, %d unbounded shapes", len(bounded), unbounded.Len())
	return nil
}

// IsBuilt reports whether CreateAccelerationStructure has succeeded
func (s *Scene) IsBuilt() bool {
	return s.built
}

// Intersect returns the hit nearest to origin along dir. Before the
// acceleration structure is built it reports no hit.
func (s *Scene) Intersect(origin, dir core.Vec3) (*material.HitRecord, bool) {
	return s.IntersectRay(core.NewRay(origin, dir))
}

// IntersectRay is Intersect for a prepared ray
func (s *Scene) IntersectRay(ray core.Ray) (*material.HitRecord, bool) {
	if !s.built {
		return nil, false
	}

	var bounded *material.HitRecord
	if s.bvh != nil {
		bounded, _ = s.bvh.Hit(ray)
	}
	planar, _ := s.unbounded.Hit(ray)

	hit := material.Nearer(ray.Origin, bounded, planar)
	return hit, hit != nil
}

// BVHStats returns the tree statistics, or false when the scene has no BVH
func (s *Scene) BVHStats() (geometry.BVHStats, bool) {
	if s.bvh == nil {
		return geometry.BVHStats{}, false
	}
	return s.bvh.Stats(), true
}

// UnboundedCount returns how many shapes are tested outside the BVH
func (s *Scene) UnboundedCount() int {
	if s.unbounded == nil {
		return 0
	}
	return s.unbounded.Len()
}

// GetLights returns the scene's point lights
func (s *Scene) GetLights() []lights.PointLight {
	return s.Lights
}

// GetBackground returns the color seen by rays that escape the scene
func (s *Scene) GetBackground() core.Vec3 {
	return s.Background
}
