package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/material"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var testMaterial = material.NewMaterial(core.NewVec3(0.5, 0.5, 0.5), 0.8)

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_FrontFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedPoint  core.Vec3
		expectedNormal core.Vec3
		expectedT      float64
	}{
		{
			name:           "from +z",
			rayOrigin:      core.NewVec3(0, 0, 5),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedPoint:  core.NewVec3(0, 0, 1),
			expectedNormal: core.NewVec3(0, 0, 1),
			expectedT:      4,
		},
		{
			name:           "from -x",
			rayOrigin:      core.NewVec3(-3, 0, 0),
			rayDirection:   core.NewVec3(1, 0, 0),
			expectedPoint:  core.NewVec3(-1, 0, 0),
			expectedNormal: core.NewVec3(-1, 0, 0),
			expectedT:      2,
		},
		{
			name:           "unnormalized direction",
			rayOrigin:      core.NewVec3(0, 4, 0),
			rayDirection:   core.NewVec3(0, -3, 0),
			expectedPoint:  core.NewVec3(0, 1, 0),
			expectedNormal: core.NewVec3(0, 1, 0),
			expectedT:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := sphere.Hit(core.NewRay(tt.rayOrigin, tt.rayDirection))
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			want := &material.HitRecord{
				Point:    tt.expectedPoint,
				Normal:   tt.expectedNormal,
				T:        tt.expectedT,
				Material: testMaterial,
			}
			if diff := cmp.Diff(want, hit, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("Hit record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSphere_Hit_OriginInside(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)

	// A ray starting inside never sees the sphere that contains it
	for _, dir := range []core.Vec3{
		core.NewVec3(0, 0, 1),
		core.NewVec3(1, 1, 0).Normalize(),
		core.NewVec3(0, -1, 0),
	} {
		if hit, isHit := sphere.Hit(core.NewRay(core.NewVec3(0.2, 0.1, 0), dir)); isHit {
			t.Errorf("Expected miss from inside, got hit at %v", hit.Point)
		}
	}
}

func TestSphere_Hit_TangentIsMiss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)

	// Grazes the sphere at (1,0,0): discriminant is exactly zero
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))
	if hit, isHit := sphere.Hit(ray); isHit {
		t.Errorf("Expected tangent ray to miss, got hit at %v", hit.Point)
	}

	// Just inside the silhouette is a hit
	ray = core.NewRay(core.NewVec3(0.999, 0, 2), core.NewVec3(0, 0, -1))
	if _, isHit := sphere.Hit(ray); !isHit {
		t.Error("Expected ray just inside the silhouette to hit")
	}
}

func TestSphere_Hit_Behind(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1))

	if hit, isHit := sphere.Hit(ray); isHit {
		t.Errorf("Expected miss for sphere behind ray, got hit at %v", hit.Point)
	}
}

func TestSphere_Hit_ClosestIntersection(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -10), 2.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(hit.T-8.0) > 1e-9 {
		t.Errorf("Expected near intersection at t=8, got t=%f", hit.T)
	}
}

func TestSphere_HitPointsInsideBoundingBox(t *testing.T) {
	random := rand.New(rand.NewSource(3))

	for i := 0; i < 200; i++ {
		center := core.NewVec3(random.Float64()*10-5, random.Float64()*10-5, random.Float64()*10-5)
		sphere := NewSphere(center, 0.1+random.Float64()*2, testMaterial)
		box := sphere.BoundingBox()

		for j := 0; j < 50; j++ {
			origin := center.Add(randomUnitVector(random).Multiply(20))
			target := center.Add(randomUnitVector(random).Multiply(sphere.Radius * random.Float64()))
			ray := core.NewRay(origin, target.Subtract(origin).Normalize())

			hit, isHit := sphere.Hit(ray)
			if !isHit {
				continue
			}
			if !box.Contains(hit.Point, 1e-9) {
				t.Fatalf("Hit point %v outside bounding box %v", hit.Point, box)
			}
			if math.Abs(hit.Normal.Length()-1) > 1e-9 {
				t.Fatalf("Expected unit normal, got length %f", hit.Normal.Length())
			}
		}
	}
}

func TestSphere_BoundingBox(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 2, 3), 0.5, testMaterial)
	want := core.NewAABB(core.NewVec3(0.5, 1.5, 2.5), core.NewVec3(1.5, 2.5, 3.5))
	if diff := cmp.Diff(want, sphere.BoundingBox()); diff != "" {
		t.Errorf("BoundingBox mismatch (-want +got):\n%s", diff)
	}
}

// randomUnitVector returns a uniformly distributed direction
func randomUnitVector(random *rand.Rand) core.Vec3 {
	for {
		v := core.NewVec3(random.Float64()*2-1, random.Float64()*2-1, random.Float64()*2-1)
		if l := v.LengthSquared(); l > 1e-6 && l <= 1 {
			return v.Normalize()
		}
	}
}
