package geometry

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/material"
	"github.com/google/go-cmp/cmp"
)

// MockShape for testing
type MockShape struct {
	boundingBox core.AABB
	hitFn       func(ray core.Ray) (*material.HitRecord, bool)
}

func (m MockShape) Hit(ray core.Ray) (*material.HitRecord, bool) {
	return m.hitFn(ray)
}

func (m MockShape) BoundingBox() core.AABB {
	return m.boundingBox
}

func neverHit(core.Ray) (*material.HitRecord, bool) { return nil, false }

// taggedMaterial returns a material identifiable by its diffuse coefficient
func taggedMaterial(tag float64) material.Material {
	return material.Material{Diffuse: tag, SpecularExponent: 10}
}

// randomSpheres places count non-overlapping spheres, one per cell of a cubic
// grid with the given cell size, each jittered inside its cell
func randomSpheres(count int, cellSize float64, random *rand.Rand) []Shape {
	side := int(math.Ceil(math.Cbrt(float64(count))))
	shapes := make([]Shape, 0, count)
	for i := 0; i < count; i++ {
		x, y, z := i%side, (i/side)%side, i/(side*side)
		radius := cellSize * (0.1 + 0.3*random.Float64())
		slack := cellSize/2 - radius
		center := core.NewVec3(
			(float64(x)+0.5)*cellSize+(random.Float64()*2-1)*slack,
			(float64(y)+0.5)*cellSize+(random.Float64()*2-1)*slack,
			(float64(z)+0.5)*cellSize+(random.Float64()*2-1)*slack,
		)
		shapes = append(shapes, NewSphere(center, radius, taggedMaterial(float64(i))))
	}
	return shapes
}

// randomRays aims rays from outside the scene box at random points inside it,
// with a share of rays pointing away to exercise misses
func randomRays(count int, box core.AABB, random *rand.Rand) []core.Ray {
	center := box.Center()
	radius := box.Size().Length()
	rays := make([]core.Ray, 0, count)
	for i := 0; i < count; i++ {
		origin := center.Add(randomUnitVector(random).Multiply(radius))
		target := core.NewVec3(
			box.Min.X+random.Float64()*(box.Max.X-box.Min.X),
			box.Min.Y+random.Float64()*(box.Max.Y-box.Min.Y),
			box.Min.Z+random.Float64()*(box.Max.Z-box.Min.Z),
		)
		direction := target.Subtract(origin).Normalize()
		if i%10 == 0 {
			direction = direction.Negate()
		}
		rays = append(rays, core.NewRay(origin, direction))
	}
	return rays
}

func TestBVH_EmptyIsError(t *testing.T) {
	bvh, err := NewBVH(nil, nil)
	if !errors.Is(err, core.ErrEmptyScene) {
		t.Fatalf("Expected ErrEmptyScene, got %v", err)
	}
	if bvh != nil {
		t.Error("Expected nil BVH on error")
	}
}

func TestBVH_RejectsUnboundedShape(t *testing.T) {
	shapes := []Shape{
		NewSphere(core.NewVec3(0, 0, 0), 1, testMaterial),
		NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), testMaterial),
	}
	if _, err := NewBVH(shapes, nil); !errors.Is(err, core.ErrUnboundedShape) {
		t.Fatalf("Expected ErrUnboundedShape, got %v", err)
	}
}

func TestBVH_RejectsInvertedBox(t *testing.T) {
	shapes := []Shape{
		NewSphere(core.NewVec3(0, 0, 0), 1, testMaterial),
		MockShape{boundingBox: core.NewAABB(core.NewVec3(1, 1, 1), core.NewVec3(0, 0, 0)), hitFn: neverHit},
	}
	bvh, err := NewBVH(shapes, nil)
	if err == nil {
		t.Fatal("Expected an error for a box with min > max")
	}
	if bvh != nil {
		t.Error("Expected nil BVH on error")
	}
}

func TestBVH_StrictBinaryTree(t *testing.T) {
	random := rand.New(rand.NewSource(11))

	for _, count := range []int{1, 2, 3, 4, 5, 17, 64, 1000} {
		shapes := randomSpheres(count, 2, random)
		bvh, err := NewBVH(shapes, random)
		if err != nil {
			t.Fatalf("NewBVH(%d): %v", count, err)
		}

		stats := bvh.Stats()
		if stats.Leaves != count {
			t.Errorf("%d shapes: expected %d leaves, got %d", count, count, stats.Leaves)
		}
		if stats.Nodes != 2*count-1 {
			t.Errorf("%d shapes: expected %d nodes, got %d", count, 2*count-1, stats.Nodes)
		}
		if len(bvh.nodes) != stats.Nodes {
			t.Errorf("%d shapes: arena holds %d nodes, walk found %d", count, len(bvh.nodes), stats.Nodes)
		}
		// Median splits keep the tree within one level of perfectly balanced
		if limit := int(math.Ceil(math.Log2(float64(count)))); stats.MaxDepth > limit {
			t.Errorf("%d shapes: max depth %d exceeds %d", count, stats.MaxDepth, limit)
		}
	}
}

func TestBVH_NodeBoxesEncloseChildren(t *testing.T) {
	random := rand.New(rand.NewSource(5))
	bvh, err := NewBVH(randomSpheres(300, 3, random), random)
	if err != nil {
		t.Fatal(err)
	}

	for i, node := range bvh.nodes {
		if node.isLeaf() {
			if diff := cmp.Diff(bvh.shapes[node.shape].BoundingBox(), node.box); diff != "" {
				t.Fatalf("Leaf %d box differs from shape box (-want +got):\n%s", i, diff)
			}
			continue
		}
		left, right := bvh.nodes[node.left].box, bvh.nodes[node.right].box
		if diff := cmp.Diff(core.SurroundingBox(left, right), node.box); diff != "" {
			t.Fatalf("Node %d box is not the union of its children (-want +got):\n%s", i, diff)
		}
	}
}

func TestBVH_TwoShapesOrderedByAxis(t *testing.T) {
	a := NewSphere(core.NewVec3(5, 5, 5), 1, taggedMaterial(1))
	b := NewSphere(core.NewVec3(0, 0, 0), 1, taggedMaterial(2))

	bvh, err := NewBVH([]Shape{a, b}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}

	// b has the smaller minimum on every axis, so it always ends up left
	leaves := bvh.Leaves()
	if leaves[0] != Shape(b) || leaves[1] != Shape(a) {
		t.Errorf("Expected leaves ordered [b, a], got %v", leaves)
	}
	if len(bvh.nodes) != 3 {
		t.Errorf("Expected root plus two leaves, got %d nodes", len(bvh.nodes))
	}
}

func TestBVH_DoesNotModifyInput(t *testing.T) {
	random := rand.New(rand.NewSource(9))
	shapes := randomSpheres(50, 2, random)
	original := append([]Shape(nil), shapes...)

	if _, err := NewBVH(shapes, random); err != nil {
		t.Fatal(err)
	}
	for i := range shapes {
		if shapes[i] != original[i] {
			t.Fatalf("Input slice reordered at index %d", i)
		}
	}
}

func TestBVH_SingleSphere(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1, testMaterial)
	bvh, err := NewBVH([]Shape{sphere}, nil)
	if err != nil {
		t.Fatal(err)
	}

	hit, isHit := bvh.Hit(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)))
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if diff := cmp.Diff(core.NewVec3(0, 0, 1), hit.Point); diff != "" {
		t.Errorf("Point mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(core.NewVec3(0, 0, 1), hit.Normal); diff != "" {
		t.Errorf("Normal mismatch (-want +got):\n%s", diff)
	}
}

func TestBVH_NearestOfOverlappingShapes(t *testing.T) {
	// Overlapping spheres along one ray: the smaller positive t wins
	shapes := []Shape{
		NewSphere(core.NewVec3(0, 0, -6), 2, taggedMaterial(1)),
		NewSphere(core.NewVec3(0, 0, -4), 1.5, taggedMaterial(2)),
		NewSphere(core.NewVec3(0, 0, -9), 3, taggedMaterial(3)),
	}
	bvh, err := NewBVH(shapes, nil)
	if err != nil {
		t.Fatal(err)
	}

	hit, isHit := bvh.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)))
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if hit.Material.Diffuse != 2 {
		t.Errorf("Expected sphere 2 (t=2.5), got material tag %f at t=%f", hit.Material.Diffuse, hit.T)
	}
	if math.Abs(hit.T-2.5) > 1e-9 {
		t.Errorf("Expected t=2.5, got %f", hit.T)
	}
}

func TestBVH_RayHitsBoundingBoxButMissesShapes(t *testing.T) {
	shapes := []Shape{
		MockShape{boundingBox: core.NewAABB(core.NewVec3(0, 0, 0), core.NewVec3(2, 2, 2)), hitFn: neverHit},
		MockShape{boundingBox: core.NewAABB(core.NewVec3(3, 0, 0), core.NewVec3(4, 2, 2)), hitFn: neverHit},
		MockShape{boundingBox: core.NewAABB(core.NewVec3(5, 0, 0), core.NewVec3(6, 2, 2)), hitFn: neverHit},
	}
	bvh, err := NewBVH(shapes, nil)
	if err != nil {
		t.Fatal(err)
	}

	hit, isHit := bvh.Hit(core.NewRay(core.NewVec3(-1, 1, 1), core.NewVec3(1, 0, 0)))
	if isHit || hit != nil {
		t.Error("Expected miss when ray hits bounding boxes but misses shapes")
	}
}

func TestBVH_MissedRootVisitsOneNode(t *testing.T) {
	random := rand.New(rand.NewSource(21))
	shapes := randomSpheres(10000, 2, random)
	bvh, err := NewBVH(shapes, random)
	if err != nil {
		t.Fatal(err)
	}

	box := bvh.BoundingBox()
	origin := box.Max.Add(core.Splat(10))
	ray := core.NewRay(origin, core.NewVec3(1, 1, 1).Normalize())

	visits := 0
	if hit := bvh.hitNode(0, ray, &visits); hit != nil {
		t.Fatalf("Expected miss, got hit at %v", hit.Point)
	}
	if visits != 1 {
		t.Errorf("Expected a single node visit for a ray missing the root box, got %d", visits)
	}

	// Brute force touches every shape for the same answer
	if _, isHit := NewHittableList(shapes...).Hit(ray); isHit {
		t.Error("Expected brute force to miss as well")
	}
}

func TestBVH_PrunesMostNodesForSingleHit(t *testing.T) {
	random := rand.New(rand.NewSource(8))
	shapes := randomSpheres(4096, 2, random)
	bvh, err := NewBVH(shapes, random)
	if err != nil {
		t.Fatal(err)
	}

	// Axis-aligned ray through the first grid column only
	target := shapes[0].(*Sphere).Center
	ray := core.NewRay(core.NewVec3(target.X, target.Y, -100), core.NewVec3(0, 0, 1))

	visits := 0
	hit := bvh.hitNode(0, ray, &visits)
	if hit == nil {
		t.Fatal("Expected hit, but got miss")
	}
	if visits >= len(bvh.nodes)/4 {
		t.Errorf("Expected pruning to skip most of %d nodes, visited %d", len(bvh.nodes), visits)
	}
}

// Matches brute force exactly over many random rays and a large scene
func TestBVH_MatchesBruteForce(t *testing.T) {
	sphereCount, rayCount := 10000, 1000
	if testing.Short() {
		sphereCount, rayCount = 1000, 200
	}

	random := rand.New(rand.NewSource(42))
	shapes := randomSpheres(sphereCount, 2, random)
	bvh, err := NewBVH(shapes, random)
	if err != nil {
		t.Fatal(err)
	}
	list := NewHittableList(shapes...)

	hits := 0
	for i, ray := range randomRays(rayCount, bvh.BoundingBox(), random) {
		want, _ := list.Hit(ray)
		got, _ := bvh.Hit(ray)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("Ray %d %v: BVH and brute force disagree (-brute +bvh):\n%s", i, ray, diff)
		}
		if got != nil {
			hits++
		}
	}

	if hits == 0 {
		t.Error("Expected at least some rays to hit")
	}
}

func TestBVH_RebuildIsEquivalent(t *testing.T) {
	random := rand.New(rand.NewSource(77))
	shapes := randomSpheres(500, 2, random)
	random.Shuffle(len(shapes), func(i, j int) { shapes[i], shapes[j] = shapes[j], shapes[i] })

	first, err := NewBVH(shapes, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewBVH(shapes, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatal(err)
	}

	// Same multiset of leaves
	counts := make(map[Shape]int)
	for _, shape := range first.Leaves() {
		counts[shape]++
	}
	for _, shape := range second.Leaves() {
		counts[shape]--
	}
	for shape, n := range counts {
		if n != 0 {
			t.Fatalf("Leaf multisets differ for %v", shape)
		}
	}

	for i, ray := range randomRays(300, first.BoundingBox(), random) {
		a, _ := first.Hit(ray)
		b, _ := second.Hit(ray)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Fatalf("Ray %d: rebuilt trees disagree (-first +second):\n%s", i, diff)
		}
	}
}

func TestBVH_SameSeedSameTree(t *testing.T) {
	shapes := randomSpheres(200, 2, rand.New(rand.NewSource(4)))

	first, err := NewBVH(shapes, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewBVH(shapes, nil)
	if err != nil {
		t.Fatal(err)
	}

	opt := cmp.AllowUnexported(bvhNode{})
	if diff := cmp.Diff(first.nodes, second.nodes, opt); diff != "" {
		t.Errorf("Default-seeded builds differ (-first +second):\n%s", diff)
	}
}

func TestBVH_ConcurrentQueries(t *testing.T) {
	random := rand.New(rand.NewSource(13))
	shapes := randomSpheres(2000, 2, random)
	bvh, err := NewBVH(shapes, random)
	if err != nil {
		t.Fatal(err)
	}
	rays := randomRays(400, bvh.BoundingBox(), random)

	expected := make([]*material.HitRecord, len(rays))
	for i, ray := range rays {
		expected[i], _ = bvh.Hit(ray)
	}

	done := make(chan error, 4)
	for w := 0; w < 4; w++ {
		go func() {
			for i, ray := range rays {
				got, _ := bvh.Hit(ray)
				if !cmp.Equal(expected[i], got) {
					done <- errors.New("concurrent query result differs")
					return
				}
			}
			done <- nil
		}()
	}
	for w := 0; w < 4; w++ {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}

func TestBVH_StatsCollection(t *testing.T) {
	shapes := make([]Shape, 20)
	for i := 0; i < 20; i++ {
		shapes[i] = MockShape{
			boundingBox: core.NewAABB(core.NewVec3(float64(i), 0, 0), core.NewVec3(float64(i)+1, 1, 1)),
			hitFn:       neverHit,
		}
	}

	bvh, err := NewBVH(shapes, nil)
	if err != nil {
		t.Fatal(err)
	}
	stats := bvh.Stats()

	if stats.Shapes != 20 {
		t.Errorf("Expected 20 total shapes, got %d", stats.Shapes)
	}
	if stats.MaxDepth == 0 {
		t.Error("Expected max depth > 0 for 20 shapes")
	}
	if stats.AvgDepth <= 0 || stats.AvgDepth > float64(stats.MaxDepth) {
		t.Errorf("Average depth %f out of range (0, %d]", stats.AvgDepth, stats.MaxDepth)
	}
	if bvh.Len() != 20 {
		t.Errorf("Expected Len() 20, got %d", bvh.Len())
	}
}
