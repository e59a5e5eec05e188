package geometry

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/log"
	"github.com/df07/go-bvh-raytracer/pkg/material"
)

// DefaultBVHSeed seeds the split-axis generator when the caller supplies none
const DefaultBVHSeed = 1

// noIndex marks an absent child or shape index
const noIndex int32 = -1

var logger = log.New("bvh")

// bvhNode is one entry in the BVH node arena. Internal nodes reference two
// children by index; leaves reference exactly one shape.
type bvhNode struct {
	box   core.AABB
	left  int32
	right int32
	shape int32
}

func (n *bvhNode) isLeaf() bool {
	return n.shape != noIndex
}

// BVH is a Bounding Volume Hierarchy over bounded shapes. It is built once and
// never mutated, so any number of goroutines may query it concurrently.
type BVH struct {
	nodes  []bvhNode // nodes[0] is the root
	shapes []Shape   // private copy, reordered during the build
}

// NewBVH constructs a BVH from a slice of shapes.
//
// Each split sorts its shapes by bounding-box minimum along an axis drawn from
// random and cuts the list in half. A nil random uses DefaultBVHSeed, so
// builds are reproducible. The input slice is not modified.
func NewBVH(shapes []Shape, random *rand.Rand) (*BVH, error) {
	if len(shapes) == 0 {
		return nil, core.ErrEmptyScene
	}
	if random == nil {
		random = rand.New(rand.NewSource(DefaultBVHSeed))
	}

	b := &bvhBuilder{
		shapes: make([]Shape, len(shapes)),
		boxes:  make([]core.AABB, len(shapes)),
		nodes:  make([]bvhNode, 0, 2*len(shapes)-1),
		random: random,
	}
	copy(b.shapes, shapes)
	for i, shape := range b.shapes {
		box := shape.BoundingBox()
		if !box.IsBounded() {
			return nil, fmt.Errorf("shape %d (%T): %w", i, shape, core.ErrUnboundedShape)
		}
		if !box.IsValid() {
			return nil, fmt.Errorf("shape %d (%T): inverted bounding box %v", i, shape, box)
		}
		b.boxes[i] = box
	}

	start := time.Now()
	b.build(0, len(b.shapes))
	bvh := &BVH{nodes: b.nodes, shapes: b.shapes}

	if log.IsEnabled(log.Debug, "bvh") {
		stats := bvh.Stats()
		logger.Debugf("BVH build time: %v, shapes: %d, nodes: %d, maxDepth: %d, avgDepth: %.2f",
			time.Since(start), stats.Shapes, stats.Nodes, stats.MaxDepth, stats.AvgDepth)
	}

	return bvh, nil
}

type bvhBuilder struct {
	shapes []Shape
	boxes  []core.AABB // boxes[i] is shapes[i].BoundingBox(), kept in step while sorting
	nodes  []bvhNode
	random *rand.Rand
}

// build creates the subtree over shapes[lo:hi] and returns its node index
func (b *bvhBuilder) build(lo, hi int) int32 {
	index := int32(len(b.nodes))
	b.nodes = append(b.nodes, bvhNode{left: noIndex, right: noIndex, shape: noIndex})

	count := hi - lo
	if count == 1 {
		b.nodes[index] = b.leafNode(lo)
		return index
	}

	axis := b.random.Intn(3)

	var left, right int32
	if count == 2 {
		// Two shapes become two leaves directly
		if b.boxes[lo+1].Min.Axis(axis) < b.boxes[lo].Min.Axis(axis) {
			b.swap(lo, lo+1)
		}
		left = b.appendLeaf(lo)
		right = b.appendLeaf(lo + 1)
	} else {
		sortShapesByAxis(b, lo, hi, axis)
		mid := lo + count/2
		left = b.build(lo, mid)
		right = b.build(mid, hi)
	}

	b.nodes[index] = bvhNode{
		box:   core.SurroundingBox(b.nodes[left].box, b.nodes[right].box),
		left:  left,
		right: right,
		shape: noIndex,
	}
	return index
}

func (b *bvhBuilder) leafNode(i int) bvhNode {
	return bvhNode{box: b.boxes[i], left: noIndex, right: noIndex, shape: int32(i)}
}

func (b *bvhBuilder) appendLeaf(i int) int32 {
	b.nodes = append(b.nodes, b.leafNode(i))
	return int32(len(b.nodes) - 1)
}

func (b *bvhBuilder) swap(i, j int) {
	b.shapes[i], b.shapes[j] = b.shapes[j], b.shapes[i]
	b.boxes[i], b.boxes[j] = b.boxes[j], b.boxes[i]
}

// axisOrder sorts a builder range by bounding-box minimum along one axis
type axisOrder struct {
	b      *bvhBuilder
	offset int
	count  int
	axis   int
}

func (o axisOrder) Len() int { return o.count }
func (o axisOrder) Less(i, j int) bool {
	return o.b.boxes[o.offset+i].Min.Axis(o.axis) < o.b.boxes[o.offset+j].Min.Axis(o.axis)
}
func (o axisOrder) Swap(i, j int) { o.b.swap(o.offset+i, o.offset+j) }

// sortShapesByAxis sorts shapes[lo:hi] by their bounding box minimum along the
// specified axis. Ties keep whatever order the sort leaves them in.
func sortShapesByAxis(b *bvhBuilder, lo, hi, axis int) {
	sort.Sort(axisOrder{b: b, offset: lo, count: hi - lo, axis: axis})
}

// Hit returns the hit nearest to the ray origin, if any
func (bvh *BVH) Hit(ray core.Ray) (*material.HitRecord, bool) {
	hit := bvh.hitNode(0, ray, nil)
	return hit, hit != nil
}

// hitNode recursively tests ray intersection with BVH nodes. Both children of
// a node whose box is hit are always visited; the nearer hit wins. When visits
// is non-nil it counts every node examined.
func (bvh *BVH) hitNode(index int32, ray core.Ray, visits *int) *material.HitRecord {
	if visits != nil {
		*visits++
	}
	node := &bvh.nodes[index]

	if node.isLeaf() {
		hit, _ := bvh.shapes[node.shape].Hit(ray)
		return hit
	}

	if !node.box.Hit(ray) {
		return nil
	}

	leftHit := bvh.hitNode(node.left, ray, visits)
	rightHit := bvh.hitNode(node.right, ray, visits)
	return material.Nearer(ray.Origin, leftHit, rightHit)
}

// BoundingBox returns the overall bounding box of the BVH
func (bvh *BVH) BoundingBox() core.AABB {
	return bvh.nodes[0].box
}

// Len returns the number of shapes in the BVH
func (bvh *BVH) Len() int {
	return len(bvh.shapes)
}

// Leaves returns the shapes in left-to-right leaf order
func (bvh *BVH) Leaves() []Shape {
	leaves := make([]Shape, 0, len(bvh.shapes))
	var walk func(index int32)
	walk = func(index int32) {
		node := &bvh.nodes[index]
		if node.isLeaf() {
			leaves = append(leaves, bvh.shapes[node.shape])
			return
		}
		walk(node.left)
		walk(node.right)
	}
	walk(0)
	return leaves
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	Nodes    int     // Total nodes, internal and leaf
	Leaves   int     // Leaf nodes; always equal to Shapes
	MaxDepth int     // Depth of the deepest leaf; the root is depth 0
	AvgDepth float64 // Mean leaf depth
	Shapes   int     // Shapes referenced by leaves
}

// Stats returns statistics about the BVH structure
func (bvh *BVH) Stats() BVHStats {
	stats := BVHStats{}
	bvh.collectStats(0, 0, &stats)

	if stats.Leaves > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.Leaves)
	}
	return stats
}

// collectStats recursively collects statistics about the BVH
func (bvh *BVH) collectStats(index int32, depth int, stats *BVHStats) {
	stats.Nodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	node := &bvh.nodes[index]
	if node.isLeaf() {
		stats.Leaves++
		stats.Shapes++
		stats.AvgDepth += float64(depth) // averaged in Stats
		return
	}
	bvh.collectStats(node.left, depth+1, stats)
	bvh.collectStats(node.right, depth+1, stats)
}
