package cmd

import (
	"bytes"
	"fmt"
	"math/rand"
	"time"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/material"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// BVHReport summarizes a BVH build and a query benchmark against a linear scan
type BVHReport struct {
	Tree       geometry.BVHStats
	BuildTime  time.Duration
	Rays       int
	Hits       int
	Mismatches int
	BVHTime    time.Duration
	LinearTime time.Duration
}

// BVHStats builds a BVH over randomly placed spheres and compares its query
// results and timing with a brute-force scan.
func BVHStats(ctx *cli.Context) error {
	setupLogging(ctx)

	spheres := ctx.Int("spheres")
	rays := ctx.Int("rays")
	if spheres <= 0 || rays <= 0 {
		return fmt.Errorf("spheres and rays must be positive")
	}

	report, err := RunBVHBenchmark(spheres, rays, ctx.Int64("seed"))
	if err != nil {
		return err
	}

	displayBVHReport(report)
	if report.Mismatches > 0 {
		return fmt.Errorf("%d of %d rays disagree with the linear scan", report.Mismatches, report.Rays)
	}
	return nil
}

// RunBVHBenchmark performs the work behind the stats command
func RunBVHBenchmark(spheres, rays int, seed int64) (BVHReport, error) {
	sc := scene.NewRandomSpheresScene(spheres, seed)

	start := time.Now()
	bvh, err := geometry.NewBVH(sc.Shapes, rand.New(rand.NewSource(seed)))
	if err != nil {
		return BVHReport{}, err
	}
	report := BVHReport{Tree: bvh.Stats(), BuildTime: time.Since(start), Rays: rays}

	linear := geometry.NewHittableList(sc.Shapes...)
	testRays := benchmarkRays(bvh.BoundingBox(), rays, rand.New(rand.NewSource(seed+1)))

	bvhHits := make([]float64, len(testRays))
	start = time.Now()
	for i, ray := range testRays {
		hit, ok := bvh.Hit(ray)
		bvhHits[i] = hitDistance(ray, hit, ok)
	}
	report.BVHTime = time.Since(start)

	start = time.Now()
	for i, ray := range testRays {
		hit, ok := linear.Hit(ray)
		want := hitDistance(ray, hit, ok)
		if want >= 0 {
			report.Hits++
		}
		if want != bvhHits[i] {
			report.Mismatches++
		}
	}
	report.LinearTime = time.Since(start)

	return report, nil
}

// benchmarkRays aims rays from points around box at random points inside it
func benchmarkRays(box core.AABB, count int, random *rand.Rand) []core.Ray {
	size := box.Size()
	center := box.Center()
	radius := size.Length()

	rays := make([]core.Ray, count)
	for i := range rays {
		target := box.Min.Add(core.NewVec3(
			random.Float64()*size.X,
			random.Float64()*size.Y,
			random.Float64()*size.Z,
		))
		dir := core.NewVec3(random.NormFloat64(), random.NormFloat64(), random.NormFloat64()).Normalize()
		origin := center.Add(dir.Multiply(radius))
		rays[i] = core.NewRay(origin, target.Subtract(origin).Normalize())
	}
	return rays
}

// hitDistance returns the squared distance from the ray origin to the hit, or
// -1 for a miss
func hitDistance(ray core.Ray, hit *material.HitRecord, ok bool) float64 {
	if !ok {
		return -1
	}
	return hit.DistanceSquared(ray.Origin)
}

func displayBVHReport(report BVHReport) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.AppendBulk([][]string{
		{"Shapes", fmt.Sprintf("%d", report.Tree.Shapes)},
		{"Nodes", fmt.Sprintf("%d", report.Tree.Nodes)},
		{"Leaves", fmt.Sprintf("%d", report.Tree.Leaves)},
		{"Max depth", fmt.Sprintf("%d", report.Tree.MaxDepth)},
		{"Avg leaf depth", fmt.Sprintf("%.2f", report.Tree.AvgDepth)},
		{"Build time", report.BuildTime.String()},
		{"Rays", fmt.Sprintf("%d", report.Rays)},
		{"Hits", fmt.Sprintf("%d", report.Hits)},
		{"BVH query time", report.BVHTime.String()},
		{"Linear query time", report.LinearTime.String()},
		{"Speedup", fmt.Sprintf("%.1fx", speedup(report))},
	})
	table.SetFooter([]string{"Mismatches", fmt.Sprintf("%d", report.Mismatches)})

	table.Render()
	logger.Noticef("BVH statistics\n%s", buf.String())
}

func speedup(report BVHReport) float64 {
	if report.BVHTime <= 0 {
		return 0
	}
	return float64(report.LinearTime) / float64(report.BVHTime)
}
