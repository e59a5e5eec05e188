package renderer

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"sync"
	"time"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/log"
	"golang.org/x/sync/errgroup"
)

var logger = log.New("renderer")

// Renderer renders whole images by spreading tiles over parallel workers
type Renderer struct {
	config    Config
	raytracer *Raytracer
	tiles     *TileRenderer
}

// NewRenderer creates a renderer for a built scene
func NewRenderer(scene Scene, config Config) (*Renderer, error) {
	raytracer, err := NewRaytracer(scene, config)
	if err != nil {
		return nil, err
	}
	camera := NewCamera(config.Width, config.Height, config.FOV)
	return &Renderer{
		config:    config,
		raytracer: raytracer,
		tiles:     NewTileRenderer(raytracer, camera),
	}, nil
}

// Raytracer returns the shading core used by the renderer
func (r *Renderer) Raytracer() *Raytracer {
	return r.raytracer
}

// Render produces the full image. Each tile draws from its own generator
// seeded by Config.Seed and the tile ID, so output does not depend on how
// tiles are scheduled. Cancelling ctx stops the render between tiles.
func (r *Renderer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	start := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, r.config.Width, r.config.Height))
	tiles := NewTileGrid(r.config.Width, r.config.Height, r.config.TileRows)
	workers := r.config.workers()

	stats := RenderStats{Workers: workers}
	var statsMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, tile := range tiles {
		if gctx.Err() != nil {
			break
		}
		tile := tile
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			random := rand.New(rand.NewSource(r.config.Seed + int64(tile.ID)))
			tileStats := r.tiles.RenderTile(tile, img, core.NewRandomSampler(random))

			statsMu.Lock()
			stats.add(tileStats)
			statsMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, stats, fmt.Errorf("render cancelled after %d of %d tiles: %w", stats.Tiles, len(tiles), err)
	}
	// The loop may stop early without any worker observing the cancellation
	if err := ctx.Err(); err != nil {
		return nil, stats, fmt.Errorf("render cancelled after %d of %d tiles: %w", stats.Tiles, len(tiles), err)
	}

	stats.Duration = time.Since(start)
	logger.Infof("rendered %dx%d in %v: %d tiles, %d workers, %d rays",
		r.config.Width, r.config.Height, stats.Duration, stats.Tiles, workers, stats.TotalRays())
	return img, stats, nil
}

// Render is a convenience wrapper that builds a Renderer and renders once
func Render(ctx context.Context, scene Scene, config Config) (*image.RGBA, RenderStats, error) {
	r, err := NewRenderer(scene, config)
	if err != nil {
		return nil, RenderStats{}, err
	}
	return r.Render(ctx)
}
