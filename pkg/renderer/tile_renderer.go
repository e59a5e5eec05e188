package renderer

import (
	"image"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// Tile is a band of whole scanlines rendered as one unit of work
type Tile struct {
	ID     int             // Position in the grid; also seeds the tile's generator
	Bounds image.Rectangle // Pixel bounds, Max exclusive
}

// NewTileGrid splits a width x height image into bands of rows scanlines.
// The last band may be shorter.
func NewTileGrid(width, height, rows int) []*Tile {
	if rows <= 0 {
		rows = 1
	}

	tiles := make([]*Tile, 0, (height+rows-1)/rows)
	for y := 0; y < height; y += rows {
		tiles = append(tiles, &Tile{
			ID:     len(tiles),
			Bounds: image.Rect(0, y, width, min(y+rows, height)),
		})
	}
	return tiles
}

// TileRenderer renders the pixels of single tiles into a shared image
type TileRenderer struct {
	raytracer *Raytracer
	camera    *Camera
}

// NewTileRenderer creates a new tile renderer
func NewTileRenderer(raytracer *Raytracer, camera *Camera) *TileRenderer {
	return &TileRenderer{raytracer: raytracer, camera: camera}
}

// RenderTile shades every pixel of tile into img. Tiles never overlap, so
// concurrent calls on distinct tiles may share img.
func (tr *TileRenderer) RenderTile(tile *Tile, img *image.RGBA, sampler core.Sampler) TileStats {
	msaa := tr.raytracer.config.MSAA
	counts := rayCounts{}

	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			colorAccum := core.Vec3{}
			for m := 0; m < msaa; m++ {
				offset := sampleOffset(m, msaa)
				ray := tr.camera.GetRay(x, y, offset, offset)
				counts.primary++
				colorAccum = colorAccum.Add(tr.raytracer.castRay(ray, 0, sampler, &counts))
			}
			img.SetRGBA(x, y, vec3ToColor(colorAccum.Multiply(1.0/float64(msaa))))
		}
	}

	return TileStats{
		Pixels:        tile.Bounds.Dx() * tile.Bounds.Dy(),
		PrimaryRays:   counts.primary,
		SecondaryRays: counts.secondary,
		ShadowRays:    counts.shadow,
	}
}
