package renderer

import "time"

// TileStats counts the work done for one tile
type TileStats struct {
	Pixels        int // Pixels shaded
	PrimaryRays   int // Camera rays
	SecondaryRays int // Reflected and refracted rays
	ShadowRays    int // Soft shadow probes
}

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TileStats
	Tiles    int           // Tiles rendered
	Workers  int           // Workers used
	Duration time.Duration // Wall-clock render time
}

// TotalRays returns every ray cast during the render
func (s RenderStats) TotalRays() int {
	return s.PrimaryRays + s.SecondaryRays + s.ShadowRays
}

// add folds one tile's counts into the totals
func (s *RenderStats) add(tile TileStats) {
	s.Pixels += tile.Pixels
	s.PrimaryRays += tile.PrimaryRays
	s.SecondaryRays += tile.SecondaryRays
	s.ShadowRays += tile.ShadowRays
	s.Tiles++
}
