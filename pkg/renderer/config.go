package renderer

import (
	"fmt"
	"math"
	"runtime"
)

// Config contains rendering configuration
type Config struct {
	Width             int     // Image width in pixels
	Height            int     // Image height in pixels
	FOV               float64 // Vertical field of view in radians
	MaxDepth          int     // Deepest reflection/refraction recursion
	MSAA              int     // Primary rays per pixel
	SoftShadowSamples int     // Shadow rays per light
	SoftShadowRange   float64 // Per-component jitter applied to shadow ray directions
	TileRows          int     // Scanlines per work unit
	Workers           int     // Parallel workers (0 = use CPU count)
	Seed              int64   // Base seed for per-tile random generators
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:             960,
		Height:            544,
		FOV:               math.Pi / 2.5,
		MaxDepth:          4,
		MSAA:              1,
		SoftShadowSamples: 16,
		SoftShadowRange:   0.025,
		TileRows:          8,
		Workers:           0,
		Seed:              42,
	}
}

// MergeConfig returns base with every non-zero field of override applied
func MergeConfig(base, override Config) Config {
	merged := base
	if override.Width > 0 {
		merged.Width = override.Width
	}
	if override.Height > 0 {
		merged.Height = override.Height
	}
	if override.FOV > 0 {
		merged.FOV = override.FOV
	}
	if override.MaxDepth > 0 {
		merged.MaxDepth = override.MaxDepth
	}
	if override.MSAA > 0 {
		merged.MSAA = override.MSAA
	}
	if override.SoftShadowSamples > 0 {
		merged.SoftShadowSamples = override.SoftShadowSamples
	}
	if override.SoftShadowRange > 0 {
		merged.SoftShadowRange = override.SoftShadowRange
	}
	if override.TileRows > 0 {
		merged.TileRows = override.TileRows
	}
	if override.Workers > 0 {
		merged.Workers = override.Workers
	}
	if override.Seed != 0 {
		merged.Seed = override.Seed
	}
	return merged
}

// DegreesToRadians converts a field of view given in degrees
func DegreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// workers returns the effective worker count
func (c Config) workers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// validate rejects configurations that cannot produce an image
func (c Config) validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("image size must be positive, got %dx%d", c.Width, c.Height)
	case !(c.FOV > 0 && c.FOV < math.Pi):
		return fmt.Errorf("field of view must be in (0, π) radians, got %v", c.FOV)
	case c.MSAA <= 0:
		return fmt.Errorf("msaa must be at least 1, got %d", c.MSAA)
	case c.MaxDepth < 0 || c.SoftShadowSamples < 0:
		return fmt.Errorf("max depth and soft shadow samples must not be negative")
	}
	return nil
}
