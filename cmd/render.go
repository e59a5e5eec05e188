package cmd

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-bvh-raytracer/pkg/loaders"
	"github.com/df07/go-bvh-raytracer/pkg/renderer"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// RenderFrame renders a single still frame to a PNG file.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	sceneName := ctx.String("scene")
	seed := ctx.Int64("seed")

	sc, overrides, err := loadScene(sceneName, seed)
	if err != nil {
		return err
	}

	config := renderer.MergeConfig(renderer.DefaultConfig(), renderSettingsToConfig(overrides))
	config = applyFlags(ctx, config)

	if err := buildScene(sc, config); err != nil {
		return fmt.Errorf("failed to prepare scene %q: %w", sceneName, err)
	}

	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	img, stats, err := renderer.Render(renderCtx, sc, config)
	if err != nil {
		return err
	}

	out := ctx.String("out")
	if out == "" {
		out = defaultOutputPath(sceneName)
	}
	if err := renderer.SavePNG(out, img); err != nil {
		return err
	}

	displayRenderStats(config, stats)
	logger.Noticef("render saved as %s", out)
	return nil
}

// loadScene resolves a built-in scene ID or a YAML file path
func loadScene(name string, seed int64) (*scene.Scene, loaders.RenderSettings, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".yaml" || ext == ".yml" {
		return scene.NewYAMLScene(name)
	}

	sc, err := scene.NewBuiltinScene(name, seed)
	if err != nil {
		return nil, loaders.RenderSettings{}, err
	}
	return sc, loaders.RenderSettings{}, nil
}

// buildScene builds the acceleration structure with the merged config's seed
func buildScene(sc *scene.Scene, config renderer.Config) error {
	start := time.Now()
	if err := sc.CreateAccelerationStructure(rand.New(rand.NewSource(config.Seed))); err != nil {
		return err
	}
	logger.Infof("acceleration structure built in %v", time.Since(start))
	return nil
}

// renderSettingsToConfig converts scene file overrides into renderer config
func renderSettingsToConfig(settings loaders.RenderSettings) renderer.Config {
	config := renderer.Config{
		Width:             settings.Width,
		Height:            settings.Height,
		MaxDepth:          settings.MaxDepth,
		MSAA:              settings.MSAA,
		SoftShadowSamples: settings.SoftShadowSamples,
		Seed:              settings.Seed,
	}
	if settings.FOV > 0 {
		config.FOV = renderer.DegreesToRadians(settings.FOV)
	}
	return config
}

// applyFlags overwrites config with every flag the user set, zero values included
func applyFlags(ctx *cli.Context, config renderer.Config) renderer.Config {
	if ctx.IsSet("width") {
		config.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		config.Height = ctx.Int("height")
	}
	if ctx.IsSet("fov") {
		config.FOV = renderer.DegreesToRadians(ctx.Float64("fov"))
	}
	if ctx.IsSet("max-depth") {
		config.MaxDepth = ctx.Int("max-depth")
	}
	if ctx.IsSet("msaa") {
		config.MSAA = ctx.Int("msaa")
	}
	if ctx.IsSet("shadow-samples") {
		config.SoftShadowSamples = ctx.Int("shadow-samples")
	}
	if ctx.IsSet("workers") {
		config.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("seed") {
		config.Seed = ctx.Int64("seed")
	}
	return config
}

// defaultOutputPath returns output/<scene>/render_<timestamp>.png
func defaultOutputPath(sceneName string) string {
	base := strings.TrimSuffix(filepath.Base(sceneName), filepath.Ext(sceneName))
	timestamp := time.Now().Format("20060102_150405")
	return filepath.Join("output", base, fmt.Sprintf("render_%s.png", timestamp))
}

func displayRenderStats(config renderer.Config, stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Resolution", "Tiles", "Workers", "Primary", "Secondary", "Shadow", "Render time"})
	table.Append([]string{
		fmt.Sprintf("%dx%d", config.Width, config.Height),
		fmt.Sprintf("%d", stats.Tiles),
		fmt.Sprintf("%d", stats.Workers),
		fmt.Sprintf("%d", stats.PrimaryRays),
		fmt.Sprintf("%d", stats.SecondaryRays),
		fmt.Sprintf("%d", stats.ShadowRays),
		stats.Duration.String(),
	})
	table.SetFooter([]string{"", "", "", "", "TOTAL RAYS", fmt.Sprintf("%d", stats.TotalRays()), ""})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
