package main

import (
	"fmt"
	"os"

	"github.com/df07/go-bvh-raytracer/cmd"
	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "bvhtrace"
	app.Usage = "render sphere and plane scenes with a BVH-accelerated Whitted ray tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame to a PNG file",
			Description: `
Build the scene's acceleration structure and render one frame. The scene is
either a built-in scene ID (see the scenes command) or a path to a YAML scene
file. Render settings in a YAML file override the defaults; explicit flags
override both.

Output defaults to output/<scene>/render_<timestamp>.png.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene",
					Value: "default",
					Usage: "built-in scene ID or YAML scene file",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "output PNG path",
				},
				cli.IntFlag{
					Name:  "width",
					Value: 960,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 544,
					Usage: "frame height",
				},
				cli.Float64Flag{
					Name:  "fov",
					Value: 72,
					Usage: "vertical field of view in degrees",
				},
				cli.IntFlag{
					Name:  "max-depth",
					Value: 4,
					Usage: "maximum reflection and refraction depth",
				},
				cli.IntFlag{
					Name:  "msaa",
					Value: 1,
					Usage: "primary rays per pixel",
				},
				cli.IntFlag{
					Name:  "shadow-samples",
					Value: 16,
					Usage: "soft shadow rays per light",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 0,
					Usage: "parallel render workers (0 = number of CPUs)",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 42,
					Usage: "seed for scene generation, BVH construction and sampling",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:  "stats",
			Usage: "build a BVH over random spheres and compare it with a linear scan",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "spheres",
					Value: 10000,
					Usage: "number of spheres",
				},
				cli.IntFlag{
					Name:  "rays",
					Value: 1000,
					Usage: "number of query rays",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "seed for sphere placement, BVH construction and rays",
				},
			},
			Action: cmd.BVHStats,
		},
		{
			Name:  "scenes",
			Usage: "list built-in scenes and YAML scenes",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "dir",
					Value: "scenes",
					Usage: "directory to scan for YAML scene files",
				},
			},
			Action: cmd.ListScenes,
		},
	}
	return app
}
