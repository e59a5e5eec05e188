package cmd

import (
	"bytes"

	"github.com/df07/go-bvh-raytracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// ListScenes prints the built-in scenes and any YAML scenes found in --dir.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	yamlScenes, err := scene.ListYAMLScenes(ctx.String("dir"))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Name", "Type", "Description"})
	for _, info := range append(scene.ListBuiltinScenes(), yamlScenes...) {
		table.Append([]string{info.ID, info.Name, info.Type, info.Description})
	}

	table.Render()
	logger.Noticef("available scenes\n%s", buf.String())
	return nil
}
