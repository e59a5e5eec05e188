package cmd

import (
	"github.com/df07/go-bvh-raytracer/pkg/log"
	"github.com/urfave/cli"
)

var logger = log.New("bvhtrace")

// setupLogging raises verbosity from the global -v and -vv flags
func setupLogging(ctx *cli.Context) {
	verbosity := 0
	if ctx.GlobalBool("v") {
		verbosity = 1
	}
	if ctx.GlobalBool("vv") {
		verbosity = 2
	}
	log.SetLevel(log.ForVerbosity(verbosity))
}
