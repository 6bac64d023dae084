// Package cli contains the mesh2urdf command line interface.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

// Flags.
const (
	FlagRoot             = "root"
	FlagTarget           = "target"
	FlagMeshName         = "mesh_name"
	FlagOutputName       = "output-name"
	FlagConfig           = "config"
	FlagWriteConfig      = "write-config"
	FlagWorkers          = "workers"
	FlagSeed             = "seed"
	FlagRelativeMeshPath = "relative-mesh-path"
	FlagPlot             = "plot"
	FlagDebug            = "debug"
	FlagLogFile          = "log-file"
)

func newApp() *cli.App {
	return &cli.App{
		Name:            "mesh2urdf",
		Usage:           "convert meshes into URDF asset directories with stable resting poses",
		UsageText:       "mesh2urdf --root <dir> --target <dir> --mesh_name <pattern> [other options]",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:     FlagRoot,
				Required: true,
				Usage:    "directory the mesh pattern is matched in",
			},
			&cli.PathFlag{
				Name:     FlagTarget,
				Required: true,
				Usage:    "directory asset directories are written under",
			},
			&cli.StringFlag{
				Name:     FlagMeshName,
				Required: true,
				Usage:    "glob `PATTERN` of the mesh files to convert, relative to the root",
			},
			&cli.StringFlag{
				Name:  FlagOutputName,
				Usage: "file name of the exported mesh, defaults to the name of each source mesh",
			},
			&cli.PathFlag{
				Name:    FlagConfig,
				Aliases: []string{"c"},
				Usage:   "load conversion constants from `FILE`",
			},
			&cli.PathFlag{
				Name:  FlagWriteConfig,
				Usage: "write the effective conversion constants to `FILE`",
			},
			&cli.IntFlag{
				Name:  FlagWorkers,
				Usage: "number of meshes converted at once",
			},
			&cli.Uint64Flag{
				Name:  FlagSeed,
				Usage: "seed of the stable pose sampler, 0 seeds from the clock",
			},
			&cli.BoolFlag{
				Name:  FlagRelativeMeshPath,
				Usage: "reference the mesh by file name only in the URDF",
			},
			&cli.BoolFlag{
				Name:  FlagPlot,
				Usage: "also render the stable pose probabilities as an image",
			},
			&cli.BoolFlag{
				Name:    FlagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.PathFlag{
				Name:  FlagLogFile,
				Usage: "also write logs to `FILE`, rotated as it grows",
			},
		},
		Action: ConvertAction,
	}
}

// NewApp returns a new app with the CLI flags and action.
func NewApp(out, errOut io.Writer) *cli.App {
	app := newApp()
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
