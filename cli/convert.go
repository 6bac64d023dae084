package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.viam.com/utils"

	"go.viam.com/meshasset/asset"
	"go.viam.com/meshasset/config"
	"go.viam.com/meshasset/logging"
)

// ConvertAction converts every mesh matching the mesh name pattern and prints a summary.
func ConvertAction(c *cli.Context) error {
	logger := newLogger(c)
	defer utils.UncheckedErrorFunc(logger.Sync)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if msg := cfg.UnitWarning(); msg != "" {
		logger.Warnw(msg, "pose_translation_scale", cfg.PoseTranslationScale)
	}
	if path := c.Path(FlagWriteConfig); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			return err
		}
		logger.Debugw("wrote config", "path", path)
	}

	converter := asset.NewConverter(cfg, logger, c.Path(FlagTarget), c.String(FlagOutputName))
	results, err := converter.ConvertAll(c.Context, c.Path(FlagRoot), c.String(FlagMeshName))
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", summaryTable(results))
	return nil
}

func newLogger(c *cli.Context) logging.Logger {
	logger := logging.NewBlankLogger("mesh2urdf")
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	if path := c.Path(FlagLogFile); path != "" {
		logger.AddAppender(logging.NewFileAppender(path))
	}
	if !c.Bool(FlagDebug) {
		logger.SetLevel(logging.INFO)
	}
	return logger
}

// loadConfig reads the config file, if any, and applies the flags that override it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.Path(FlagConfig)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if c.IsSet(FlagWorkers) {
		cfg.Workers = c.Int(FlagWorkers)
	}
	if c.IsSet(FlagSeed) {
		cfg.Seed = c.Uint64(FlagSeed)
	}
	if c.IsSet(FlagRelativeMeshPath) {
		cfg.RelativeMeshPath = c.Bool(FlagRelativeMeshPath)
	}
	if c.IsSet(FlagPlot) {
		cfg.PlotPoses = c.Bool(FlagPlot)
	}
	if err := cfg.Validate(path); err != nil {
		return nil, errors.Wrap(err, "invalid flags")
	}
	return cfg, nil
}

func summaryTable(results []*asset.Result) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Name", "Scale", "Inverted", "Watertight", "Mass (kg)", "Poses", "Top pose", "Output"})
	for i, res := range results {
		t.AppendRow(table.Row{
			i + 1,
			res.Name,
			fmt.Sprintf("%.4g", res.Normalize.Scale),
			res.Normalize.Inverted,
			res.Watertight,
			fmt.Sprintf("%.4g", res.Normalize.Mass),
			res.NumPoses(),
			topPose(res.Probabilities),
			res.OutputDir,
		})
	}
	return t.Render()
}

// topPose formats the probability of the likeliest resting pose.
func topPose(probs []float64) string {
	top, err := stats.Max(probs)
	if err != nil {
		return "-"
	}
	return fmt.Sprintf("%.3f", top)
}

// printf prints a message with no decoration, ending in a newline.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}
