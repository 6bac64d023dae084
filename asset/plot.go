package asset

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// writeProbabilityPlot renders a bar chart of the stable pose probabilities to path. The image
// format follows the extension of path.
func writeProbabilityPlot(path, name string, probs []float64) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s stable poses", name)
	p.X.Label.Text = "pose"
	p.Y.Label.Text = "probability"
	p.Y.Min = 0

	if len(probs) > 0 {
		bars, err := plotter.NewBarChart(plotter.Values(probs), vg.Points(12))
		if err != nil {
			return errors.Wrap(err, "failed to build probability chart")
		}
		p.Add(bars)

		labels := make([]string, len(probs))
		for i := range labels {
			labels[i] = fmt.Sprintf("%d", i)
		}
		p.NominalX(labels...)
	}

	if err := p.Save(4*vg.Inch, 3*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save %q", path)
	}
	return nil
}
