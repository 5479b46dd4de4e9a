package zipf

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var ErrNothingToPlot = errors.New("zipf: no positive points to plot")

type PlotOptions struct {
	// Width and Height in inches.
	Width  float64
	Height float64
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 6.4, Height: 4.8}
}

// Plot renders the observations and the fitted curve on log-log axes and saves the
// image to path; the format follows the file extension. Values that are not positive
// cannot be placed on a log axis and are left out.
func Plot(points []Point, params Params, path string, opts PlotOptions) error {
	data := make(plotter.XYs, 0, len(points))
	fitted := make(plotter.XYs, 0, len(points))
	for _, pt := range points {
		if pt.Rank > 0 && pt.Frequency > 0 {
			data = append(data, plotter.XY{X: pt.Rank, Y: pt.Frequency})
		}
		if v := params.Eval(pt.Rank); pt.Rank > 0 && v > 0 {
			fitted = append(fitted, plotter.XY{X: pt.Rank, Y: v})
		}
	}
	if len(data) == 0 {
		return ErrNothingToPlot
	}

	p := plot.New()
	p.Title.Text = "Zipf's Law Fitting"
	p.X.Label.Text = "Rank"
	p.Y.Label.Text = "Frequency"
	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Legend.Top = true

	scatter, err := plotter.NewScatter(data)
	if err != nil {
		return fmt.Errorf("failed to build scatter: %w", err)
	}
	p.Add(scatter)
	p.Legend.Add("Data", scatter)

	if len(fitted) > 0 {
		line, err := plotter.NewLine(fitted)
		if err != nil {
			return fmt.Errorf("failed to build fitted line: %w", err)
		}
		line.Color = color.RGBA{R: 255, A: 255}
		p.Add(line)
		p.Legend.Add("Fitted power law", line)
	}

	if err := p.Save(vg.Length(opts.Width)*vg.Inch, vg.Length(opts.Height)*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}
