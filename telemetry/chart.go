package telemetry

import (
	"errors"
	"fmt"
	"image/color"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Chart line colours, shared with the on-screen chart.
var (
	BestColor = colornames.Yellow
	AvgColor  = color.RGBA{R: 0, G: 180, B: 255, A: 255}
)

// ErrEmptyHistory is returned when there is nothing to plot.
var ErrEmptyHistory = errors.New("no generations recorded")

// WriteFitnessChart plots best and average fitness per generation to a PNG
// (or any format gonum/plot infers from the path's extension).
func WriteFitnessChart(h *History, path string, widthIn, heightIn float64) error {
	if h.Len() == 0 {
		return ErrEmptyHistory
	}
	if widthIn <= 0 {
		widthIn = 6
	}
	if heightIn <= 0 {
		heightIn = 4
	}

	p := plot.New()
	p.Title.Text = "Fitness by generation"
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Fitness"

	entries := h.Entries()
	bestPts := make(plotter.XYs, len(entries))
	avgPts := make(plotter.XYs, len(entries))
	for i, e := range entries {
		bestPts[i].X = float64(e.Generation)
		bestPts[i].Y = e.Best
		avgPts[i].X = float64(e.Generation)
		avgPts[i].Y = e.Avg
	}

	bestLine, err := plotter.NewLine(bestPts)
	if err != nil {
		return fmt.Errorf("best line: %w", err)
	}
	bestLine.Color = BestColor
	avgLine, err := plotter.NewLine(avgPts)
	if err != nil {
		return fmt.Errorf("avg line: %w", err)
	}
	avgLine.Color = AvgColor

	p.Add(plotter.NewGrid(), bestLine, avgLine)
	p.Legend.Add("best", bestLine)
	p.Legend.Add("avg", avgLine)
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch, path); err != nil {
		return fmt.Errorf("saving chart: %w", err)
	}
	return nil
}
