// Package plot renders diagnostic views of QC'd datasets: a PNG chart of the
// flags of every variable and an HTML map of the trajectory.
package plot

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/uferreira/cnv2netcdf/qc/flags"
)

const (
	CHART_WIDTH  = 10 * vg.Inch
	CHART_HEIGHT = 3 * vg.Inch
	CHART_DPI    = 150
)

// File name of the flag chart of `variable`, e.g. "plots/t090c_qc_flags_basic.png"
func ChartPath(dir, variable, suffix string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_qc_flags%s.png", variable, suffix))
}

// Renders the flags against the observation index as a PNG
func FlagChart(variable string, values []flags.Flag, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Observation"
	p.Y.Label.Text = "QC Flag"
	p.Legend.Top = true

	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(values))
	for i, f := range values {
		pts[i].X = float64(i)
		pts[i].Y = float64(f)
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("chart of '%s': %w", variable, err)
	}
	p.Add(line, points)
	p.Legend.Add(variable+" QC Flags", line, points)

	// Add widens the axes to fit the data, the flag range is fixed afterwards
	p.Y.Min, p.Y.Max = -1, 5

	img := vgimg.NewWith(vgimg.UseWH(CHART_WIDTH, CHART_HEIGHT), vgimg.UseDPI(CHART_DPI))
	p.Draw(draw.New(img))

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(file); err != nil {
		return fmt.Errorf("could not write '%s': %w", path, err)
	}
	return file.Close()
}
