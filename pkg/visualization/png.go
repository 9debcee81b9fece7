package visualization

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"mrisim/internal/models"
)

// PNGSink writes figures as PNG files and scores as plain text under Dir
type PNGSink struct {
	// Dir is the output directory, created on first write
	Dir string

	// DPI is the resolution of rendered figures
	DPI int

	// RasterScale enlarges raw rasters by an integer factor
	RasterScale int
}

// NewPNGSink creates a sink writing into dir at the given resolution
func NewPNGSink(dir string, dpi int) *PNGSink {
	return &PNGSink{Dir: dir, DPI: dpi, RasterScale: 2}
}

// Images renders the panels of fig into one tiled PNG
func (s *PNGSink) Images(name string, fig ImageFigure) error {
	n := len(fig.Panels)
	if n == 0 {
		return fmt.Errorf("figure %s has no panels", name)
	}

	cols := fig.Cols
	if cols <= 0 || cols > n {
		cols = n
	}
	rows := (n + cols - 1) / cols

	plots := make([][]*plot.Plot, rows)
	for j := range plots {
		plots[j] = make([]*plot.Plot, cols)
	}

	for i, panel := range fig.Panels {
		p := plot.New()
		p.Title.Text = panel.Title
		p.HideAxes()

		r, c := panel.Data.Dims()
		p.Add(plotter.NewImage(ToGray(panel.Data), 0, 0, float64(c), float64(r)))
		plots[i/cols][i%cols] = p
	}

	canvas := s.canvas(fig.Width, fig.Height)
	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      cols,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    vg.Points(2),
		PadBottom: vg.Points(2),
		PadLeft:   vg.Points(2),
		PadRight:  vg.Points(2),
	}

	canvases := plot.Align(plots, tiles, draw.New(canvas))
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			if plots[j][i] != nil {
				plots[j][i].Draw(canvases[j][i])
			}
		}
	}

	return s.writeCanvas(name, canvas)
}

// Chart renders a line chart with point markers and a grid
func (s *PNGSink) Chart(name string, chart Chart) error {
	p := plot.New()
	p.Title.Text = chart.Title
	p.X.Label.Text = chart.XLabel
	p.Y.Label.Text = chart.YLabel
	p.Add(plotter.NewGrid())

	for i, series := range chart.Series {
		if len(series.X) != len(series.Y) {
			return fmt.Errorf("series %q has %d x values and %d y values", series.Label, len(series.X), len(series.Y))
		}

		xys := make(plotter.XYs, len(series.X))
		for k := range series.X {
			xys[k].X = series.X[k]
			xys[k].Y = series.Y[k]
		}

		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return fmt.Errorf("series %q: %w", series.Label, err)
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(0)

		p.Add(line, points)
		if chart.Legend {
			p.Legend.Add(series.Label, line, points)
		}
	}

	canvas := s.canvas(chart.Width, chart.Height)
	p.Draw(draw.New(canvas))
	return s.writeCanvas(name, canvas)
}

// Scores writes one "<label>: <value>" line per score
func (s *PNGSink) Scores(name string, scores []models.Score) (err error) {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeFile(file, &err)

	w := bufio.NewWriter(file)
	for _, score := range scores {
		fmt.Fprintf(w, "%s: %s\n", score.Label, strconv.FormatFloat(score.Value, 'g', -1, 64))
	}
	return w.Flush()
}

// Raster writes data as an enlarged grayscale PNG
func (s *PNGSink) Raster(name string, data mat.Matrix) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	return SaveRaster(data, s.RasterScale, path)
}

func (s *PNGSink) canvas(width, height float64) *vgimg.Canvas {
	return vgimg.NewWith(
		vgimg.UseWH(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch),
		vgimg.UseDPI(s.DPI),
	)
}

func (s *PNGSink) writeCanvas(name string, canvas *vgimg.Canvas) (err error) {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeFile(file, &err)

	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(file); err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return nil
}

// path resolves name under Dir and creates its parent directories
func (s *PNGSink) path(name string) (string, error) {
	path := filepath.Join(s.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return path, nil
}
