// Package visualization renders rasters and signal curves produced by the
// simulator. The numeric packages never touch the file system; they hand
// their results to a Sink.
package visualization

import (
	"gonum.org/v1/gonum/mat"

	"mrisim/internal/models"
)

// Sink accepts labelled rasters, curves and scores and persists or
// displays them. Names are file names relative to the sink.
type Sink interface {
	// Images renders a tiled figure of grayscale panels
	Images(name string, fig ImageFigure) error

	// Chart renders a line chart of one or more series
	Chart(name string, chart Chart) error

	// Scores writes "<label>: <value>" lines
	Scores(name string, scores []models.Score) error

	// Raster writes a single raster without decoration
	Raster(name string, data mat.Matrix) error
}

// Panel is one titled raster of an image figure
type Panel struct {
	Title string
	Data  mat.Matrix
}

// ImageFigure is a grid of panels, filled row by row
type ImageFigure struct {
	Panels []Panel

	// Cols is the number of panels per row; 0 puts all panels on one row
	Cols int

	// Width and Height are the figure size in inches
	Width, Height float64
}

// Series is one labelled curve of a chart
type Series struct {
	Label string
	X, Y  []float64
}

// Chart is a line chart with markers at every sample
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	Series []Series

	// Legend adds an entry per series
	Legend bool

	// Width and Height are the figure size in inches
	Width, Height float64
}
