package scanner

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"mrisim/pkg/config"
	"mrisim/pkg/phantom"
	"mrisim/pkg/visualization"
)

// PhantomsFigure is the file name of the phantom design study
const PhantomsFigure = "phantoms.png"

// StudyColumns is the number of phantoms per figure row
const StudyColumns = 3

// DesignPhantoms composites every configured study phantom and writes them
// side by side, three per row, as one figure
func DesignPhantoms(cfg *config.Config, sink visualization.Sink) ([]*mat.Dense, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.Phantoms) == 0 {
		return nil, fmt.Errorf("no phantoms configured")
	}

	images, err := phantom.GenerateAll(cfg.Grid.Size, cfg.Phantoms)
	if err != nil {
		return nil, err
	}

	panels := make([]visualization.Panel, len(images))
	for i, img := range images {
		panels[i] = visualization.Panel{Title: cfg.Phantoms[i].Name, Data: img}
	}

	rows := (len(panels) + StudyColumns - 1) / StudyColumns
	fig := visualization.ImageFigure{
		Panels: panels,
		Cols:   StudyColumns,
		Width:  15,
		Height: 5 * float64(rows),
	}
	if err := sink.Images(PhantomsFigure, fig); err != nil {
		return nil, fmt.Errorf("failed to save phantoms: %w", err)
	}

	return images, nil
}
