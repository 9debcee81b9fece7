// Package scanner runs the virtual MRI acquisition end to end: property
// maps, spin-echo images over a list of acquisition settings, signal
// curves and image similarity scores.
package scanner

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"mrisim/internal/models"
	"mrisim/pkg/config"
	"mrisim/pkg/signal"
	"mrisim/pkg/similarity"
	"mrisim/pkg/tissue"
	"mrisim/pkg/visualization"
)

// Output file names
const (
	MapsFigure   = "A_T1_T2_maps.png"
	ImagesFigure = "MRI_images_TR_TE.png"
	TRFigure     = "SI_vs_TR.png"
	TEFigure     = "SI_vs_TE_comp2.png"
	ScoresFile   = "SSIM_results.txt"
	RasterDir    = "rasters"
)

// Results holds everything computed by one scan
type Results struct {
	// Maps are the A, T1 and T2 property maps
	Maps *tissue.Maps

	// Settings are the paired acquisition parameters
	Settings []models.Setting

	// Images holds one signal intensity image per setting
	Images []*mat.Dense

	// TRCurves holds SI vs TR for every compartment
	TRCurves []signal.Curve

	// TECurve is SI vs TE for the swept compartment
	TECurve signal.Curve

	// Scores compare the first image with each of the others
	Scores []models.Score

	// Errors holds the RMSE of the first image against each of the others
	Errors []models.Score

	// Warnings collects non-fatal numeric conditions
	Warnings []models.NumericWarning
}

// Scanner simulates spin-echo acquisitions of a compartment phantom.
//
// The scan consists of several steps:
// 1. Building the A, T1 and T2 property maps
// 2. Evaluating the signal equation for every acquisition setting
// 3. Sweeping TR for every compartment
// 4. Sweeping TE for a single compartment
// 5. Comparing the images with SSIM
type Scanner struct {
	// cfg stores the phantom and acquisition tables
	cfg *config.Config

	// sink receives every figure and score file
	sink visualization.Sink

	// results is filled in as the steps run
	results Results
}

// NewScanner creates a scanner writing its outputs to sink
func NewScanner(cfg *config.Config, sink visualization.Sink) *Scanner {
	return &Scanner{
		cfg:  cfg,
		sink: sink,
	}
}

// Process runs the complete scan
func (s *Scanner) Process() error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	// Step 1: Build property maps
	s.logln("Step 1: Building A, T1 and T2 maps...")
	if err := s.buildMaps(); err != nil {
		return fmt.Errorf("failed to build property maps: %w", err)
	}

	// Step 2: Simulate images
	s.logln("Step 2: Simulating spin-echo images...")
	if err := s.acquire(); err != nil {
		return fmt.Errorf("failed to simulate images: %w", err)
	}

	// Step 3: SI vs TR
	s.logln("Step 3: Computing SI vs TR for each compartment...")
	if err := s.sweepTR(); err != nil {
		return fmt.Errorf("failed to sweep TR: %w", err)
	}

	// Step 4: SI vs TE
	s.logln("Step 4: Computing SI vs TE...")
	if err := s.sweepTE(); err != nil {
		return fmt.Errorf("failed to sweep TE: %w", err)
	}

	// Step 5: Image similarity
	s.logln("Step 5: Computing SSIM between images...")
	if err := s.compare(); err != nil {
		return fmt.Errorf("failed to compare images: %w", err)
	}

	return nil
}

// GetResults returns the results of the last scan
func (s *Scanner) GetResults() Results {
	return s.results
}

func (s *Scanner) buildMaps() error {
	maps, err := tissue.Build(s.cfg.Grid.Size, s.cfg.Scanner.Compartments, s.cfg.Scanner.Relaxation)
	if err != nil {
		return err
	}
	s.results.Maps = maps

	fig := visualization.ImageFigure{
		Panels: []visualization.Panel{
			{Title: "A-map (Water Content)", Data: maps.A},
			{Title: "T1-map (Longitudinal Relaxation)", Data: maps.T1},
			{Title: "T2-map (Transverse Relaxation)", Data: maps.T2},
		},
		Width:  15,
		Height: 5,
	}
	if err := s.sink.Images(MapsFigure, fig); err != nil {
		return err
	}

	s.saveRaster("A_map.png", maps.A)
	s.saveRaster("T1_map.png", maps.T1)
	s.saveRaster("T2_map.png", maps.T2)
	return nil
}

func (s *Scanner) acquire() error {
	settings, err := models.Settings(s.cfg.Scanner.TR, s.cfg.Scanner.TE)
	if err != nil {
		return err
	}
	s.results.Settings = settings

	images, warnings, err := signal.Evaluate(s.results.Maps, settings)
	if err != nil {
		return err
	}
	s.results.Images = images

	for _, w := range warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	s.results.Warnings = append(s.results.Warnings, warnings...)

	if len(images) == 0 {
		return nil
	}

	panels := make([]visualization.Panel, len(images))
	for i, img := range images {
		panels[i] = visualization.Panel{
			Title: fmt.Sprintf("TR=%g, TE=%g", settings[i].TR, settings[i].TE),
			Data:  img,
		}
		s.saveRaster(fmt.Sprintf("SI_%02d.png", i+1), img)
	}

	fig := visualization.ImageFigure{
		Panels: panels,
		Width:  5 * float64(len(panels)),
		Height: 5,
	}
	return s.sink.Images(ImagesFigure, fig)
}

func (s *Scanner) sweepTR() error {
	tissues := s.cfg.Scanner.Relaxation.Compartments(s.cfg.Scanner.Compartments)
	curves := signal.TRCurves(tissues, s.cfg.Scanner.TR, s.cfg.Scanner.SweepTE)
	s.results.TRCurves = curves

	chart := visualization.Chart{
		Title:  fmt.Sprintf("SI vs TR for Each Compartment (TE=%g)", s.cfg.Scanner.SweepTE),
		XLabel: "TR",
		YLabel: "Signal Intensity (SI)",
		Legend: true,
		Width:  8,
		Height: 6,
	}
	for _, c := range curves {
		chart.Series = append(chart.Series, visualization.Series{Label: c.Label, X: c.X, Y: c.SI})
	}
	return s.sink.Chart(TRFigure, chart)
}

func (s *Scanner) sweepTE() error {
	sweep := s.cfg.Scanner.TESweep
	tissues := s.cfg.Scanner.Relaxation.Compartments(s.cfg.Scanner.Compartments)
	t := tissues[sweep.Compartment-1]

	curve := signal.Curve{
		Label: fmt.Sprintf("Compartment %d", sweep.Compartment),
		X:     append([]float64(nil), sweep.TE...),
		SI:    signal.SweepTE(t, sweep.TR, sweep.TE),
	}
	s.results.TECurve = curve

	chart := visualization.Chart{
		Title:  fmt.Sprintf("SI vs TE for Compartment %d (TR=%g)", sweep.Compartment, sweep.TR),
		XLabel: "TE",
		YLabel: "Signal Intensity (SI)",
		Series: []visualization.Series{{Label: curve.Label, X: curve.X, Y: curve.SI}},
		Width:  8,
		Height: 5,
	}
	return s.sink.Chart(TEFigure, chart)
}

func (s *Scanner) compare() error {
	if len(s.results.Images) < 2 {
		s.logln("Fewer than two images, skipping SSIM")
		return nil
	}

	scores, err := similarity.Compare(s.results.Images)
	if err != nil {
		return err
	}
	s.results.Scores = scores

	errs, err := similarity.CompareRMSE(s.results.Images)
	if err != nil {
		return err
	}
	s.results.Errors = errs

	for i := range scores {
		s.logf("%s: %.6f (%s: %.6f)\n", scores[i].Label, scores[i].Value, errs[i].Label, errs[i].Value)
	}
	return s.sink.Scores(ScoresFile, scores)
}

// saveRaster writes an intermediary raster when enabled.
// Failures are reported and do not stop the scan.
func (s *Scanner) saveRaster(name string, data mat.Matrix) {
	if !s.cfg.Output.SaveIntermediaryResults {
		return
	}
	if err := s.sink.Raster(filepath.Join(RasterDir, name), data); err != nil {
		fmt.Printf("Warning: Failed to save raster %s: %v\n", name, err)
	}
}

func (s *Scanner) logln(msg string) {
	if s.cfg.Output.Verbose {
		fmt.Println(msg)
	}
}

func (s *Scanner) logf(format string, args ...interface{}) {
	if s.cfg.Output.Verbose {
		fmt.Printf(format, args...)
	}
}
