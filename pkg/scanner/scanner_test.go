package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"mrisim/internal/models"
	"mrisim/pkg/config"
	"mrisim/pkg/signal"
	"mrisim/pkg/visualization"
)

// recordingSink keeps everything handed to it in memory
type recordingSink struct {
	images  map[string]visualization.ImageFigure
	charts  map[string]visualization.Chart
	scores  map[string][]models.Score
	rasters map[string]mat.Matrix
	failOn  string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{
		images:  map[string]visualization.ImageFigure{},
		charts:  map[string]visualization.Chart{},
		scores:  map[string][]models.Score{},
		rasters: map[string]mat.Matrix{},
	}
}

func (r *recordingSink) Images(name string, fig visualization.ImageFigure) error {
	if name == r.failOn {
		return errors.New("disk full")
	}
	r.images[name] = fig
	return nil
}

func (r *recordingSink) Chart(name string, chart visualization.Chart) error {
	if name == r.failOn {
		return errors.New("disk full")
	}
	r.charts[name] = chart
	return nil
}

func (r *recordingSink) Scores(name string, scores []models.Score) error {
	if name == r.failOn {
		return errors.New("disk full")
	}
	r.scores[name] = scores
	return nil
}

func (r *recordingSink) Raster(name string, data mat.Matrix) error {
	r.rasters[name] = data
	return nil
}

// smallConfig shrinks the reference tables onto a 64 grid
func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Grid.Size = 64
	cfg.Output.Verbose = false
	cfg.Scanner.Compartments = []models.Ellipse{
		{X0: 0, Y0: 0, A: 15, B: 22, Angle: 0, Intensity: 1},
		{X0: 0, Y0: 0, A: 12, B: 20, Angle: 0, Intensity: 0.85},
		{X0: -10, Y0: -7, A: 2.5, B: 6, Angle: 20, Intensity: 0.4},
		{X0: -2, Y0: 10, A: 4, B: 5, Angle: -30, Intensity: 0.65},
	}
	return cfg
}

// TestProcess runs a full scan against an in-memory sink
func TestProcess(t *testing.T) {
	sink := newRecordingSink()
	s := NewScanner(smallConfig(), sink)

	require.NoError(t, s.Process())
	results := s.GetResults()

	t.Run("Maps", func(t *testing.T) {
		require.NotNil(t, results.Maps)
		fig, ok := sink.images[MapsFigure]
		require.True(t, ok)
		require.Len(t, fig.Panels, 3)
		assert.Equal(t, "A-map (Water Content)", fig.Panels[0].Title)
		assert.Equal(t, 250.0+625.0, results.Maps.T1.At(32, 32))
	})

	t.Run("Images", func(t *testing.T) {
		require.Len(t, results.Images, 4)
		require.Len(t, results.Settings, 4)
		fig := sink.images[ImagesFigure]
		require.Len(t, fig.Panels, 4)
		assert.Equal(t, "TR=50, TE=10", fig.Panels[0].Title)
		assert.Equal(t, "TR=2500, TE=10", fig.Panels[3].Title)
		assert.Empty(t, results.Warnings)
	})

	t.Run("TRCurves", func(t *testing.T) {
		require.Len(t, results.TRCurves, 4)
		chart := sink.charts[TRFigure]
		assert.Equal(t, "SI vs TR for Each Compartment (TE=10)", chart.Title)
		assert.True(t, chart.Legend)
		require.Len(t, chart.Series, 4)
		assert.Equal(t, []float64{50, 250, 1000, 2500}, chart.Series[0].X)
	})

	t.Run("TECurve", func(t *testing.T) {
		chart := sink.charts[TEFigure]
		assert.Equal(t, "SI vs TE for Compartment 2 (TR=250)", chart.Title)
		require.Len(t, chart.Series, 1)

		want := signal.Intensity(models.Tissue{A: 0.85, T1: 625, T2: 35}, models.Setting{TR: 250, TE: 10})
		assert.Equal(t, want, results.TECurve.SI[0])
		assert.InDelta(t, 0.2106, want, 1e-4)
	})

	t.Run("Scores", func(t *testing.T) {
		scores := sink.scores[ScoresFile]
		require.Len(t, scores, 3)
		for k, score := range scores {
			assert.True(t, strings.HasPrefix(score.Label, "SSIM between Image 1 and Image "), score.Label)
			assert.LessOrEqual(t, score.Value, 1.0+1e-12, "pair %d", k+2)
		}
	})

	t.Run("Errors", func(t *testing.T) {
		require.Len(t, results.Errors, 3)
		assert.Equal(t, "RMSE between Image 1 and Image 4", results.Errors[2].Label)
		for k, score := range results.Errors {
			assert.Greater(t, score.Value, 0.0, "pair %d", k+2)
		}
	})

	t.Run("NoRasters", func(t *testing.T) {
		assert.Empty(t, sink.rasters)
	})
}

// TestProcessIntermediaryRasters verifies that raw rasters are exported on request
func TestProcessIntermediaryRasters(t *testing.T) {
	cfg := smallConfig()
	cfg.Output.SaveIntermediaryResults = true
	sink := newRecordingSink()

	require.NoError(t, NewScanner(cfg, sink).Process())

	for _, name := range []string{"A_map.png", "T1_map.png", "T2_map.png", "SI_01.png", "SI_04.png"} {
		_, ok := sink.rasters[filepath.Join(RasterDir, name)]
		assert.True(t, ok, "missing raster %s", name)
	}
}

// TestProcessMismatchedSettings verifies that unpaired lists stop the scan
func TestProcessMismatchedSettings(t *testing.T) {
	cfg := smallConfig()
	cfg.Scanner.TE = []float64{10, 10}

	err := NewScanner(cfg, newRecordingSink()).Process()

	var domainErr *models.DomainError
	require.Error(t, err)
	assert.True(t, errors.As(err, &domainErr))
}

// TestProcessSinkFailure verifies that sink errors propagate
func TestProcessSinkFailure(t *testing.T) {
	sink := newRecordingSink()
	sink.failOn = TRFigure

	err := NewScanner(smallConfig(), sink).Process()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, sink.scores, "later steps must not run")
}

// TestProcessSingleSetting verifies that SSIM is skipped with one image
func TestProcessSingleSetting(t *testing.T) {
	cfg := smallConfig()
	cfg.Scanner.TR = []float64{500}
	cfg.Scanner.TE = []float64{20}
	sink := newRecordingSink()

	s := NewScanner(cfg, sink)
	require.NoError(t, s.Process())
	assert.Len(t, s.GetResults().Images, 1)
	assert.Empty(t, sink.scores)
	assert.Empty(t, s.GetResults().Errors)
}

// TestProcessWritesFiles runs the default scan on disk
func TestProcessWritesFiles(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dir := t.TempDir()
	cfg := smallConfig()
	cfg.Output.DPI = 30

	require.NoError(t, NewScanner(cfg, visualization.NewPNGSink(dir, cfg.Output.DPI)).Process())

	for _, name := range []string{MapsFigure, ImagesFigure, TRFigure, TEFigure, ScoresFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "missing %s", name)
	}

	data, err := os.ReadFile(filepath.Join(dir, ScoresFile))
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "\n"))
}
