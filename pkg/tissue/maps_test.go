package tissue

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mrisim/internal/models"
	"mrisim/pkg/phantom"
)

// placed returns an ellipse whose grid-space center is (gx, gy). The center
// of an ellipse is given in the rotated frame, so the grid position is
// rotated the same way the rasterizer rotates grid coordinates.
func placed(gx, gy, a, b, angle, intensity float64) models.Ellipse {
	theta := angle * math.Pi / 180
	c, s := math.Cos(theta), math.Sin(theta)
	return models.Ellipse{
		X0:        c*gx + s*gy,
		Y0:        -s*gx + c*gy,
		A:         a,
		B:         b,
		Angle:     angle,
		Intensity: intensity,
	}
}

// separated returns four compartments centered in the four quadrants of a
// grid of size n. Each fits in a disc of radius n/8 around its center, so
// no two masks overlap.
func separated(n int) []models.Ellipse {
	q := float64(n) / 4
	r := q / 2
	return []models.Ellipse{
		placed(-q, -q, r, r/2, 10, 1),
		placed(q, -q, r/2, r, -45, 0.85),
		placed(-q, q, r, r, 0, 0.4),
		placed(q, q, r/3, r, 70, 0.65),
	}
}

// TestDefaultSchedule verifies the fixed compartment constants
func TestDefaultSchedule(t *testing.T) {
	want := [][2]float64{{250, 10}, {625, 35}, {1000, 60}, {1375, 85}}
	s := DefaultSchedule()

	for j := 1; j <= 4; j++ {
		t1, t2 := s.Relaxation(j)
		assert.Equal(t, want[j-1][0], t1, "T1 of compartment %d", j)
		assert.Equal(t, want[j-1][1], t2, "T2 of compartment %d", j)
	}
}

// TestBuildValuesIndependentOfGrid verifies that the map values depend only
// on the schedule, not on grid size, position or axes
func TestBuildValuesIndependentOfGrid(t *testing.T) {
	for _, n := range []int{32, 64, 128} {
		compartments := separated(n)
		maps, err := Build(n, compartments, DefaultSchedule())
		require.NoError(t, err)

		t1Seen := map[float64]bool{}
		t2Seen := map[float64]bool{}
		for r := 0; r < n; r++ {
			for c := 0; c < n; c++ {
				t1Seen[maps.T1.At(r, c)] = true
				t2Seen[maps.T2.At(r, c)] = true
			}
		}

		assert.Equal(t, map[float64]bool{0: true, 250: true, 625: true, 1000: true, 1375: true}, t1Seen, "n=%d", n)
		assert.Equal(t, map[float64]bool{0: true, 10: true, 35: true, 60: true, 85: true}, t2Seen, "n=%d", n)

		// Each compartment holds its own constants at its quadrant center
		q := n / 4
		o := phantom.Origin(n)
		centers := [][2]int{{-q, -q}, {q, -q}, {-q, q}, {q, q}}
		for j, c := range centers {
			t1, t2 := DefaultSchedule().Relaxation(j + 1)
			assert.Equal(t, t1, maps.T1.At(c[1]-o, c[0]-o), "T1 of compartment %d, n=%d", j+1, n)
			assert.Equal(t, t2, maps.T2.At(c[1]-o, c[0]-o), "T2 of compartment %d, n=%d", j+1, n)
		}
	}
}

// TestBuildAMapIsPhantom verifies that the A-map uses the ellipse intensities
func TestBuildAMapIsPhantom(t *testing.T) {
	compartments := separated(64)
	maps, err := Build(64, compartments, DefaultSchedule())
	require.NoError(t, err)

	want, err := phantom.Generate(64, compartments)
	require.NoError(t, err)
	assert.Equal(t, want.RawMatrix().Data, maps.A.RawMatrix().Data)
}

// TestBuildOverlapSums verifies that overlapping compartments add their constants
func TestBuildOverlapSums(t *testing.T) {
	compartments := []models.Ellipse{
		{A: 60, B: 90, Intensity: 1},
		{A: 50, B: 80, Intensity: 0.85},
	}
	maps, err := Build(256, compartments, DefaultSchedule())
	require.NoError(t, err)

	assert.Equal(t, 875.0, maps.T1.At(128, 128))
	assert.Equal(t, 45.0, maps.T2.At(128, 128))
	assert.Equal(t, 250.0, maps.T1.At(128, 128+55))
	assert.Equal(t, 0.0, maps.T1.At(0, 0))
}

// TestBuildIgnoresIntensityForMasks verifies that T1/T2 masks are unit intensity
func TestBuildIgnoresIntensityForMasks(t *testing.T) {
	compartments := []models.Ellipse{{A: 10, B: 10, Intensity: -3}}
	maps, err := Build(32, compartments, DefaultSchedule())
	require.NoError(t, err)

	assert.Equal(t, -3.0, maps.A.At(16, 16))
	assert.Equal(t, 250.0, maps.T1.At(16, 16))
	assert.Equal(t, 10.0, maps.T2.At(16, 16))
}

// TestCompartments verifies the per-compartment tissue table
func TestCompartments(t *testing.T) {
	tissues := DefaultSchedule().Compartments(separated(64))
	require.Len(t, tissues, 4)
	assert.Equal(t, models.Tissue{A: 0.85, T1: 625, T2: 35}, tissues[1])
}

// TestBuildRejectsZeroAxis verifies that rasterization errors propagate
func TestBuildRejectsZeroAxis(t *testing.T) {
	_, err := Build(32, []models.Ellipse{{A: 0, B: 1, Intensity: 1}}, DefaultSchedule())
	assert.Error(t, err)
}
