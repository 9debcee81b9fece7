// Package tissue builds the proton density and relaxation maps of a
// compartment phantom.
package tissue

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"mrisim/internal/models"
	"mrisim/pkg/phantom"
)

// Schedule assigns relaxation times to compartments by their 1-based index.
// Values grow linearly: T1 = T1Base + (j-1)*T1Step and likewise for T2.
type Schedule struct {
	T1Base float64 `yaml:"t1Base"`
	T1Step float64 `yaml:"t1Step"`
	T2Base float64 `yaml:"t2Base"`
	T2Step float64 `yaml:"t2Step"`
}

// DefaultSchedule returns the schedule giving (250,10), (625,35),
// (1000,60) and (1375,85) for the first four compartments.
func DefaultSchedule() Schedule {
	return Schedule{T1Base: 250, T1Step: 375, T2Base: 10, T2Step: 25}
}

// Relaxation returns T1 and T2 for compartment j (1-based)
func (s Schedule) Relaxation(j int) (t1, t2 float64) {
	k := float64(j - 1)
	return s.T1Base + k*s.T1Step, s.T2Base + k*s.T2Step
}

// Compartments returns the tissue of every compartment. A is taken from the
// ellipse intensity and T1, T2 from the schedule.
func (s Schedule) Compartments(ellipses []models.Ellipse) []models.Tissue {
	tissues := make([]models.Tissue, len(ellipses))
	for i, e := range ellipses {
		t1, t2 := s.Relaxation(i + 1)
		tissues[i] = models.Tissue{A: e.Intensity, T1: t1, T2: t2}
	}
	return tissues
}

// Maps holds the three property maps of a phantom
type Maps struct {
	A  *mat.Dense
	T1 *mat.Dense
	T2 *mat.Dense
}

// Build produces the A, T1 and T2 maps of an n×n compartment phantom.
//
// A is the composited phantom. For T1 and T2 each compartment contributes
// its scheduled constant over a unit-intensity mask of its ellipse. Masks
// that overlap sum their constants; no compartment takes precedence.
func Build(n int, compartments []models.Ellipse, schedule Schedule) (*Maps, error) {
	a, err := phantom.Generate(n, compartments)
	if err != nil {
		return nil, fmt.Errorf("failed to build A-map: %w", err)
	}

	t1Map := mat.NewDense(n, n, nil)
	t2Map := mat.NewDense(n, n, nil)

	for i, e := range compartments {
		mask, err := phantom.Mask(e, n)
		if err != nil {
			return nil, fmt.Errorf("compartment %d: %w", i+1, err)
		}

		t1, t2 := schedule.Relaxation(i + 1)
		t1Map.Add(t1Map, phantom.Scale(mask, t1))
		t2Map.Add(t2Map, phantom.Scale(mask, t2))
	}

	return &Maps{A: a, T1: t1Map, T2: t2Map}, nil
}
