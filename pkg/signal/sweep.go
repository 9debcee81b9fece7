package signal

import (
	"fmt"

	"mrisim/internal/models"
)

// Curve is a signal intensity series over one varying acquisition parameter
type Curve struct {
	Label string
	X     []float64
	SI    []float64
}

// SweepTR evaluates a tissue at each repetition time with a fixed echo time
func SweepTR(t models.Tissue, trValues []float64, te float64) []float64 {
	si := make([]float64, len(trValues))
	for i, tr := range trValues {
		si[i] = Intensity(t, models.Setting{TR: tr, TE: te})
	}
	return si
}

// SweepTE evaluates a tissue at each echo time with a fixed repetition time
func SweepTE(t models.Tissue, tr float64, teValues []float64) []float64 {
	si := make([]float64, len(teValues))
	for i, te := range teValues {
		si[i] = Intensity(t, models.Setting{TR: tr, TE: te})
	}
	return si
}

// TRCurves returns one SI vs TR curve per compartment, labelled
// "Compartment j" with j starting at 1
func TRCurves(tissues []models.Tissue, trValues []float64, te float64) []Curve {
	curves := make([]Curve, len(tissues))
	for i, t := range tissues {
		curves[i] = Curve{
			Label: compartmentLabel(i + 1),
			X:     append([]float64(nil), trValues...),
			SI:    SweepTR(t, trValues, te),
		}
	}
	return curves
}

func compartmentLabel(j int) string {
	return fmt.Sprintf("Compartment %d", j)
}
