// Package similarity compares simulated images with the structural
// similarity index (SSIM) and the root mean square error.
package similarity

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"mrisim/internal/models"
)

// Constants for SSIM calculation
const (
	// WindowSize is the side of the square sliding window
	WindowSize = 7

	K1 = 0.01
	K2 = 0.03
)

// DataRange returns max - min of an image
func DataRange(img mat.Matrix) float64 {
	return mat.Max(img) - mat.Min(img)
}

// SSIM computes the mean structural similarity between two images of the
// same shape.
//
// Local statistics are taken over every WindowSize×WindowSize window that
// lies fully inside the image, with sample (n-1) variances and covariance.
// Each window combines luminance, contrast and structure as
//
//	((2μxμy + C1)(2σxy + C2)) / ((μx² + μy² + C1)(σx² + σy² + C2))
//
// with C1 = (K1·L)² and C2 = (K2·L)², L being dataRange. The result is the
// mean over all windows; identical images score exactly 1.
func SSIM(x, y mat.Matrix, dataRange float64) (float64, error) {
	rows, cols := x.Dims()
	if yr, yc := y.Dims(); yr != rows || yc != cols {
		return 0, &models.DomainError{
			Op:  "ssim",
			Msg: fmt.Sprintf("image shapes differ: %dx%d vs %dx%d", rows, cols, yr, yc),
		}
	}
	if rows < WindowSize || cols < WindowSize {
		return 0, &models.DomainError{
			Op:  "ssim",
			Msg: fmt.Sprintf("images must be at least %dx%d, got %dx%d", WindowSize, WindowSize, rows, cols),
		}
	}
	if !(dataRange > 0) || math.IsInf(dataRange, 0) {
		return 0, &models.DomainError{
			Op:  "ssim",
			Msg: fmt.Sprintf("data range must be positive and finite, got %g", dataRange),
		}
	}

	c1 := (K1 * dataRange) * (K1 * dataRange)
	c2 := (K2 * dataRange) * (K2 * dataRange)

	n := WindowSize * WindowSize
	xs := make([]float64, n)
	ys := make([]float64, n)
	scores := make([]float64, 0, (rows-WindowSize+1)*(cols-WindowSize+1))

	for r := 0; r+WindowSize <= rows; r++ {
		for c := 0; c+WindowSize <= cols; c++ {
			k := 0
			for i := r; i < r+WindowSize; i++ {
				for j := c; j < c+WindowSize; j++ {
					xs[k] = x.At(i, j)
					ys[k] = y.At(i, j)
					k++
				}
			}
			scores = append(scores, windowSSIM(xs, ys, c1, c2))
		}
	}

	return stat.Mean(scores, nil), nil
}

// windowSSIM evaluates one window. Variances and covariance share a single
// accumulation so that equal windows give bit-identical terms.
func windowSSIM(xs, ys []float64, c1, c2 float64) float64 {
	muX := stat.Mean(xs, nil)
	muY := stat.Mean(ys, nil)

	var sxx, syy, sxy float64
	for i := range xs {
		dx := xs[i] - muX
		dy := ys[i] - muY
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	norm := float64(len(xs) - 1)
	sigmaX := sxx / norm
	sigmaY := syy / norm
	sigmaXY := sxy / norm

	num := (2*muX*muY + c1) * (2*sigmaXY + c2)
	den := (muX*muX + muY*muY + c1) * (sigmaX + sigmaY + c2)
	return num / den
}

// RMSE computes the root mean square error between two images
func RMSE(x, y mat.Matrix) (float64, error) {
	rows, cols := x.Dims()
	if yr, yc := y.Dims(); yr != rows || yc != cols {
		return 0, &models.DomainError{
			Op:  "rmse",
			Msg: fmt.Sprintf("image shapes differ: %dx%d vs %dx%d", rows, cols, yr, yc),
		}
	}

	dist := floats.Distance(flatten(x), flatten(y), 2)
	return dist / math.Sqrt(float64(rows*cols)), nil
}

func flatten(m mat.Matrix) []float64 {
	rows, cols := m.Dims()
	data := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data = append(data, m.At(i, j))
		}
	}
	return data
}
