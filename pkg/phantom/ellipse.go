// Package phantom rasterizes rotated ellipses onto a square grid and
// composites them into digital phantoms.
package phantom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"mrisim/internal/models"
)

// Origin returns the coordinate of the first row and column of an n×n grid.
// Coordinates run over [-n/2, n/2) with floor division, so an odd grid has
// one more negative sample than positive ones.
func Origin(n int) int {
	return -(n + 1) / 2
}

// Shape is an ellipse prepared for membership tests.
// The rotation is applied to the grid coordinates, not to the ellipse.
type Shape struct {
	ellipse  models.Ellipse
	cos, sin float64
}

// NewShape validates an ellipse and precomputes its rotation.
// A semi-axis that is not strictly positive is a DomainError.
func NewShape(e models.Ellipse) (*Shape, error) {
	if !(e.A > 0) || !(e.B > 0) {
		return nil, &models.DomainError{
			Op:  "rasterize",
			Msg: fmt.Sprintf("semi-axes must be positive, got a=%g b=%g", e.A, e.B),
		}
	}

	theta := e.Angle * math.Pi / 180
	return &Shape{
		ellipse: e,
		cos:     math.Cos(theta),
		sin:     math.Sin(theta),
	}, nil
}

// Contains reports whether the grid point (x, y) lies inside the ellipse.
// The boundary is included.
func (s *Shape) Contains(x, y float64) bool {
	xr := s.cos*x + s.sin*y
	yr := -s.sin*x + s.cos*y

	dx := (xr - s.ellipse.X0) / s.ellipse.A
	dy := (yr - s.ellipse.Y0) / s.ellipse.B
	return dx*dx+dy*dy <= 1
}

// GridCenter returns the grid point that the rotation maps onto (X0, Y0)
func (s *Shape) GridCenter() (x, y float64) {
	x = s.cos*s.ellipse.X0 - s.sin*s.ellipse.Y0
	y = s.sin*s.ellipse.X0 + s.cos*s.ellipse.Y0
	return x, y
}

// Mask computes the inclusion predicate over an n×n grid.
// Row r maps to y = Origin(n)+r and column c to x = Origin(n)+c.
// Inside points hold 1 and outside points hold 0. A grid size below 1 is a
// DomainError.
func (s *Shape) Mask(n int) (*mat.Dense, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}

	mask := mat.NewDense(n, n, nil)
	origin := Origin(n)

	for r := 0; r < n; r++ {
		y := float64(origin + r)
		for c := 0; c < n; c++ {
			if s.Contains(float64(origin+c), y) {
				mask.Set(r, c, 1)
			}
		}
	}
	return mask, nil
}

// Rasterize returns the mask of the ellipse scaled by its intensity
func (s *Shape) Rasterize(n int) (*mat.Dense, error) {
	mask, err := s.Mask(n)
	if err != nil {
		return nil, err
	}
	return Scale(mask, s.ellipse.Intensity), nil
}

// Scale multiplies a mask by an intensity, returning a new raster
func Scale(mask *mat.Dense, intensity float64) *mat.Dense {
	var out mat.Dense
	out.Scale(intensity, mask)
	return &out
}

// Mask validates e and computes its inclusion predicate on an n×n grid
func Mask(e models.Ellipse, n int) (*mat.Dense, error) {
	shape, err := NewShape(e)
	if err != nil {
		return nil, err
	}
	return shape.Mask(n)
}

// Rasterize validates e and returns its intensity raster on an n×n grid
func Rasterize(e models.Ellipse, n int) (*mat.Dense, error) {
	shape, err := NewShape(e)
	if err != nil {
		return nil, err
	}
	return shape.Rasterize(n)
}

func checkSize(n int) error {
	if n < 1 {
		return &models.DomainError{
			Op:  "rasterize",
			Msg: fmt.Sprintf("grid size must be positive, got %d", n),
		}
	}
	return nil
}
