package phantom

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"mrisim/internal/models"
)

// Generate composites ellipses into an n×n phantom.
// Rasters are summed in list order into a zero image; overlapping regions
// accumulate and the result is never clipped.
func Generate(n int, ellipses []models.Ellipse) (*mat.Dense, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}

	phantom := mat.NewDense(n, n, nil)
	for i, e := range ellipses {
		raster, err := Rasterize(e, n)
		if err != nil {
			return nil, fmt.Errorf("ellipse %d: %w", i+1, err)
		}
		phantom.Add(phantom, raster)
	}
	return phantom, nil
}

// GenerateAll composites every named phantom on the same grid
func GenerateAll(n int, phantoms []models.NamedPhantom) ([]*mat.Dense, error) {
	images := make([]*mat.Dense, 0, len(phantoms))
	for _, p := range phantoms {
		img, err := Generate(n, p.Ellipses)
		if err != nil {
			return nil, fmt.Errorf("phantom %q: %w", p.Name, err)
		}
		images = append(images, img)
	}
	return images, nil
}
