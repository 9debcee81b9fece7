package similarity

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"mrisim/internal/models"
)

// Compare scores the first image against each of the others.
//
// The pair (1, k) uses the data range of image k, the second operand,
// as the SSIM dynamic range. Labels read "SSIM between Image 1 and Image k".
func Compare(images []*mat.Dense) ([]models.Score, error) {
	if len(images) < 2 {
		return nil, &models.DomainError{
			Op:  "compare",
			Msg: fmt.Sprintf("need at least 2 images, got %d", len(images)),
		}
	}

	scores := make([]models.Score, 0, len(images)-1)
	for k := 1; k < len(images); k++ {
		value, err := SSIM(images[0], images[k], DataRange(images[k]))
		if err != nil {
			return nil, fmt.Errorf("image 1 vs image %d: %w", k+1, err)
		}
		scores = append(scores, models.Score{
			Label: fmt.Sprintf("SSIM between Image 1 and Image %d", k+1),
			Value: value,
		})
	}
	return scores, nil
}

// CompareRMSE computes the root mean square error of the first image
// against each of the others. Labels read "RMSE between Image 1 and Image k".
func CompareRMSE(images []*mat.Dense) ([]models.Score, error) {
	if len(images) < 2 {
		return nil, &models.DomainError{
			Op:  "compare",
			Msg: fmt.Sprintf("need at least 2 images, got %d", len(images)),
		}
	}

	scores := make([]models.Score, 0, len(images)-1)
	for k := 1; k < len(images); k++ {
		value, err := RMSE(images[0], images[k])
		if err != nil {
			return nil, fmt.Errorf("image 1 vs image %d: %w", k+1, err)
		}
		scores = append(scores, models.Score{
			Label: fmt.Sprintf("RMSE between Image 1 and Image %d", k+1),
			Value: value,
		})
	}
	return scores, nil
}
