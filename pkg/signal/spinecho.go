// Package signal evaluates the spin-echo signal equation
//
//	SI = A * (1 - exp(-TR/T1)) * exp(-TE/T2)
//
// on scalars and on property maps.
//
// Relaxation times that are not strictly positive (background pixels of a
// property map) give SI = 0. Such pixels with a non-zero proton density are
// counted and reported as a NumericWarning.
package signal

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"mrisim/internal/models"
	"mrisim/pkg/tissue"
)

// Intensity evaluates the signal equation for one tissue and setting
func Intensity(t models.Tissue, s models.Setting) float64 {
	if !(t.T1 > 0) || !(t.T2 > 0) {
		return 0
	}
	return t.A * (1 - math.Exp(-s.TR/t.T1)) * math.Exp(-s.TE/t.T2)
}

// Map evaluates the signal equation pixel-wise over property maps.
// The returned warning has a zero Count when no pixel was masked.
func Map(maps *tissue.Maps, s models.Setting) (*mat.Dense, models.NumericWarning, error) {
	warn := models.NumericWarning{Op: "signal", Msg: "non-positive T1/T2 under non-zero A, SI set to 0"}

	if maps == nil || maps.A == nil || maps.T1 == nil || maps.T2 == nil {
		return nil, warn, &models.DomainError{Op: "signal", Msg: "property maps are incomplete"}
	}

	r, c := maps.A.Dims()
	if r1, c1 := maps.T1.Dims(); r1 != r || c1 != c {
		return nil, warn, &models.DomainError{Op: "signal", Msg: fmt.Sprintf("T1-map is %dx%d, A-map is %dx%d", r1, c1, r, c)}
	}
	if r2, c2 := maps.T2.Dims(); r2 != r || c2 != c {
		return nil, warn, &models.DomainError{Op: "signal", Msg: fmt.Sprintf("T2-map is %dx%d, A-map is %dx%d", r2, c2, r, c)}
	}

	var si mat.Dense
	si.Apply(func(i, j int, a float64) float64 {
		t := models.Tissue{A: a, T1: maps.T1.At(i, j), T2: maps.T2.At(i, j)}
		if a != 0 && (!(t.T1 > 0) || !(t.T2 > 0)) {
			warn.Count++
		}
		return Intensity(t, s)
	}, maps.A)

	return &si, warn, nil
}

// Evaluate produces one signal image per setting, in order.
// Warnings with a non-zero Count are collected for the caller.
func Evaluate(maps *tissue.Maps, settings []models.Setting) ([]*mat.Dense, []models.NumericWarning, error) {
	images := make([]*mat.Dense, 0, len(settings))
	var warnings []models.NumericWarning

	for i, s := range settings {
		si, warn, err := Map(maps, s)
		if err != nil {
			return nil, nil, fmt.Errorf("setting %d (TR=%g, TE=%g): %w", i+1, s.TR, s.TE, err)
		}
		if warn.Count > 0 {
			warnings = append(warnings, warn)
		}
		images = append(images, si)
	}
	return images, warnings, nil
}

// EvaluateLists pairs parallel TR and TE lists and evaluates every pair
func EvaluateLists(maps *tissue.Maps, tr, te []float64) ([]*mat.Dense, []models.NumericWarning, error) {
	settings, err := models.Settings(tr, te)
	if err != nil {
		return nil, nil, err
	}
	return Evaluate(maps, settings)
}
