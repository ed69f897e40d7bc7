// Package regressor holds the model families the quotation engine can run.
// Each type satisfies quotation.Regressor and is immutable after construction.
package regressor

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LinearSpec is the serialised form of a fitted linear model.
type LinearSpec struct {
	Intercept    float64   `json:"intercept" yaml:"intercept"`
	Coefficients []float64 `json:"coefficients" yaml:"coefficients"`
}

// Linear predicts intercept + coefficients·x.
type Linear struct {
	intercept    float64
	coefficients *mat.VecDense
	importances  []float64
}

// NewLinear builds a linear model. When importances is nil they are derived
// from the absolute coefficients, normalised to sum to 1.
func NewLinear(spec LinearSpec, importances []float64) (*Linear, error) {
	n := len(spec.Coefficients)
	if n == 0 {
		return nil, fmt.Errorf("linear model has no coefficients")
	}
	for i, c := range spec.Coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("coefficient %d is not finite", i)
		}
	}

	coef := make([]float64, n)
	copy(coef, spec.Coefficients)

	if importances == nil {
		importances = make([]float64, n)
		for i, c := range coef {
			importances[i] = math.Abs(c)
		}
		if total := floats.Sum(importances); total > 0 {
			floats.Scale(1/total, importances)
		}
	} else {
		if len(importances) != n {
			return nil, fmt.Errorf("linear model has %d coefficients but %d importances", n, len(importances))
		}
		importances = append([]float64(nil), importances...)
	}

	return &Linear{
		intercept:    spec.Intercept,
		coefficients: mat.NewVecDense(n, coef),
		importances:  importances,
	}, nil
}

// Predict implements quotation.Regressor.
func (l *Linear) Predict(_ context.Context, values []float64) (float64, error) {
	n := l.coefficients.Len()
	if len(values) != n {
		return 0, fmt.Errorf("linear model expects %d features, got %d", n, len(values))
	}
	x := mat.NewVecDense(n, append([]float64(nil), values...))
	return l.intercept + mat.Dot(l.coefficients, x), nil
}

// FeatureImportances implements quotation.Regressor.
func (l *Linear) FeatureImportances() []float64 {
	return append([]float64(nil), l.importances...)
}
