package quotation

import (
	"context"
	"fmt"
	"math"
)

// Regressor is the capability a trained model must provide: a point prediction
// over a schema-shaped vector and one importance weight per schema column.
type Regressor interface {
	Predict(ctx context.Context, values []float64) (float64, error)
	FeatureImportances() []float64
}

// Predictor binds a Regressor to the FeatureSchema it was trained on.
// It holds no mutable state, so one Predictor serves every request.
type Predictor struct {
	schema      *FeatureSchema
	regressor   Regressor
	importances map[string]float64
}

// NewPredictor checks that the regressor's importance signal has the schema's shape.
func NewPredictor(schema *FeatureSchema, regressor Regressor) (*Predictor, error) {
	if schema.Len() == 0 {
		return nil, &SchemaMismatchError{Reason: "feature schema has no columns"}
	}
	if regressor == nil {
		return nil, &SchemaMismatchError{Reason: "no regressor supplied"}
	}

	weights := regressor.FeatureImportances()
	if len(weights) != schema.Len() {
		return nil, &SchemaMismatchError{
			Reason: fmt.Sprintf("regressor exposes %d importances for %d columns", len(weights), schema.Len()),
		}
	}

	importances := make(map[string]float64, len(weights))
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, &SchemaMismatchError{
				Reason: fmt.Sprintf("importance for %q is %v, want a finite non-negative weight", schema.columns[i], w),
			}
		}
		importances[schema.columns[i]] = w
	}

	return &Predictor{
		schema:      schema,
		regressor:   regressor,
		importances: importances,
	}, nil
}

// Schema returns the schema the predictor was trained against.
func (p *Predictor) Schema() *FeatureSchema {
	return p.schema
}

// Estimate returns the raw model cost for an encoded vector. Negative model
// outputs are clamped to zero.
func (p *Predictor) Estimate(ctx context.Context, vector *FeatureVector) (float64, error) {
	if vector == nil {
		return 0, &PredictionError{Reason: "no feature vector"}
	}
	if len(vector.Values) != len(vector.Columns) || !p.schema.matches(vector.Columns) {
		return 0, &PredictionError{
			Reason: fmt.Sprintf("vector has %d columns, schema expects %d in fixed order", len(vector.Columns), p.schema.Len()),
		}
	}

	cost, err := p.regressor.Predict(ctx, vector.Values)
	if err != nil {
		return 0, &PredictionError{Reason: "regressor failed", Err: err}
	}
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return 0, &PredictionError{Reason: fmt.Sprintf("regressor returned %v", cost)}
	}
	if cost < 0 {
		cost = 0
	}
	return cost, nil
}

// Importances returns a fresh copy of the per-column importance weights.
func (p *Predictor) Importances() map[string]float64 {
	out := make(map[string]float64, len(p.importances))
	for k, v := range p.importances {
		out[k] = v
	}
	return out
}
