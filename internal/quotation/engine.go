// Package quotation turns a project description into a cost estimate, a
// materials/labour breakdown and a ranked list of cost drivers.
//
// The pipeline is linear and synchronous: Encode → Predictor.Estimate →
// RegionAdjuster.Adjust → Breakdown, with Explain run over the predictor's
// static importances. Everything here is read-only after construction, so an
// Engine may be shared by any number of concurrent requests.
package quotation

import (
	"context"
)

// Quote is the engine output for one description.
type Quote struct {
	RawCost  float64          `json:"raw_cost"`
	Estimate CostEstimate     `json:"estimate"`
	Drivers  DriverImportance `json:"drivers"`
	Features *FeatureVector   `json:"-"`
}

// Engine wires the five quotation components for one variant.
type Engine struct {
	variant   *Variant
	predictor *Predictor
	adjuster  *RegionAdjuster
	drivers   DriverImportance
}

// NewEngine builds an engine. allowUnknownRegion enables the 1.0 fallback for
// regions outside the variant's multiplier table.
func NewEngine(variant *Variant, predictor *Predictor, allowUnknownRegion bool) *Engine {
	return &Engine{
		variant:   variant,
		predictor: predictor,
		adjuster:  NewRegionAdjuster(variant.RegionMultipliers, allowUnknownRegion),
		drivers:   Explain(predictor.Importances(), variant.GroupingRules),
	}
}

// Variant returns the input schema the engine encodes with.
func (e *Engine) Variant() *Variant {
	return e.variant
}

// Predictor returns the wrapped predictor.
func (e *Engine) Predictor() *Predictor {
	return e.predictor
}

// Drivers returns the cost-driver ranking, which depends only on the model.
func (e *Engine) Drivers() DriverImportance {
	out := make(DriverImportance, len(e.drivers))
	copy(out, e.drivers)
	return out
}

// Quote runs the full pipeline for one description.
func (e *Engine) Quote(ctx context.Context, d Description) (*Quote, error) {
	features, err := Encode(e.variant.Record(d), e.predictor.Schema())
	if err != nil {
		return nil, err
	}

	raw, err := e.predictor.Estimate(ctx, features)
	if err != nil {
		return nil, err
	}

	adjusted, multiplier, err := e.adjuster.Adjust(raw, d.State)
	if err != nil {
		return nil, err
	}

	estimate, err := Breakdown(adjusted, multiplier)
	if err != nil {
		return nil, err
	}

	return &Quote{
		RawCost:  raw,
		Estimate: *estimate,
		Drivers:  e.Drivers(),
		Features: features,
	}, nil
}
