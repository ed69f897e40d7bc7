package quotation

import (
	"fmt"
)

// SchemaMismatchError reports an empty or malformed feature schema.
// It is raised at startup, never for individual requests with unseen categories.
type SchemaMismatchError struct {
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: %s", e.Reason)
}

// PredictionError reports a feature vector that does not fit the schema or a
// failure raised by the wrapped regressor during inference.
type PredictionError struct {
	Reason string
	Err    error
}

func (e *PredictionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("prediction failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("prediction failed: %s", e.Reason)
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}

// UnknownRegionError reports a region outside the configured multiplier table.
type UnknownRegionError struct {
	Region string
}

func (e *UnknownRegionError) Error() string {
	return fmt.Sprintf("unknown region %q", e.Region)
}

// InvalidCostError reports a non-finite intermediate cost.
type InvalidCostError struct {
	Stage string
	Value float64
}

func (e *InvalidCostError) Error() string {
	return fmt.Sprintf("invalid cost at %s: %v", e.Stage, e.Value)
}
