package regressor

import (
	"context"
	"fmt"
	"log/slog"
)

// StubSpec configures a fixed-output model for development and demos.
type StubSpec struct {
	Cost float64 `json:"cost" yaml:"cost"`
}

// Stub returns the same cost for every input and equal importances.
type Stub struct {
	cost        float64
	importances []float64
	logger      *slog.Logger
}

// NewStub builds a stub over nFeatures columns.
func NewStub(spec StubSpec, nFeatures int, logger *slog.Logger) (*Stub, error) {
	if nFeatures <= 0 {
		return nil, fmt.Errorf("stub model needs at least one feature")
	}
	if logger == nil {
		logger = slog.Default()
	}
	importances := make([]float64, nFeatures)
	for i := range importances {
		importances[i] = 1 / float64(nFeatures)
	}
	return &Stub{
		cost:        spec.Cost,
		importances: importances,
		logger:      logger,
	}, nil
}

// Predict implements quotation.Regressor.
func (s *Stub) Predict(_ context.Context, values []float64) (float64, error) {
	s.logger.Debug("stub model prediction requested",
		slog.Int("feature_count", len(values)),
	)
	return s.cost, nil
}

// FeatureImportances implements quotation.Regressor.
func (s *Stub) FeatureImportances() []float64 {
	return append([]float64(nil), s.importances...)
}
