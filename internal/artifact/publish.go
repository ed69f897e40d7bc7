package artifact

import (
	"context"
	"errors"
	"fmt"

	"quotation/internal/model"
)

// ErrInvalidArtifact marks a document that could not be built into a model.
var ErrInvalidArtifact = errors.New("invalid artifact")

// Saver persists artifact rows.
type Saver interface {
	SaveArtifact(ctx context.Context, rec *model.ModelArtifact, importances []float64) (int64, error)
}

// Publish validates doc by building it, then stores it with the importances
// the built model reports.
func Publish(ctx context.Context, store Saver, doc *Document, opts Options) (*model.ArtifactPublishResponse, error) {
	handle, err := Build(doc, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	rec, err := ToRecord(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	schema := handle.Predictor.Schema()
	weights := handle.Predictor.Importances()
	importances := make([]float64, 0, schema.Len())
	for _, column := range schema.Columns() {
		importances = append(importances, weights[column])
	}

	id, err := store.SaveArtifact(ctx, rec, importances)
	if err != nil {
		return nil, fmt.Errorf("failed to save artifact: %w", err)
	}

	return &model.ArtifactPublishResponse{
		ID:      id,
		Name:    rec.Name,
		Columns: schema.Len(),
	}, nil
}
