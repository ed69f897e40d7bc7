// Package artifact loads a trained cost model and the feature columns it was
// fitted on, from a file, the model_artifacts table or a model server.
package artifact

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"quotation/internal/model"
	"quotation/internal/quotation"
	"quotation/internal/regressor"

	"github.com/go-playground/validator/v10"
)

// Artifact kinds
const (
	KindLinear = "linear"
	KindForest = "forest"
	KindStub   = "stub"
	KindRemote = "remote"
)

var validate = validator.New()

// Document is the serialised artifact as it appears in JSON or YAML files.
// Exactly one of Linear, Forest or Stub is read, chosen by Kind.
type Document struct {
	Name               string                `json:"name" yaml:"name" validate:"required"`
	Variant            string                `json:"variant,omitempty" yaml:"variant,omitempty" validate:"omitempty,oneof=full compact"`
	Kind               string                `json:"kind" yaml:"kind" validate:"required,oneof=linear forest stub"`
	FeatureColumns     []string              `json:"feature_columns" yaml:"feature_columns" validate:"required,min=1,dive,required"`
	FeatureImportances []float64             `json:"feature_importances,omitempty" yaml:"feature_importances,omitempty" validate:"omitempty,dive,gte=0"`
	Linear             *regressor.LinearSpec `json:"linear,omitempty" yaml:"linear,omitempty" validate:"required_if=Kind linear"`
	Forest             *regressor.ForestSpec `json:"forest,omitempty" yaml:"forest,omitempty" validate:"required_if=Kind forest"`
	Stub               *regressor.StubSpec   `json:"stub,omitempty" yaml:"stub,omitempty" validate:"required_if=Kind stub"`
}

// Options are applied while turning a document into a live model.
type Options struct {
	DefaultVariant string // used when the artifact does not name one
	Logger         *slog.Logger
}

// Handle is a loaded, immutable model ready to serve quotations.
type Handle struct {
	Name      string
	Kind      string
	Variant   *quotation.Variant
	Predictor *quotation.Predictor
}

// Build validates a document and constructs its regressor.
func Build(doc *Document, opts Options) (*Handle, error) {
	if doc == nil {
		return nil, fmt.Errorf("no artifact document")
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("invalid artifact %q: %w", doc.Name, err)
	}

	n := len(doc.FeatureColumns)
	if doc.FeatureImportances != nil && len(doc.FeatureImportances) != n {
		return nil, &quotation.SchemaMismatchError{
			Reason: fmt.Sprintf("artifact has %d columns but %d importances", n, len(doc.FeatureImportances)),
		}
	}

	var (
		reg quotation.Regressor
		err error
	)
	switch doc.Kind {
	case KindLinear:
		if len(doc.Linear.Coefficients) != n {
			return nil, &quotation.SchemaMismatchError{
				Reason: fmt.Sprintf("linear model has %d coefficients for %d columns", len(doc.Linear.Coefficients), n),
			}
		}
		reg, err = regressor.NewLinear(*doc.Linear, doc.FeatureImportances)
	case KindForest:
		reg, err = regressor.NewForest(*doc.Forest, n, doc.FeatureImportances)
	case KindStub:
		reg, err = regressor.NewStub(*doc.Stub, n, opts.Logger)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build %s model: %w", doc.Kind, err)
	}

	return assemble(doc.Name, doc.Kind, doc.Variant, doc.FeatureColumns, reg, opts)
}

func assemble(name, kind, variantName string, columns []string, reg quotation.Regressor, opts Options) (*Handle, error) {
	if variantName == "" {
		variantName = opts.DefaultVariant
	}
	variant, err := quotation.LookupVariant(variantName)
	if err != nil {
		return nil, err
	}

	schema, err := quotation.NewFeatureSchema(columns)
	if err != nil {
		return nil, err
	}

	predictor, err := quotation.NewPredictor(schema, reg)
	if err != nil {
		return nil, err
	}

	return &Handle{
		Name:      name,
		Kind:      kind,
		Variant:   variant,
		Predictor: predictor,
	}, nil
}

// ToRecord converts a document into a model_artifacts row. Importances are
// passed separately because the row stores them as a vector.
func ToRecord(doc *Document) (*model.ModelArtifact, error) {
	var params any
	switch doc.Kind {
	case KindLinear:
		params = doc.Linear
	case KindForest:
		params = doc.Forest
	case KindStub:
		params = doc.Stub
	default:
		return nil, fmt.Errorf("unknown artifact kind %q", doc.Kind)
	}

	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s params: %w", doc.Kind, err)
	}

	return &model.ModelArtifact{
		Name:           doc.Name,
		Variant:        doc.Variant,
		Kind:           doc.Kind,
		FeatureColumns: append([]string(nil), doc.FeatureColumns...),
		Params:         model.JSONRaw(raw),
	}, nil
}

// FromRecord converts a model_artifacts row back into a document.
func FromRecord(rec *model.ModelArtifact) (*Document, error) {
	doc := &Document{
		Name:               rec.Name,
		Variant:            rec.Variant,
		Kind:               rec.Kind,
		FeatureColumns:     []string(rec.FeatureColumns),
		FeatureImportances: rec.Importances(),
	}

	var target any
	switch rec.Kind {
	case KindLinear:
		doc.Linear = &regressor.LinearSpec{}
		target = doc.Linear
	case KindForest:
		doc.Forest = &regressor.ForestSpec{}
		target = doc.Forest
	case KindStub:
		doc.Stub = &regressor.StubSpec{}
		target = doc.Stub
	default:
		return nil, fmt.Errorf("unknown artifact kind %q", rec.Kind)
	}

	if len(rec.Params) > 0 {
		if err := json.Unmarshal(rec.Params, target); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s params: %w", rec.Kind, err)
		}
	}
	return doc, nil
}
