package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// ModelArtifact is one row of the model_artifacts table
type ModelArtifact struct {
	ID                 int64           `json:"id" db:"id"`
	Name               string          `json:"name" db:"name"`
	Variant            string          `json:"variant" db:"variant"`
	Kind               string          `json:"kind" db:"kind"`
	FeatureColumns     pq.StringArray  `json:"feature_columns" db:"feature_columns"`
	FeatureImportances pgvector.Vector `json:"-" db:"feature_importances"`
	FeatureWeights     pq.Float64Array `json:"-" db:"feature_weights"` // full-precision copy of FeatureImportances
	Params             JSONRaw         `json:"params" db:"params"` // kind-specific model parameters
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// Importances returns the stored importances. The float64 copy is preferred;
// rows written before it existed fall back to the float32 vector.
func (a *ModelArtifact) Importances() []float64 {
	if len(a.FeatureWeights) > 0 {
		return append([]float64(nil), a.FeatureWeights...)
	}
	raw := a.FeatureImportances.Slice()
	if len(raw) == 0 {
		return nil
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = float64(v)
	}
	return out
}

// JSONRaw represents a JSONB field decoded lazily by the caller
type JSONRaw json.RawMessage

// Value implements driver.Valuer interface
func (j JSONRaw) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return []byte(j), nil
}

// Scan implements sql.Scanner interface
func (j *JSONRaw) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSONRaw(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONRaw", value)
	}
	return nil
}

// MarshalJSON keeps the raw document intact
func (j JSONRaw) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON stores a copy of the raw document
func (j *JSONRaw) UnmarshalJSON(data []byte) error {
	*j = append((*j)[:0], data...)
	return nil
}
