package quotation

// Record is a project description flattened by a Variant: numeric fields keyed by
// column name and categorical fields keyed by field name.
type Record struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

// IndicatorColumn names the one-hot column for a categorical value.
func IndicatorColumn(field, category string) string {
	return field + "_" + category
}

// Encode maps a record onto the schema. Numeric fields land on the column with
// the same name; each categorical value turns on its "<field>_<category>" column.
// Categories with no schema column contribute nothing and every other column is 0.
func Encode(record Record, schema *FeatureSchema) (*FeatureVector, error) {
	if schema.Len() == 0 {
		return nil, &SchemaMismatchError{Reason: "feature schema has no columns"}
	}

	values := make([]float64, schema.Len())
	for field, category := range record.Categorical {
		if i, ok := schema.Index(IndicatorColumn(field, category)); ok {
			values[i] = 1
		}
	}
	for col, v := range record.Numeric {
		if i, ok := schema.Index(col); ok {
			values[i] = v
		}
	}

	return &FeatureVector{
		Columns: schema.Columns(),
		Values:  values,
	}, nil
}
